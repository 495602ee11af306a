// Package logging constructs the process-wide structured logger shared by
// both binaries, replacing the teacher's bare log.Printf calls with
// go.uber.org/zap.
package logging

import "go.uber.org/zap"

// New builds a *zap.SugaredLogger for either binary: a production encoder
// at info level, or a development encoder at debug level when verbose is
// set.
func New(verbose bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// ForNode returns a child logger with the node_id field bound, so every
// subsequent line from this process carries its identity.
func ForNode(base *zap.SugaredLogger, nodeID string) *zap.SugaredLogger {
	return base.With("node_id", nodeID)
}

// ForWorkUnit returns a child logger tagging a single ProcessUnit run with
// its work-unit sequence number and the strategy kind driving it.
func ForWorkUnit(base *zap.SugaredLogger, workUnit int, strategyKind int) *zap.SugaredLogger {
	return base.With("work_unit", workUnit, "strategy_kind", strategyKind)
}
