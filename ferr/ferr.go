// Package ferr holds the sentinel error types shared across the framework's
// construction boundaries (LocalPopulation, ServerElite, transport). They are
// typed rather than sentinel values so callers can errors.As into them after
// the github.com/pkg/errors wrapping the rest of the framework applies.
package ferr

import "fmt"

// InvalidConfig reports a construction-time configuration defect: N<2, an
// iteration or mutation budget below 1, an empty mutation-operator set, a
// server population size below 2, or an unrecognized option. Fatal, fail
// fast.
type InvalidConfig struct {
	Field  string
	Reason string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// NewInvalidConfig constructs an InvalidConfig for field with reason.
func NewInvalidConfig(field, reason string) error {
	return &InvalidConfig{Field: field, Reason: reason}
}

// Unreachable reports that the transport's retry budget toward the server
// was exhausted. The node driver logs it and exits.
type Unreachable struct {
	Addr string
	Err  error
}

func (e *Unreachable) Error() string {
	return fmt.Sprintf("server unreachable at %s: %v", e.Addr, e.Err)
}

func (e *Unreachable) Unwrap() error { return e.Err }

// NewUnreachable constructs an Unreachable for addr wrapping the underlying
// transport error.
func NewUnreachable(addr string, err error) error {
	return &Unreachable{Addr: addr, Err: err}
}
