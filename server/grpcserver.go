package server

import (
	"context"

	"github.com/signalnine/evolusnake/individual"
	"github.com/signalnine/evolusnake/transport"
)

// NewIndividual constructs a blank problem Individual ready for
// Deserialize, used to materialize a node-submitted candidate.
type NewIndividual func() individual.Individual

// GRPCService adapts Elite to transport.EvolusnakeServer, keeping Elite
// itself free of any transport concern.
type GRPCService struct {
	transport.UnimplementedEvolusnakeServer

	elite         *Elite
	newIndividual NewIndividual
}

// NewGRPCService wraps elite for registration on a grpc.Server.
func NewGRPCService(elite *Elite, newIndividual NewIndividual) *GRPCService {
	return &GRPCService{elite: elite, newIndividual: newIndividual}
}

func (s *GRPCService) GetSeed(ctx context.Context, req *transport.GetSeedRequest) (*transport.GetSeedResponse, error) {
	if s.elite.IsDone() {
		return &transport.GetSeedResponse{Done: true}, nil
	}
	seed := s.elite.GetSeed(req.NodeID)
	doc, err := seed.Serialize()
	if err != nil {
		return nil, err
	}
	return &transport.GetSeedResponse{Individual: doc}, nil
}

func (s *GRPCService) Submit(ctx context.Context, req *transport.SubmitRequest) (*transport.SubmitResponse, error) {
	cand := s.newIndividual()
	if err := cand.Deserialize(req.Individual); err != nil {
		// A malformed Submit is a silent reject, never an error surfaced to
		// the caller beyond a generic ack-false.
		return &transport.SubmitResponse{Accepted: false, Done: s.elite.IsDone()}, nil
	}
	cand.Fitness()

	accepted, err := s.elite.Submit(req.NodeID, cand)
	if err != nil {
		return nil, err
	}
	return &transport.SubmitResponse{Accepted: accepted, Done: s.elite.IsDone()}, nil
}
