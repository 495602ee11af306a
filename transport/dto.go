// Package transport carries the node<->server GetSeed/Submit contract over
// gRPC. Because this module ships no protoc toolchain, wire payloads are
// plain Go structs carried by a custom JSON encoding.Codec rather than
// generated protobuf messages - a supported gRPC extension point - so the
// dependency is genuinely exercised (connection management, per-RPC
// deadlines, interceptor chain) without fabricating .pb.go stubs.
package transport

// GetSeedRequest asks the server for a seed individual to integrate into a
// node's local population.
type GetSeedRequest struct {
	NodeID string `json:"node_id"`
}

// GetSeedResponse carries the seed individual's serialized state, or Done
// if the server has already converged and the node should stop.
type GetSeedResponse struct {
	Individual map[string]any `json:"individual"`
	Done       bool           `json:"done"`
}

// SubmitRequest carries a node's locally-best individual back to the
// server for admission.
type SubmitRequest struct {
	NodeID     string         `json:"node_id"`
	Individual map[string]any `json:"individual"`
}

// SubmitResponse reports whether the candidate was admitted and whether
// the server has since converged.
type SubmitResponse struct {
	Accepted bool `json:"accepted"`
	Done     bool `json:"done"`
}
