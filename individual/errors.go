package individual

import "fmt"

// UnknownMutationOp is returned by Mutate when op falls outside the
// individual's declared operator set. It is fatal: the strategy engine
// never catches it, only the node driver does, to log and exit.
type UnknownMutationOp struct {
	Op int
}

func (e *UnknownMutationOp) Error() string {
	return fmt.Sprintf("individual: unknown mutation op %d", e.Op)
}

// NewUnknownMutationOp constructs an UnknownMutationOp error for op.
func NewUnknownMutationOp(op int) error {
	return &UnknownMutationOp{Op: op}
}
