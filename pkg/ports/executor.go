package ports

import (
	"context"

	"github.com/aretw0/folio/pkg/domain"
)

// Executor runs one operating-system process described by a CommandSpec.
//
// Implementations must create the process directly from the argument
// vector; they must never join the vector into a single string for a
// shell interpreter. On timeout the child process must be terminated,
// not merely reported.
type Executor interface {
	Execute(ctx context.Context, cmd domain.CommandSpec) (domain.ExecutionResult, error)
}
