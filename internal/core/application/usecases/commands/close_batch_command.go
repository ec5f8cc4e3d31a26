package commands

import (
	"errors"

	"lastmile/internal/pkg/guard"
)

var ErrCloseBatchCommandIsNotConstructed = errors.New(
	"CloseBatchCommand must be created via NewCloseBatchCommand constructor",
)

// CloseBatchCommand closes the currently open batch. Closing a batch
// triggers route building for its orders once the transaction commits.
//
// Example:
//
//	cmd := NewCloseBatchCommand()
//	handler := NewCloseBatchCommandHandler(uowFactory)
//
//	// Run on a schedule, see jobs.BatchClosingJob
//	if err := handler.Handle(ctx, cmd); err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
//	    log.Printf("batch closing failed: %v", err)
//	}
type CloseBatchCommand struct {
	guard guard.ConstructorGuard
}

func NewCloseBatchCommand() CloseBatchCommand {
	return CloseBatchCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c *CloseBatchCommand) Validate() error {
	return c.guard.Validate(ErrCloseBatchCommandIsNotConstructed)
}
