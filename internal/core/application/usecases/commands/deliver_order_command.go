package commands

import (
	"errors"
	"io"
	"strings"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var (
	ErrDeliverOrderCommandIsNotConstructed = errors.New(
		"DeliverOrderCommand must be created via NewDeliverOrderCommand constructor",
	)
	ErrReceiverNameIsRequired  = errs.NewValueIsRequiredError("receiver name")
	ErrProofFilenameIsRequired = errs.NewValueIsRequiredError("proof filename")
)

// ProofFile is a proof-of-delivery image sent along with the delivery.
type ProofFile struct {
	Body        io.Reader
	Filename    string
	ContentType string
}

// DeliverOrderCommand marks an in-transit order as delivered to receiverName.
// The optional proof is uploaded to proof storage before the order is saved.
//
// Example:
//
//	cmd, err := NewDeliverOrderCommand(orderID, "Maria Silva", &ProofFile{
//	    Body:        file,
//	    Filename:    "signature.jpg",
//	    ContentType: "image/jpeg",
//	})
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type DeliverOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	receiverName string
	proof        *ProofFile

	guard guard.ConstructorGuard
}

func NewDeliverOrderCommand(orderID kernel.UUID, receiverName string, proof *ProofFile) (DeliverOrderCommand, error) {
	cmd := DeliverOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReceiverName(receiverName),
		cmd.setProof(proof),
	); err != nil {
		return DeliverOrderCommand{}, err
	}

	return cmd, nil
}

func (c DeliverOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeliverOrderCommandIsNotConstructed)
}

func (c DeliverOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c DeliverOrderCommand) ReceiverName() string {
	return c.receiverName
}

// Proof returns nil when the delivery carries no proof image.
func (c DeliverOrderCommand) Proof() *ProofFile {
	return c.proof
}

func (c *DeliverOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *DeliverOrderCommand) setReceiverName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrReceiverNameIsRequired
	}

	c.receiverName = name
	return nil
}

func (c *DeliverOrderCommand) setProof(proof *ProofFile) error {
	if proof == nil {
		return nil
	}
	if proof.Body == nil {
		return errs.NewValueIsRequiredError("proof body")
	}
	if strings.TrimSpace(proof.Filename) == "" {
		return ErrProofFilenameIsRequired
	}

	c.proof = proof
	return nil
}
