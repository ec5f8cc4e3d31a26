package order

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one product line of an order.
type Item struct {
	id        kernel.UUID
	productID kernel.UUID
	quantity  int
	guard     guard.ConstructorGuard
}

func NewItem(productID kernel.UUID, quantity int) (*Item, error) {
	return RestoreItem(kernel.NewUUID(), productID, quantity)
}

func RestoreItem(id, productID kernel.UUID, quantity int) (*Item, error) {
	if err := errors.Join(id.Validate(), productID.Validate(), validateQuantity(quantity)); err != nil {
		return nil, err
	}

	return &Item{
		id:        id,
		productID: productID,
		quantity:  quantity,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (i *Item) ID() kernel.UUID {
	return i.id
}

func (i *Item) ProductID() kernel.UUID {
	return i.productID
}

func (i *Item) Quantity() int {
	return i.quantity
}

func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i *Item) increase(quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	i.quantity += quantity
	return nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrItemQuantityMustBePositive.WithMessage("item quantity must be greater than zero, got %d", quantity)
	}
	return nil
}
