package commands_test

import (
	"errors"
	"strings"
	"testing"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewDeliverOrderCommand_Validation(t *testing.T) {
	_, err := commands.NewDeliverOrderCommand(kernel.NewUUID(), "  ", nil)
	require.ErrorIs(t, err, commands.ErrReceiverNameIsRequired)

	_, err = commands.NewDeliverOrderCommand(kernel.NewUUID(), "Maria", &commands.ProofFile{Body: strings.NewReader("x")})
	require.ErrorIs(t, err, commands.ErrProofFilenameIsRequired)

	cmd, err := commands.NewDeliverOrderCommand(kernel.NewUUID(), " Maria ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Maria", cmd.ReceiverName())
	assert.Nil(t, cmd.Proof())
}

func TestDeliverOrderCommandHandler_Handle_WithProof(t *testing.T) {
	ctx := t.Context()
	o := newInTransitOrder(t)
	body := strings.NewReader("jpeg bytes")
	cmd, err := commands.NewDeliverOrderCommand(o.ID(), "Maria", &commands.ProofFile{
		Body: body, Filename: "signature.jpg", ContentType: "image/jpeg",
	})
	require.NoError(t, err)

	storage := new(MockProofStorage)
	storage.On("Upload", ctx, body, "signature.jpg", "image/jpeg").
		Return(order.Proof{URL: "http://minio/proofs/1/signature.jpg", ExternalID: "proofs/1/signature.jpg"}, nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDeliverOrderCommandHandler(factory, storage)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Delivered, o.Status())
	require.NotNil(t, o.Delivery())
	assert.Equal(t, "Maria", o.Delivery().ReceiverName())
	require.NotNil(t, o.Delivery().Proof())
	assert.Equal(t, "proofs/1/signature.jpg", o.Delivery().Proof().ExternalID)
	require.Len(t, o.DomainEvents(), 1)
	assert.Equal(t, order.OrderDeliveredEventType, o.DomainEvents()[0].EventType())
	storage.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestDeliverOrderCommandHandler_Handle_WithoutProof(t *testing.T) {
	ctx := t.Context()
	o := newInTransitOrder(t)
	cmd, err := commands.NewDeliverOrderCommand(o.ID(), "Maria", nil)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	repo.On("Update", ctx, o).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDeliverOrderCommandHandler(factory, nil)
	require.NoError(t, h.Handle(ctx, cmd))
	assert.Nil(t, o.Delivery().Proof())
}

func TestDeliverOrderCommandHandler_Handle_PendingOrderUploadsNothing(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t)
	cmd, err := commands.NewDeliverOrderCommand(o.ID(), "Maria", &commands.ProofFile{
		Body: strings.NewReader("x"), Filename: "p.jpg",
	})
	require.NoError(t, err)

	storage := new(MockProofStorage)
	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDeliverOrderCommandHandler(factory, storage)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrInvalidStatusTransition)

	assert.Equal(t, order.Pending, o.Status())
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeliverOrderCommandHandler_Handle_UploadError(t *testing.T) {
	ctx := t.Context()
	o := newInTransitOrder(t)
	cmd, err := commands.NewDeliverOrderCommand(o.ID(), "Maria", &commands.ProofFile{
		Body: strings.NewReader("x"), Filename: "p.jpg",
	})
	require.NoError(t, err)

	storage := new(MockProofStorage)
	storage.On("Upload", ctx, mock.Anything, "p.jpg", "").Return(order.Proof{}, errors.New("bucket missing")).Once()
	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDeliverOrderCommandHandler(factory, storage)
	require.EqualError(t, h.Handle(ctx, cmd), "bucket missing")
	assert.Equal(t, order.InTransit, o.Status())
}

func TestDeliverOrderCommandHandler_Handle_ProofWithoutStorage(t *testing.T) {
	cmd, err := commands.NewDeliverOrderCommand(kernel.NewUUID(), "Maria", &commands.ProofFile{
		Body: strings.NewReader("x"), Filename: "p.jpg",
	})
	require.NoError(t, err)

	factory := new(MockOrderUoWFactory)
	h := commands.NewDeliverOrderCommandHandler(factory, nil)
	require.ErrorIs(t, h.Handle(t.Context(), cmd), commands.ErrProofStorageIsNotConfigured)
	factory.AssertNotCalled(t, "Create")
}
