package queries_test

import (
	"testing"

	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetRouteDetailsQuery(t *testing.T) {
	routeID := kernel.NewUUID()

	query, err := queries.NewGetRouteDetailsQuery(routeID)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, routeID, query.RouteID())

	_, err = queries.NewGetRouteDetailsQuery(kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestGetRouteDetailsQuery_NotConstructedViaConstructor(t *testing.T) {
	err := queries.GetRouteDetailsQuery{}.Validate()
	assert.ErrorIs(t, err, queries.ErrGetRouteDetailsQueryIsNotConstructed)
}

func TestNewGetBatchOrdersQuery(t *testing.T) {
	batchID := kernel.NewUUID()

	query, err := queries.NewGetBatchOrdersQuery(batchID, order.Pending, order.Failed)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, batchID, query.BatchID())
	assert.Equal(t, []order.Status{order.Pending, order.Failed}, query.Statuses())

	all, err := queries.NewGetBatchOrdersQuery(batchID)
	require.NoError(t, err)
	assert.Empty(t, all.Statuses())
}

func TestNewGetBatchOrdersQuery_RejectsInvalidInput(t *testing.T) {
	_, err := queries.NewGetBatchOrdersQuery(kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewGetBatchOrdersQuery(kernel.NewUUID(), order.Status(42))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestGetBatchOrdersQuery_NotConstructedViaConstructor(t *testing.T) {
	err := queries.GetBatchOrdersQuery{}.Validate()
	assert.ErrorIs(t, err, queries.ErrGetBatchOrdersQueryIsNotConstructed)
}
