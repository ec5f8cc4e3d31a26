package postgres

import (
	"fmt"

	"lastmile/internal/adapters/out/postgres/batchrepo"
	"lastmile/internal/adapters/out/postgres/orderrepo"
	"lastmile/internal/adapters/out/postgres/routerepo"
	"lastmile/internal/adapters/out/postgres/zonerepo"
	"lastmile/internal/core/domain/model/batch"

	"gorm.io/gorm"
)

// Migrate creates or updates every table used by the repositories.
// At most one batch may be open at a time; a partial unique index enforces it
// so concurrent order creation cannot open two batches.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&batchrepo.BatchDTO{},
		&zonerepo.DeliveryZoneDTO{},
		&routerepo.RouteDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
	); err != nil {
		return err
	}

	return db.Exec(fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS batches_single_open ON batches (status) WHERE status = %d",
		int(batch.Open),
	)).Error
}
