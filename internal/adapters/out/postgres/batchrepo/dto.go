// Package batchrepo maps the batch aggregate to the batches table.
package batchrepo

import (
	"time"

	"lastmile/internal/core/domain/model/batch"
	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type BatchDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TotalOrders int       `gorm:"type:int;not null"`
	Status      int       `gorm:"type:smallint;not null;index"`
	OpenedAt    time.Time `gorm:"not null"`
	Version     int       `gorm:"type:int;not null;default:0"`
	ClosedAt    *time.Time
}

func (BatchDTO) TableName() string {
	return "batches"
}

func fromDomain(b *batch.Batch) BatchDTO {
	return BatchDTO{
		ID:          b.ID().Bytes(),
		TotalOrders: b.TotalOrders(),
		Status:      int(b.Status()),
		OpenedAt:    b.OpenedAt(),
		ClosedAt:    b.ClosedAt(),
		Version:     b.Version(),
	}
}

func toDomain(dto BatchDTO) (*batch.Batch, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return batch.RestoreBatch(id, dto.TotalOrders, batch.Status(dto.Status), dto.OpenedAt, dto.ClosedAt, dto.Version)
}
