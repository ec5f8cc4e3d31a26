package zonerepo

import (
	"context"
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/zone"
	"lastmile/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryZoneRepository implements ports.DeliveryZoneRepository using GORM.
// Zones are reference data edited by operators, so updates are last-write-wins.
type GormDeliveryZoneRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormDeliveryZoneRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryZoneRepository {
	return &GormDeliveryZoneRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormDeliveryZoneRepository) Add(ctx context.Context, aggregate *zone.DeliveryZone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update rewrites the zone row and its boundary vertices.
func (r *GormDeliveryZoneRepository) Update(ctx context.Context, aggregate *zone.DeliveryZone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	vertices := dto.Vertices
	dto.Vertices = nil

	db := r.db.WithContext(ctx)
	result := db.Model(&DeliveryZoneDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("Vertices").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery zone", aggregate.ID().String())
	}

	if err := db.Where("zone_id = ?", dto.ID).Delete(&VertexDTO{}).Error; err != nil {
		return err
	}
	if err := db.Create(&vertices).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormDeliveryZoneRepository) Remove(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&DeliveryZoneDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery zone", id.String())
	}

	return nil
}

func (r *GormDeliveryZoneRepository) Get(ctx context.Context, id kernel.UUID) (*zone.DeliveryZone, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryZoneDTO
	if err := r.withVertices(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery zone", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormDeliveryZoneRepository) GetByCode(ctx context.Context, code string) (*zone.DeliveryZone, error) {
	var dto DeliveryZoneDTO
	if err := r.withVertices(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery zone", code)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll returns zones ordered by code.
func (r *GormDeliveryZoneRepository) GetAll(ctx context.Context) ([]*zone.DeliveryZone, error) {
	var dtos []DeliveryZoneDTO
	if err := r.withVertices(ctx).Order("code").Find(&dtos).Error; err != nil {
		return nil, err
	}

	zones := make([]*zone.DeliveryZone, 0, len(dtos))
	for _, dto := range dtos {
		z, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}

	return zones, nil
}

func (r *GormDeliveryZoneRepository) withVertices(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Vertices", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}
