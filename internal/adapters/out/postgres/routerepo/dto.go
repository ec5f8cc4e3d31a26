// Package routerepo maps the route aggregate to the routes table.
package routerepo

import (
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/route"

	"github.com/google/uuid"
)

type RouteDTO struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey"`
	BatchID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	DeliveryZoneID uuid.UUID   `gorm:"type:uuid;not null;index"`
	DriverID       *uuid.UUID  `gorm:"type:uuid;index"`
	Origin         GeoPointDTO `gorm:"embedded;embeddedPrefix:origin_"`
	Status         int         `gorm:"type:smallint;not null;index"`
	CreatedAt      time.Time   `gorm:"not null"`
	Version        int         `gorm:"type:int;not null;default:0"`
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

func (RouteDTO) TableName() string {
	return "routes"
}

type GeoPointDTO struct {
	Latitude  float64 `gorm:"type:double precision;not null"`
	Longitude float64 `gorm:"type:double precision;not null"`
}

func fromDomain(r *route.Route) RouteDTO {
	return RouteDTO{
		ID:             r.ID().Bytes(),
		BatchID:        r.BatchID().Bytes(),
		DeliveryZoneID: r.DeliveryZoneID().Bytes(),
		DriverID:       kernel.NullableBytes(r.DriverID()),
		Origin: GeoPointDTO{
			Latitude:  r.OriginLocation().Latitude(),
			Longitude: r.OriginLocation().Longitude(),
		},
		Status:      int(r.Status()),
		CreatedAt:   r.CreatedAt(),
		Version:     r.Version(),
		StartedAt:   r.StartedAt(),
		CompletedAt: r.CompletedAt(),
	}
}

func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	batchID, err := kernel.UUIDFromBytes(dto.BatchID[:])
	if err != nil {
		return nil, err
	}
	zoneID, err := kernel.UUIDFromBytes(dto.DeliveryZoneID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromNullable(dto.DriverID)
	if err != nil {
		return nil, err
	}
	origin, err := kernel.NewGeoPoint(dto.Origin.Latitude, dto.Origin.Longitude)
	if err != nil {
		return nil, err
	}

	return route.RestoreRoute(route.State{
		ID:             id,
		BatchID:        batchID,
		DeliveryZoneID: zoneID,
		DriverID:       driverID,
		OriginLocation: origin,
		Status:         route.Status(dto.Status),
		CreatedAt:      dto.CreatedAt.UTC(),
		StartedAt:      utcPtr(dto.StartedAt),
		CompletedAt:    utcPtr(dto.CompletedAt),
		Version:        dto.Version,
	})
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
