// Package zonerepo maps delivery zones to the delivery_zones table and their
// boundary rings to delivery_zone_vertices.
package zonerepo

import (
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/zone"

	"github.com/google/uuid"
)

type DeliveryZoneDTO struct {
	ID       uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Code     string      `gorm:"type:varchar(7);not null;uniqueIndex"`
	Name     string      `gorm:"type:varchar(255);not null"`
	DriverID *uuid.UUID  `gorm:"type:uuid"`
	Vertices []VertexDTO `gorm:"foreignKey:ZoneID;constraint:OnDelete:CASCADE"`
}

func (DeliveryZoneDTO) TableName() string {
	return "delivery_zones"
}

// VertexDTO is one point of the closed boundary ring; the closing point is stored too.
type VertexDTO struct {
	ZoneID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"type:int;primaryKey;autoIncrement:false"`
	Latitude  float64   `gorm:"type:double precision;not null"`
	Longitude float64   `gorm:"type:double precision;not null"`
}

func (VertexDTO) TableName() string {
	return "delivery_zone_vertices"
}

func fromDomain(z *zone.DeliveryZone) DeliveryZoneDTO {
	zoneID := z.ID().Bytes()
	ring := z.Boundary().Coordinates()

	vertices := make([]VertexDTO, 0, len(ring))
	for i, p := range ring {
		vertices = append(vertices, VertexDTO{
			ZoneID:    zoneID,
			Position:  i,
			Latitude:  p.Latitude(),
			Longitude: p.Longitude(),
		})
	}

	return DeliveryZoneDTO{
		ID:       zoneID,
		Code:     z.Code(),
		Name:     z.Name(),
		DriverID: kernel.NullableBytes(z.DriverID()),
		Vertices: vertices,
	}
}

func toDomain(dto DeliveryZoneDTO) (*zone.DeliveryZone, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromNullable(dto.DriverID)
	if err != nil {
		return nil, err
	}

	points := make([]kernel.GeoPoint, 0, len(dto.Vertices))
	for _, v := range dto.Vertices {
		p, pointErr := kernel.NewGeoPoint(v.Latitude, v.Longitude)
		if pointErr != nil {
			return nil, pointErr
		}
		points = append(points, p)
	}

	boundary, err := kernel.NewBoundary(points)
	if err != nil {
		return nil, err
	}

	return zone.RestoreDeliveryZone(id, dto.Code, dto.Name, boundary, driverID)
}
