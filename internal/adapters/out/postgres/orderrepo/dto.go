// Package orderrepo maps the order aggregate to the orders and order_items tables.
// Delivery and incident details are stored as nullable columns of the order row.
package orderrepo

import (
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is indexed for the three access paths: by batch, by route and by status.
type OrderDTO struct {
	ID                    uuid.UUID   `gorm:"type:uuid;primaryKey"`
	BatchID               uuid.UUID   `gorm:"type:uuid;not null;index"`
	CustomerID            uuid.UUID   `gorm:"type:uuid;not null"`
	RouteID               *uuid.UUID  `gorm:"type:uuid;index"`
	DeliverySequence      *int        `gorm:"type:int"`
	Status                int         `gorm:"type:smallint;not null;index"`
	ScheduledDeliveryDate time.Time   `gorm:"type:date;not null"`
	DeliveryAddress       string      `gorm:"type:varchar(512);not null"`
	Location              GeoPointDTO `gorm:"embedded;embeddedPrefix:location_"`
	Delivery              DeliveryDTO `gorm:"embedded"`
	Incident              IncidentDTO `gorm:"embedded;embeddedPrefix:incident_"`
	CreatedAt             time.Time   `gorm:"not null"`
	Version               int         `gorm:"type:int;not null;default:0"`
	Items                 []ItemDTO   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type GeoPointDTO struct {
	Latitude  float64 `gorm:"type:double precision;not null"`
	Longitude float64 `gorm:"type:double precision;not null"`
}

// DeliveryDTO is all-null until the order is delivered.
type DeliveryDTO struct {
	DeliveredAt     *time.Time
	ReceiverName    *string `gorm:"type:varchar(255)"`
	ProofURL        *string `gorm:"type:text"`
	ProofExternalID *string `gorm:"type:varchar(512)"`
}

// IncidentDTO is all-null until an incident is reported.
type IncidentDTO struct {
	Kind        *string `gorm:"type:varchar(32)"`
	Description *string `gorm:"type:text"`
	ReportedAt  *time.Time
}

// ItemDTO keeps the position of the line so items load in insertion order.
type ItemDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity  int       `gorm:"type:int;not null"`
	Position  int       `gorm:"type:int;not null"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()

	items := make([]ItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, ItemDTO{
			ID:        item.ID().Bytes(),
			OrderID:   orderID,
			ProductID: item.ProductID().Bytes(),
			Quantity:  item.Quantity(),
			Position:  i,
		})
	}

	dto := OrderDTO{
		ID:                    orderID,
		BatchID:               o.BatchID().Bytes(),
		CustomerID:            o.CustomerID().Bytes(),
		RouteID:               kernel.NullableBytes(o.RouteID()),
		DeliverySequence:      o.DeliverySequence(),
		Status:                int(o.Status()),
		ScheduledDeliveryDate: o.ScheduledDeliveryDate(),
		DeliveryAddress:       o.DeliveryAddress(),
		Location: GeoPointDTO{
			Latitude:  o.DeliveryLocation().Latitude(),
			Longitude: o.DeliveryLocation().Longitude(),
		},
		CreatedAt: o.CreatedAt(),
		Version:   o.Version(),
		Items:     items,
	}

	if d := o.Delivery(); d != nil {
		deliveredAt := d.DeliveredAt()
		receiver := d.ReceiverName()
		dto.Delivery.DeliveredAt = &deliveredAt
		dto.Delivery.ReceiverName = &receiver
		if p := d.Proof(); p != nil {
			url, externalID := p.URL, p.ExternalID
			dto.Delivery.ProofURL = &url
			dto.Delivery.ProofExternalID = &externalID
		}
	}

	if inc := o.Incident(); inc != nil {
		kind := string(inc.Kind())
		description := inc.Description()
		reportedAt := inc.ReportedAt()
		dto.Incident = IncidentDTO{Kind: &kind, Description: &description, ReportedAt: &reportedAt}
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	batchID, err := kernel.UUIDFromBytes(dto.BatchID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	routeID, err := kernel.UUIDFromNullable(dto.RouteID)
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Location.Latitude, dto.Location.Longitude)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	delivery, err := deliveryToDomain(dto.Delivery)
	if err != nil {
		return nil, err
	}
	incident, err := incidentToDomain(dto.Incident)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.State{
		ID:                    id,
		BatchID:               batchID,
		CustomerID:            customerID,
		RouteID:               routeID,
		DeliverySequence:      dto.DeliverySequence,
		Status:                order.Status(dto.Status),
		ScheduledDeliveryDate: dto.ScheduledDeliveryDate.UTC(),
		DeliveryAddress:       dto.DeliveryAddress,
		DeliveryLocation:      location,
		Items:                 items,
		Delivery:              delivery,
		Incident:              incident,
		CreatedAt:             dto.CreatedAt.UTC(),
		Version:               dto.Version,
	})
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}
	return order.RestoreItem(id, productID, dto.Quantity)
}

func deliveryToDomain(dto DeliveryDTO) (*order.Delivery, error) {
	if dto.DeliveredAt == nil || dto.ReceiverName == nil {
		return nil, nil //nolint:nilnil // not delivered yet
	}

	var proof *order.Proof
	if dto.ProofURL != nil {
		proof = &order.Proof{URL: *dto.ProofURL}
		if dto.ProofExternalID != nil {
			proof.ExternalID = *dto.ProofExternalID
		}
	}

	return order.NewDelivery(*dto.ReceiverName, dto.DeliveredAt.UTC(), proof)
}

func incidentToDomain(dto IncidentDTO) (*order.Incident, error) {
	if dto.Kind == nil || dto.ReportedAt == nil {
		return nil, nil //nolint:nilnil // no incident reported
	}

	var description string
	if dto.Description != nil {
		description = *dto.Description
	}

	return order.NewIncident(order.IncidentKind(*dto.Kind), description, dto.ReportedAt.UTC())
}
