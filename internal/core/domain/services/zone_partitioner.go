package services

import (
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/zone"
)

// ZoneGroup is the set of orders that fall inside one delivery zone.
type ZoneGroup struct {
	Zone   *zone.DeliveryZone
	Orders []*order.Order
}

// Partition is the result of assigning orders to zones.
type Partition struct {
	// Groups follow the order in which zones were supplied; zones without orders are omitted.
	Groups    []ZoneGroup
	Unmatched []*order.Order
}

// ZonePartitioner assigns each order to the first zone whose boundary contains
// its delivery location.
//
// Overlapping zones are resolved by enumeration order, not by best fit, so the
// caller controls the outcome through the order of zones it passes in.
type ZonePartitioner struct{}

func NewZonePartitioner() ZonePartitioner {
	return ZonePartitioner{}
}

func (ZonePartitioner) Partition(orders []*order.Order, zones []*zone.DeliveryZone) Partition {
	groups := make([]ZoneGroup, len(zones))
	for i, z := range zones {
		groups[i].Zone = z
	}

	var unmatched []*order.Order
	for _, o := range orders {
		idx := firstContaining(zones, o)
		if idx < 0 {
			unmatched = append(unmatched, o)
			continue
		}
		groups[idx].Orders = append(groups[idx].Orders, o)
	}

	result := Partition{Unmatched: unmatched}
	for _, g := range groups {
		if len(g.Orders) > 0 {
			result.Groups = append(result.Groups, g)
		}
	}
	return result
}

func firstContaining(zones []*zone.DeliveryZone, o *order.Order) int {
	for i, z := range zones {
		if z.Contains(o.DeliveryLocation()) {
			return i
		}
	}
	return -1
}
