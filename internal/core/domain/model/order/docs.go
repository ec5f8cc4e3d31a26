// Package order implements the Order aggregate together with its Item,
// Delivery and Incident sub-entities.
//
// Order lifecycle:
//
//	Pending ──MarkAsInTransit()──> InTransit ──Deliver()─────────> Delivered
//	   │                              │  └──────ReportIncident()──> Failed
//	   └──────────Cancel()────────────┴──────────────────────────> Cancelled
//
// Items, route assignment and the scheduled date can only change while an order
// is Pending. Route assignment never changes status; the order stays Pending
// until its route is started.
//
// Delivered, Cancelled and Failed are terminal. Reaching any of them records an
// event that carries the order's route so route completion can be re-evaluated.
package order
