// Package route implements the Route aggregate: one driver's planned visits
// for one delivery zone within one batch.
//
// Route lifecycle:
//
//	Pending ──Start()──> InProgress ──Complete()──> Completed
//	   │                     │
//	   └──────Cancel()───────┴──────> Cancelled
//
// A route needs a driver before it can start, and drivers can only be changed
// while the route is Pending. Complete on a completed route and Cancel on a
// cancelled route are accepted as no-ops so that redundant reactions stay harmless.
package route
