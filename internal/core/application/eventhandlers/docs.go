// Package eventhandlers contains the reactions that keep batches, orders and
// routes consistent with each other:
//
//   - RouteBuildingHandler turns a closed batch into one route per zone.
//   - RouteCompletionHandler completes a route once all its orders are terminal.
//   - RouteStartedHandler and RouteCancelledHandler cascade route status to member orders.
//
// Every reaction runs in its own unit of work and is invoked synchronously by
// the event dispatcher after the triggering transaction commits.
package eventhandlers
