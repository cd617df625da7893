// Package health periodically checks the service's external dependencies.
//
// A Monitor runs registered checks on an interval, keeps the latest result of
// each, records it as a metric and notifies listeners when the overall state
// changes. The result cache is the only dependency the service has; without a
// Redis cache the monitor has nothing to check and always reports healthy.
package health
