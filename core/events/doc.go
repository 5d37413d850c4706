// Package events defines the payloads published on the internal event bus
// by the planning engine. Subscribers (metric sinks, tests, future UI
// refresh hooks) receive them after the corresponding state change has been
// persisted.
package events
