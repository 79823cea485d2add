// Package cache provides the in-memory, time-boxed result store used by
// adapters. Entries expire after a fixed TTL and are evicted lazily on
// lookup; there is no background sweeper. Each adapter owns its own Store,
// nothing is shared across adapters.
package cache
