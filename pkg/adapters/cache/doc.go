// Package cache provides result cache implementations.
//
// Implementations:
//   - memory: size-bounded LRU with per-entry TTL
//   - redis: Redis with TTL, shared between replicas
package cache
