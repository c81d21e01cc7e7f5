/*
Package ports defines the driven ports (interfaces) used by scout components.

These interfaces decouple lookups and the collection workflow from where their
state lives, so the same code runs with in-memory or Redis backends.

# Key Interfaces

  - Cache: TTL-bound storage of normalized provider results.
  - JobTracker: in-process record of collection jobs started by this server.
*/
package ports
