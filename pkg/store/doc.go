// Package store is the PostgreSQL side of dataguard: the schema of the
// validated entities and of persisted reports, the snapshot loader, and the
// SQL constraint probes run against that schema.
package store
