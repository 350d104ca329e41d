// Package store defines the persistence contract consumed by the
// ledger core: keyed lookup of users, accounts, and transactions,
// account mutation, append-only transaction recording, and the
// per-command transactional unit of work. Implementations live under
// internal/platform; business rules never depend on a concrete
// database.
package store
