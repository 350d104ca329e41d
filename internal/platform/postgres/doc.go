// Package postgres implements the store interfaces on PostgreSQL via
// database/sql and the pgx stdlib driver. Uniqueness constraints on
// account numbers and transaction ids are enforced here and surfaced
// as store duplicate errors so that callers can retry allocation.
package postgres
