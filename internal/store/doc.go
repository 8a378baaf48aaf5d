// Package store defines the persistence interfaces consumed by the
// application core, together with the sentinel errors and transaction
// helpers shared by every implementation.
package store
