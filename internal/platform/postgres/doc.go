// Package postgres provides PostgreSQL implementations of the store
// interfaces. Each store accepts a store.DBTX so the same implementation
// runs against a plain connection pool or an open transaction, and maps
// driver errors onto the store package's error taxonomy.
package postgres
