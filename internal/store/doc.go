// Package store implements dbseed.Store for the supported storage backends.
//
// Postgres writes through pgx, SQL writes through database/sql with a
// dialect for lib/pq, go-sql-driver/mysql or modernc.org/sqlite, Mongo
// inserts documents with mongo-driver, and Memory records inserts in
// process for dry runs and tests.
//
// NewConnector opens one of these backends from a dbseed.ConnectionConfig.
// Each Insert issues exactly one statement; stores never batch, buffer or
// retry inserts.
package store
