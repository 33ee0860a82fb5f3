// Package database provides the PostgreSQL connection pool for the
// optional quote snapshot sink.
package database
