// Package store implements the relational persistence layer over
// database/sql.
//
// Two drivers are supported: sqlite3 (the default deployment) and postgres.
// Queries are written with ? placeholders and rebound for postgres. The
// schema is ensured at startup; there are no migrations beyond that.
package store
