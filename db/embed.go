// Package db embeds the database schema applied at startup.
package db

import _ "embed"

// Schema contains the idempotent DDL for all storefront tables, the order
// status enum, and the seeded role rows.
//
//go:embed migrations/001_schema.sql
var Schema string
