package db

import "embed"

// Migrations holds the SQL migrations applied at server start
//
//go:embed migrations/*.sql
var Migrations embed.FS
