package db

import _ "embed"

//go:embed schema.sql
var Schema string

// SchemaVersion is bumped whenever schema.sql changes shape.
const SchemaVersion = 1
