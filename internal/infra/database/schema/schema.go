package schema

import _ "embed"

// SQL creates the tables the reminder job reads.
//
//go:embed schema.sql
var SQL string
