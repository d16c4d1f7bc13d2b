package migrations

import "embed"

// FS contains the schema migrations of every supported dialect.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Dirs maps a database driver name to its migration directory inside FS.
var Dirs = map[string]string{
	"postgres": "postgres",
	"sqlite":   "sqlite",
}
