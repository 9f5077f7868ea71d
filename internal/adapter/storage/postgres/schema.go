package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

//go:embed schema.sql
var schemaSQL string

// SchemaStatements returns the DDL statements of the schema, in order.
func SchemaStatements() []string {
	var stmts []string
	for _, s := range strings.Split(schemaSQL, ";") {
		if s = strings.TrimSpace(s); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// Migrate creates the accounts and transactions tables if they do not exist.
// It is safe to run on every start.
func Migrate(ctx context.Context, pool Pool, log zerolog.Logger) error {
	stmts := SchemaStatements()
	for i, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return translateError(fmt.Sprintf("apply schema statement %d", i+1), err)
		}
	}
	log.Info().Int("statements", len(stmts)).Msg("database schema is up to date")
	return nil
}
