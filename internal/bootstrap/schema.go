package bootstrap

import (
	"context"
	"fmt"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/marshal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// The account indexes are the authoritative uniqueness guard: a racing
// insert that survives the gateway's pre-check is still rejected here.
const schemaSQL = `
DEFINE TABLE account SCHEMALESS;
DEFINE INDEX account_email_idx ON TABLE account COLUMNS email UNIQUE;
DEFINE INDEX account_mobile_idx ON TABLE account COLUMNS mobile UNIQUE;
DEFINE TABLE inquiry SCHEMALESS;
`

// EnsureSchema defines tables and unique indexes on startup.
func EnsureSchema(lc fx.Lifecycle, db *surrealdb.DB, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureSchema(db, logger)
		},
	})
}

func ensureSchema(db *surrealdb.DB, logger *zap.Logger) error {
	res, err := db.Query(schemaSQL, nil)
	if err != nil {
		return fmt.Errorf("define schema: %w", err)
	}

	var results []marshal.RawQuery[any]
	if err := marshal.UnmarshalRaw(res, &results); err != nil {
		return fmt.Errorf("define schema: %w", err)
	}

	if logger != nil {
		logger.Info("schema ensured", zap.Int("statements", len(results)))
	}
	return nil
}
