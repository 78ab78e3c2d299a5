package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborpos/ledger/internal/apperrors"
)

// SchemaCapabilities records which optional columns the deployed schema
// carries. Deployments migrate at different paces, so the engine detects these
// once at startup and the repositories degrade gracefully (skip a column that
// is not there) instead of failing per call.
type SchemaCapabilities struct {
	HasEntryStatus         bool // journal_entries.status
	HasPostedBy            bool // journal_entries.posted_by
	HasPostedAt            bool // journal_entries.posted_at
	HasCategoryAccountCode bool // expense_categories.account_code
}

// DetectSchemaCapabilities probes information_schema for the optional columns.
// Called exactly once per process lifetime, at startup; the result is passed by
// value into the repositories.
func DetectSchemaCapabilities(ctx context.Context, pool *pgxpool.Pool) (SchemaCapabilities, error) {
	query := `
		SELECT table_name, column_name
		FROM information_schema.columns
		WHERE (table_name = 'journal_entries' AND column_name IN ('status', 'posted_by', 'posted_at'))
		   OR (table_name = 'expense_categories' AND column_name = 'account_code');
	`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return SchemaCapabilities{}, apperrors.NewAppError(500, "failed to probe schema capabilities", err)
	}
	defer rows.Close()

	var caps SchemaCapabilities
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return SchemaCapabilities{}, apperrors.NewAppError(500, "failed to scan schema capability row", err)
		}
		switch table + "." + column {
		case "journal_entries.status":
			caps.HasEntryStatus = true
		case "journal_entries.posted_by":
			caps.HasPostedBy = true
		case "journal_entries.posted_at":
			caps.HasPostedAt = true
		case "expense_categories.account_code":
			caps.HasCategoryAccountCode = true
		}
	}
	if err := rows.Err(); err != nil {
		return SchemaCapabilities{}, apperrors.NewAppError(500, "error iterating schema capability rows", err)
	}
	return caps, nil
}
