package pgsql

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborpos/ledger/internal/apperrors"
	"github.com/harborpos/ledger/internal/core/domain"
	portsrepo "github.com/harborpos/ledger/internal/core/ports/repositories"
	"github.com/harborpos/ledger/internal/utils/accounting"
)

// Constraint names the repository inspects on pgconn errors. Only a violation
// of the idempotency constraint is absorbed as "already posted"; any other
// unique violation propagates.
const (
	idempotencyConstraint = "uq_journal_entries_source_ref"
	entryNumberConstraint = "uq_journal_entries_entry_number"
)

type PgxJournalEntryRepository struct {
	BaseRepository
	caps SchemaCapabilities
}

// NewJournalEntryRepository creates a repository for journal entry headers and lines.
func NewJournalEntryRepository(pool *pgxpool.Pool, caps SchemaCapabilities) portsrepo.JournalEntryRepository {
	return &PgxJournalEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
		caps:           caps,
	}
}

var _ portsrepo.JournalEntryRepository = (*PgxJournalEntryRepository)(nil)

// IsPosted reports whether a posted entry already exists for the exact
// (source, sourceID, referenceNo) triple.
func (r *PgxJournalEntryRepository) IsPosted(ctx context.Context, source domain.EntrySource, sourceID *string, referenceNo string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM journal_entries
			WHERE source = $1
			  AND source_id IS NOT DISTINCT FROM $2
			  AND reference_no = $3
	`
	if r.caps.HasEntryStatus {
		query += ` AND status = 'POSTED'`
	}
	query += `);`

	var exists bool
	if err := r.Pool.QueryRow(ctx, query, source, sourceID, referenceNo).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check idempotency for reference "+referenceNo, err)
	}
	return exists, nil
}

// NextEntryNumber reads the latest entry number for the posting day inside the
// caller's transaction and increments its sequence. This is a read-then-write
// with a narrow race window; the unique constraint on entry_number turns a
// collision under concurrent posting into a retryable conflict.
func (r *PgxJournalEntryRepository) NextEntryNumber(ctx context.Context, tx pgx.Tx, date time.Time) (string, error) {
	query := `
		SELECT entry_number FROM journal_entries
		WHERE entry_number LIKE $1
		ORDER BY entry_seq DESC
		LIMIT 1;
	`
	var last string
	err := tx.QueryRow(ctx, query, accounting.EntryNumberPrefix(date)+"%").Scan(&last)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.NewAppError(500, "failed to read latest entry number", err)
	}

	seq, err := accounting.NextSequence(last)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to derive next entry number", err)
	}
	return accounting.FormatEntryNumber(date, seq), nil
}

// InsertEntry inserts the journal entry header in its current (DRAFT) status.
// A unique violation of the idempotency constraint maps to apperrors.ErrDuplicate
// so the service can treat a lost race as already-posted.
func (r *PgxJournalEntryRepository) InsertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	columns := []string{
		"entry_id", "entry_number", "source", "source_id", "reference_no",
		"entry_date", "description", "total_debit", "total_credit",
		"period_id", "created_by", "created_at",
	}
	args := []interface{}{
		entry.EntryID, entry.EntryNumber, entry.Source, entry.SourceID, entry.ReferenceNo,
		entry.EntryDate, entry.Description, entry.TotalDebit, entry.TotalCredit,
		entry.PeriodID, entry.CreatedBy, entry.CreatedAt,
	}
	if r.caps.HasEntryStatus {
		columns = append(columns, "status")
		args = append(args, entry.Status)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	query := `INSERT INTO journal_entries (` + strings.Join(columns, ", ") + `) VALUES (` + strings.Join(placeholders, ", ") + `);`

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == idempotencyConstraint {
				return apperrors.NewAppError(409, "entry already posted for reference "+entry.ReferenceNo, apperrors.ErrDuplicate)
			}
			if pgErr.ConstraintName == entryNumberConstraint {
				return apperrors.NewConflictError("entry number " + entry.EntryNumber + " already taken")
			}
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+entry.EntryID, err)
	}
	return nil
}

// InsertLines batch-inserts all legs of an entry.
func (r *PgxJournalEntryRepository) InsertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_entry_lines (line_id, entry_id, account_id, debit_amount, credit_amount, description)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range lines {
		batch.Queue(query,
			line.LineID,
			line.EntryID,
			line.AccountID,
			line.DebitAmount,
			line.CreditAmount,
			line.Description,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entry lines", err)
	}
	return nil
}

// MarkPosted flips the entry to POSTED before commit. Best-effort across the
// optional status/posted_by/posted_at columns: absent columns are skipped, and
// a schema without a status column treats inserted entries as posted.
func (r *PgxJournalEntryRepository) MarkPosted(ctx context.Context, tx pgx.Tx, entryID string, actorID string, at time.Time) error {
	if !r.caps.HasEntryStatus {
		return nil
	}

	sets := []string{"status = 'POSTED'"}
	args := []interface{}{entryID}
	if r.caps.HasPostedBy {
		args = append(args, actorID)
		sets = append(sets, "posted_by = $"+strconv.Itoa(len(args)))
	}
	if r.caps.HasPostedAt {
		args = append(args, at)
		sets = append(sets, "posted_at = $"+strconv.Itoa(len(args)))
	}
	query := `UPDATE journal_entries SET ` + strings.Join(sets, ", ") + ` WHERE entry_id = $1;`

	cmdTag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark entry "+entryID+" posted", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + entryID + " not found for posting")
	}
	return nil
}

// FindEntryByID retrieves an entry header by id.
func (r *PgxJournalEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	columns := []string{
		"entry_id", "entry_number", "source", "source_id", "reference_no",
		"entry_date", "description", "total_debit", "total_credit",
		"period_id", "created_by", "created_at",
	}
	var entry domain.JournalEntry
	dests := []interface{}{
		&entry.EntryID, &entry.EntryNumber, &entry.Source, &entry.SourceID, &entry.ReferenceNo,
		&entry.EntryDate, &entry.Description, &entry.TotalDebit, &entry.TotalCredit,
		&entry.PeriodID, &entry.CreatedBy, &entry.CreatedAt,
	}
	if r.caps.HasEntryStatus {
		columns = append(columns, "status")
		dests = append(dests, &entry.Status)
	}
	if r.caps.HasPostedBy {
		columns = append(columns, "posted_by")
		dests = append(dests, &entry.PostedBy)
	}
	if r.caps.HasPostedAt {
		columns = append(columns, "posted_at")
		dests = append(dests, &entry.PostedAt)
	}

	query := `SELECT ` + strings.Join(columns, ", ") + ` FROM journal_entries WHERE entry_id = $1;`
	if err := r.Pool.QueryRow(ctx, query, entryID).Scan(dests...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry "+entryID, err)
	}
	if !r.caps.HasEntryStatus {
		// A schema without the column has no draft state to represent.
		entry.Status = domain.Posted
	}
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines of an entry.
func (r *PgxJournalEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, debit_amount, credit_amount, description
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		var l domain.JournalLine
		if err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.DebitAmount,
			&l.CreditAmount,
			&l.Description,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}
	return lines, nil
}
