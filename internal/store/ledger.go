package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chaintrail/chaintrail/internal/models"
)

// Postgres unique-violation error code.
const pgUniqueViolation = "23505"

// Constraint names from the audit_entries migration.
const (
	hashConstraint         = "audit_entries_hash_key"
	previousHashConstraint = "audit_entries_previous_hash_key"
)

const entryColumns = `id, ts, action, actor_id, actor_name, resource_type, resource_id,
	details, source_address, client_agent, sensitivity, compliance_tags,
	outcome, error_message, previous_hash, hash, signature`

// LedgerStore provides append-only data access for the audit_entries table.
type LedgerStore struct {
	Base
}

// NewLedgerStore creates a LedgerStore.
func NewLedgerStore(base Base) *LedgerStore {
	return &LedgerStore{Base: base}
}

// Append inserts a fully-constructed entry. It returns
// models.ErrDuplicateHash when the entry's hash already exists and
// models.ErrChainForked when another entry already claims the same
// predecessor; both mean the caller must rebuild from a fresh tail.
func (s *LedgerStore) Append(ctx context.Context, e *models.AuditEntry) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var detailsJSON []byte
	if e.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(e.Details)
		if err != nil {
			return fmt.Errorf("marshaling entry details: %w", err)
		}
	}

	tags := e.ComplianceTags
	if tags == nil {
		tags = []string{}
	}

	_, err := s.Pool.Exec(ctx, `
		INSERT INTO audit_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		e.ID, e.Timestamp, e.Action, e.ActorID, e.ActorName, e.ResourceType, e.ResourceID,
		detailsJSON, nullable(e.SourceAddress), nullable(e.ClientAgent), e.Sensitivity, tags,
		e.Outcome, nullable(e.ErrorMessage), e.PreviousHash, e.Hash, e.Signature,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			switch pgErr.ConstraintName {
			case previousHashConstraint:
				return models.ErrChainForked
			case hashConstraint:
				return models.ErrDuplicateHash
			}
		}
		return models.NewStorageError("append", err)
	}

	return nil
}

// Latest returns the chain tail: the most recently appended entry by
// timestamp. Returns (nil, nil) when the ledger is empty.
func (s *LedgerStore) Latest(ctx context.Context) (*models.AuditEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx,
		"SELECT "+entryColumns+" FROM audit_entries ORDER BY ts DESC LIMIT 1")

	e, err := scanEntryRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, models.NewStorageError("latest", err)
	}

	return e, nil
}

// GetByID returns one entry, or models.ErrEntryNotFound.
func (s *LedgerStore) GetByID(ctx context.Context, id uuid.UUID) (*models.AuditEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx,
		"SELECT "+entryColumns+" FROM audit_entries WHERE id = $1", id)

	e, err := scanEntryRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrEntryNotFound
		}
		return nil, models.NewStorageError("get", err)
	}

	return e, nil
}

// buildFilter builds a WHERE clause and args from SearchOpts.
func buildFilter(opts models.SearchOpts) (where string, args []any, nextArg int) {
	var conditions []string
	argIdx := 1

	add := func(cond string, val any) {
		conditions = append(conditions, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(argIdx)))
		args = append(args, val)
		argIdx++
	}

	if opts.ActorID != "" {
		add("actor_id = ?", opts.ActorID)
	}
	if opts.Action != "" {
		add("action = ?", opts.Action)
	}
	if opts.ResourceType != "" {
		add("resource_type = ?", opts.ResourceType)
	}
	if opts.ResourceID != "" {
		add("resource_id = ?", opts.ResourceID)
	}
	if opts.Sensitivity != "" {
		add("sensitivity = ?", opts.Sensitivity)
	}
	if opts.Tag != "" {
		add("? = ANY(compliance_tags)", opts.Tag)
	}
	if opts.Text != "" {
		pattern := "%" + escapeLike(opts.Text) + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(actor_name ILIKE $%d OR resource_id ILIKE $%d OR details::text ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, pattern)
		argIdx++
	}
	if opts.From != nil {
		add("ts >= ?", *opts.From)
	}
	if opts.To != nil {
		add("ts <= ?", *opts.To)
	}

	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	return where, args, argIdx
}

// escapeLike escapes LIKE metacharacters in user-supplied search text.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Search returns entries matching the given filters, ordered by
// timestamp (descending unless opts.Ascending).
func (s *LedgerStore) Search(ctx context.Context, opts models.SearchOpts) ([]models.AuditEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where, args, argIdx := buildFilter(opts)

	order := "DESC"
	if opts.Ascending {
		order = "ASC"
	}

	limit := opts.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	query := fmt.Sprintf(
		"SELECT "+entryColumns+" FROM audit_entries %s ORDER BY ts %s LIMIT $%d OFFSET $%d",
		where, order, argIdx, argIdx+1,
	)
	args = append(args, limit, opts.Offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, models.NewStorageError("search", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, models.NewStorageError("search", err)
	}

	return entries, nil
}

// Count returns the full number of entries matching the filter,
// independent of limit/offset.
func (s *LedgerStore) Count(ctx context.Context, opts models.SearchOpts) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where, args, _ := buildFilter(opts)

	var total int64
	err := s.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM audit_entries "+where, args...).Scan(&total)
	if err != nil {
		return 0, models.NewStorageError("count", err)
	}

	return total, nil
}

// ReadRange returns all entries in the given time window ordered by
// timestamp ascending, with no row limit. Verification is deliberately
// O(n) over the range: every link must be re-derived from content.
func (s *LedgerStore) ReadRange(ctx context.Context, from, to *time.Time) ([]models.AuditEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where, args, _ := buildFilter(models.SearchOpts{From: from, To: to})

	rows, err := s.Pool.Query(ctx,
		"SELECT "+entryColumns+" FROM audit_entries "+where+" ORDER BY ts ASC", args...)
	if err != nil {
		return nil, models.NewStorageError("read range", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, models.NewStorageError("read range", err)
	}

	return entries, nil
}

// Stats aggregates ledger-wide counters.
func (s *LedgerStore) Stats(ctx context.Context) (*models.LedgerStats, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	stats := &models.LedgerStats{ActionsByType: make(map[models.Action]int64)}

	err := s.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE NOT outcome),
		       MAX(ts)
		FROM audit_entries`).
		Scan(&stats.TotalEntries, &stats.FailedEntries, &stats.LastEntryAt)
	if err != nil {
		return nil, models.NewStorageError("stats", err)
	}

	rows, err := s.Pool.Query(ctx,
		"SELECT action, COUNT(*) FROM audit_entries GROUP BY action")
	if err != nil {
		return nil, models.NewStorageError("stats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var action models.Action
		var count int64
		if err := rows.Scan(&action, &count); err != nil {
			return nil, models.NewStorageError("stats", err)
		}
		stats.ActionsByType[action] = count
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewStorageError("stats", err)
	}

	return stats, nil
}

// Update always fails. Ledger entries are immutable once written; this
// method exists so the constraint is an explicit part of the store's
// contract rather than a missing feature.
func (s *LedgerStore) Update(_ context.Context, _ uuid.UUID, _ map[string]any) error {
	return models.ErrImmutableEntry
}

// Delete always fails, for the same reason as Update.
func (s *LedgerStore) Delete(_ context.Context, _ uuid.UUID) error {
	return models.ErrImmutableEntry
}

// nullable maps "" to SQL NULL for optional text columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
