package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chaintrail/chaintrail/internal/models"
)

// memLedger is an in-memory Ledger that mirrors the store's uniqueness
// guarantees, so collision and retry paths are testable without a
// database. Tests corrupt entries directly through the entries slice.
type memLedger struct {
	mu      sync.Mutex
	entries []models.AuditEntry

	// appendErrs is a queue of errors returned by Append before the
	// default behavior resumes. Used to simulate transient failures.
	appendErrs []error

	// overrides; nil means the in-memory default.
	latest    func(ctx context.Context) (*models.AuditEntry, error)
	readRange func(ctx context.Context, from, to *time.Time) ([]models.AuditEntry, error)
}

func (m *memLedger) Append(_ context.Context, e *models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.appendErrs) > 0 {
		err := m.appendErrs[0]
		m.appendErrs = m.appendErrs[1:]
		return err
	}

	for _, existing := range m.entries {
		if existing.Hash == e.Hash {
			return models.ErrDuplicateHash
		}
		if existing.PreviousHash == e.PreviousHash {
			return models.ErrChainForked
		}
	}

	m.entries = append(m.entries, *e)
	return nil
}

func (m *memLedger) Latest(ctx context.Context) (*models.AuditEntry, error) {
	if m.latest != nil {
		return m.latest(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) == 0 {
		return nil, nil
	}
	tail := m.entries[len(m.entries)-1]
	return &tail, nil
}

func (m *memLedger) GetByID(_ context.Context, id uuid.UUID) (*models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, models.ErrEntryNotFound
}

func (m *memLedger) Search(_ context.Context, opts models.SearchOpts) ([]models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.AuditEntry
	for _, e := range m.entries {
		if opts.ActorID != "" && e.ActorID != opts.ActorID {
			continue
		}
		if opts.Action != "" && e.Action != opts.Action {
			continue
		}
		if opts.ResourceType != "" && e.ResourceType != opts.ResourceType {
			continue
		}
		if opts.ResourceID != "" && e.ResourceID != opts.ResourceID {
			continue
		}
		matched = append(matched, e)
	}

	if !opts.Ascending {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	return matched, nil
}

func (m *memLedger) Count(ctx context.Context, opts models.SearchOpts) (int64, error) {
	all, err := m.Search(ctx, models.SearchOpts{
		ActorID:      opts.ActorID,
		Action:       opts.Action,
		ResourceType: opts.ResourceType,
		ResourceID:   opts.ResourceID,
	})
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func (m *memLedger) ReadRange(ctx context.Context, from, to *time.Time) ([]models.AuditEntry, error) {
	if m.readRange != nil {
		return m.readRange(ctx, from, to)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.AuditEntry
	for _, e := range m.entries {
		if from != nil && e.Timestamp.Before(*from) {
			continue
		}
		if to != nil && e.Timestamp.After(*to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memLedger) Stats(_ context.Context) (*models.LedgerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &models.LedgerStats{
		TotalEntries:  int64(len(m.entries)),
		ActionsByType: make(map[models.Action]int64),
	}
	for _, e := range m.entries {
		stats.ActionsByType[e.Action]++
		if !e.Outcome {
			stats.FailedEntries++
		}
	}
	if len(m.entries) > 0 {
		ts := m.entries[len(m.entries)-1].Timestamp
		stats.LastEntryAt = &ts
	}
	return stats, nil
}

// mockPublisher records published entries.
type mockPublisher struct {
	mu        sync.Mutex
	published []*models.AuditEntry
}

func (p *mockPublisher) Publish(e *models.AuditEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, e)
}
