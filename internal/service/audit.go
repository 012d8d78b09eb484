// Package service provides business logic between API handlers and the
// ledger store: entry construction, chain linkage, verification, and
// reporting.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chaintrail/chaintrail/internal/chain"
	"github.com/chaintrail/chaintrail/internal/metrics"
	"github.com/chaintrail/chaintrail/internal/models"
	"github.com/chaintrail/chaintrail/internal/signing"
)

// maxAppendAttempts bounds tail-collision retries. Collisions need a
// concurrent writer outside this process (the mutex serializes local
// writers), so one retry almost always suffices.
const maxAppendAttempts = 3

// Ledger is the data-access interface AuditService depends on.
type Ledger interface {
	Append(ctx context.Context, e *models.AuditEntry) error
	Latest(ctx context.Context) (*models.AuditEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AuditEntry, error)
	Search(ctx context.Context, opts models.SearchOpts) ([]models.AuditEntry, error)
	Count(ctx context.Context, opts models.SearchOpts) (int64, error)
	ReadRange(ctx context.Context, from, to *time.Time) ([]models.AuditEntry, error)
	Stats(ctx context.Context) (*models.LedgerStats, error)
}

// Publisher receives each successfully appended entry, for live
// subscribers. Publish must not block.
type Publisher interface {
	Publish(e *models.AuditEntry)
}

// AuditService builds, links, signs, and records audit entries.
type AuditService struct {
	store  Ledger
	signer signing.Provider
	pub    Publisher
	log    *logrus.Logger

	// mu serializes tail reads against appends so local writers never
	// race each other for the chain tail. Cross-process races are caught
	// by the store's uniqueness guarantees instead.
	mu  sync.Mutex
	now func() time.Time
}

// NewAuditService creates an AuditService. pub may be nil when no live
// stream is wired.
func NewAuditService(store Ledger, signer signing.Provider, pub Publisher, log *logrus.Logger) *AuditService {
	return &AuditService{
		store:  store,
		signer: signer,
		pub:    pub,
		log:    log,
		now:    time.Now,
	}
}

// validate rejects requests that could not form a well-formed entry.
func validate(req models.CreateEntryRequest) error {
	switch {
	case req.Action == "":
		return models.ErrMissingAction
	case !req.Action.Valid():
		return models.ErrInvalidAction
	case req.ActorID == "":
		return models.ErrMissingActor
	case req.ResourceType == "":
		return models.ErrMissingResourceType
	case req.ResourceID == "":
		return models.ErrMissingResourceID
	case req.Sensitivity != "" && !req.Sensitivity.Valid():
		return models.ErrInvalidSensitivity
	}
	return nil
}

// CreateEntry validates the request, links a new entry onto the chain
// tail, signs it, and appends it. On a tail collision with a concurrent
// writer it re-reads the tail and rebuilds, up to maxAppendAttempts.
func (s *AuditService) CreateEntry(ctx context.Context, req models.CreateEntryRequest) (*models.AuditEntry, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	secret, err := s.signer.Key(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		if attempt > 0 {
			metrics.AppendRetries.Inc()
		}

		tail, err := s.store.Latest(ctx)
		if err != nil {
			return nil, err
		}

		previousHash := chain.GenesisHash
		if tail != nil {
			previousHash = tail.Hash
		}

		e, err := s.buildEntry(req, previousHash, secret)
		if err != nil {
			return nil, err
		}

		err = s.store.Append(ctx, e)
		if err == nil {
			s.log.WithFields(logrus.Fields{
				"entry_id": e.ID,
				"action":   e.Action,
				"actor_id": e.ActorID,
			}).Info("ledger.append")
			metrics.EntriesAppended.WithLabelValues(string(e.Action)).Inc()

			if s.pub != nil {
				s.pub.Publish(e)
			}
			return e, nil
		}

		if errors.Is(err, models.ErrChainForked) || errors.Is(err, models.ErrDuplicateHash) {
			lastErr = err
			continue
		}
		return nil, err
	}

	return nil, lastErr
}

// buildEntry constructs a fully-populated entry linked to previousHash.
func (s *AuditService) buildEntry(req models.CreateEntryRequest, previousHash string, secret []byte) (*models.AuditEntry, error) {
	sensitivity := req.Sensitivity
	if sensitivity == "" {
		sensitivity = models.SensitivityInternal
	}

	outcome := true
	if req.Outcome != nil {
		outcome = *req.Outcome
	}

	e := &models.AuditEntry{
		ID: uuid.New(),
		// Truncated to what timestamptz can hold, so the entry returned
		// here is identical to the row a later read or verify sees.
		Timestamp:      s.now().UTC().Truncate(time.Microsecond),
		Action:         req.Action,
		ActorID:        req.ActorID,
		ActorName:      req.ActorName,
		ResourceType:   req.ResourceType,
		ResourceID:     req.ResourceID,
		Details:        req.Details,
		SourceAddress:  req.SourceAddress,
		ClientAgent:    req.ClientAgent,
		Sensitivity:    sensitivity,
		ComplianceTags: req.ComplianceTags,
		Outcome:        outcome,
		ErrorMessage:   req.ErrorMessage,
		PreviousHash:   previousHash,
	}

	hash, err := chain.ComputeHash(e)
	if err != nil {
		return nil, err
	}
	e.Hash = hash

	sig, err := chain.Sign(e, secret)
	if err != nil {
		return nil, err
	}
	e.Signature = sig

	return e, nil
}

// GetEntry returns one entry by ID.
func (s *AuditService) GetEntry(ctx context.Context, id uuid.UUID) (*models.AuditEntry, error) {
	return s.store.GetByID(ctx, id)
}

// GetTrailForActor returns an actor's entries, newest first, optionally
// restricted to a time window.
func (s *AuditService) GetTrailForActor(ctx context.Context, actorID string, from, to *time.Time, limit, offset int) (*models.SearchResult, error) {
	return s.search(ctx, models.SearchOpts{ActorID: actorID, From: from, To: to, Limit: limit, Offset: offset})
}

// GetTrailForResource returns a resource's entries, newest first.
func (s *AuditService) GetTrailForResource(ctx context.Context, resourceType, resourceID string, limit, offset int) (*models.SearchResult, error) {
	return s.search(ctx, models.SearchOpts{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Limit:        limit,
		Offset:       offset,
	})
}

// Search returns entries matching the given filters with pagination.
func (s *AuditService) Search(ctx context.Context, opts models.SearchOpts) (*models.SearchResult, error) {
	return s.search(ctx, opts)
}

func (s *AuditService) search(ctx context.Context, opts models.SearchOpts) (*models.SearchResult, error) {
	entries, err := s.store.Search(ctx, opts)
	if err != nil {
		return nil, err
	}

	total, err := s.store.Count(ctx, opts)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = len(entries)
	}

	page, pages := 1, 1
	if limit > 0 {
		page = opts.Offset/limit + 1
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}

	return &models.SearchResult{
		Entries: entries,
		Total:   total,
		Page:    page,
		Pages:   pages,
	}, nil
}

// Stats returns ledger-wide counters.
func (s *AuditService) Stats(ctx context.Context) (*models.LedgerStats, error) {
	return s.store.Stats(ctx)
}
