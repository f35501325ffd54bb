package services

import (
	"context"
	"sync"
	"time"

	apperrors "grana/internal/errors"
	"grana/internal/ledger"
	"grana/internal/logger"
	"grana/internal/models"
	"grana/internal/pagination"
	"grana/internal/series"
	"grana/internal/store"
)

// editTimeout bounds the fan-out of sibling updates for one edit operation.
const editTimeout = 15 * time.Second

// transactionService orchestrates the series expander and resolver over the
// persistence store, and owns the per-user in-memory ledgers. The ledger is
// not a read cache; list and get requests always go to the store, which does
// the filtering and pagination. The ledger exists to own the settle contract
// for series mutations: it is refreshed from storage before an edit, held
// unchanged while sibling updates are in flight, and merged by ID only after
// all of them settle, so a partial fan-out failure never leaves it holding
// half-applied series state.
type transactionService struct {
	store store.TransactionStore

	mu      sync.Mutex
	ledgers map[string]*ledger.Ledger
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(txStore store.TransactionStore) TransactionServicer {
	return &transactionService{
		store:   txStore,
		ledgers: make(map[string]*ledger.Ledger),
	}
}

// CreateFromEntry expands one user entry into its occurrence series, persists
// the batch, and merges the inserted rows into the user's ledger.
func (s *transactionService) CreateFromEntry(ctx context.Context, userID string, entry series.Entry) ([]models.Transaction, error) {
	if entry.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if entry.Category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if entry.Type != models.TransactionTypeIncome && entry.Type != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}

	occurrences := series.Expand(userID, entry)

	inserted, err := s.store.InsertBatch(ctx, occurrences)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.ledgerLocked(userID).MergeByID(inserted...)
	s.mu.Unlock()

	return inserted, nil
}

// EditTransaction applies a partial update to one occurrence and, when
// applyToSeries is set, to every sibling of its series. Sibling updates are
// dispatched concurrently; results are merged back into the ledger by
// identifier only after all of them settle. Occurrences whose update failed
// keep their prior local state — partial failure is tolerated, and only a
// fully failed edit surfaces an error. An unknown transactionID is a silent
// no-op returning an empty slice.
func (s *transactionService) EditTransaction(ctx context.Context, userID, transactionID string, upd series.Update, applyToSeries bool) ([]models.Transaction, error) {
	current, err := s.refreshLedger(ctx, userID)
	if err != nil {
		return nil, err
	}

	payloads := series.Resolve(current, transactionID, upd, applyToSeries)
	if len(payloads) == 0 {
		return []models.Transaction{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, editTimeout)
	defer cancel()

	results := make([]*models.Transaction, len(payloads))
	failures := make([]error, len(payloads))
	var wg sync.WaitGroup
	for i, payload := range payloads {
		wg.Add(1)
		go func(i int, payload series.SiblingUpdate) {
			defer wg.Done()
			results[i], failures[i] = s.store.Update(ctx, userID, payload.ID, payload.Fields)
		}(i, payload)
	}
	wg.Wait()

	var updated []models.Transaction
	var firstErr error
	failed := 0
	for i := range payloads {
		if failures[i] != nil {
			failed++
			if firstErr == nil {
				firstErr = failures[i]
			}
			continue
		}
		updated = append(updated, *results[i])
	}

	if len(updated) == 0 {
		if len(payloads) == 1 {
			return nil, firstErr
		}
		return nil, apperrors.Wrap(apperrors.ErrSeriesUpdateFailed, firstErr)
	}

	if failed > 0 {
		logger.Get().Warnw("series edit partially failed",
			"transaction_id", transactionID,
			"updated", len(updated),
			"failed", failed,
			"reason", firstErr.Error(),
		)
	}

	s.mu.Lock()
	s.ledgerLocked(userID).MergeByID(updated...)
	s.mu.Unlock()

	return updated, nil
}

// GetUserTransactions retrieves a paginated, filtered list of occurrences.
func (s *transactionService) GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter store.Filter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	rows, totalItems, err := s.store.ListPage(ctx, userID, page, filter)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(rows, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves a single occurrence.
func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	return s.store.Get(ctx, userID, transactionID)
}

// DeleteTransaction removes one occurrence. Deleting one occurrence of a
// series never cascades to its siblings.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	if err := s.store.Delete(ctx, userID, transactionID); err != nil {
		return err
	}

	s.mu.Lock()
	s.ledgerLocked(userID).Remove(transactionID)
	s.mu.Unlock()

	return nil
}

// refreshLedger reloads the user's ledger from storage and returns a copy of
// its contents for resolution.
func (s *transactionService) refreshLedger(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledgerLocked(userID)
	l.Replace(rows)
	return l.All(), nil
}

// ledgerLocked returns the user's ledger, creating it on first use.
// Callers must hold s.mu.
func (s *transactionService) ledgerLocked(userID string) *ledger.Ledger {
	l, ok := s.ledgers[userID]
	if !ok {
		l = ledger.New()
		s.ledgers[userID] = l
	}
	return l
}
