// Package store implements the persistence boundary for transaction
// occurrences. Services talk to the TransactionStore interface; the GORM
// implementation translates between application records and storage rows and
// absorbs storage-schema drift (see the paid-column fallback on writes).
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "grana/internal/errors"
	"grana/internal/logger"
	"grana/internal/models"
	"grana/internal/pagination"
	"grana/internal/series"
)

// Filter holds optional filter parameters for listing transactions.
type Filter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Type      *models.TransactionType
	Category  *string
	MinAmount *float64
	MaxAmount *float64
}

// TransactionStore is the persistence collaborator for transaction
// occurrences. Every method returns typed AppError failures; callers can
// distinguish ordinary failures, schema mismatches, and missing rows by code.
type TransactionStore interface {
	// List returns all of a user's occurrences, newest date first.
	List(ctx context.Context, userID string) ([]models.Transaction, error)
	// ListPage returns one page of a user's occurrences plus the total count.
	ListPage(ctx context.Context, userID string, page pagination.PageRequest, f Filter) ([]models.Transaction, int64, error)
	// Get returns one occurrence by identifier.
	Get(ctx context.Context, userID, id string) (*models.Transaction, error)
	// InsertBatch persists the given occurrences and returns them with
	// identifiers assigned.
	InsertBatch(ctx context.Context, rows []models.Transaction) ([]models.Transaction, error)
	// Update applies a partial update to one occurrence and returns the
	// stored result.
	Update(ctx context.Context, userID, id string, fields series.Update) (*models.Transaction, error)
	// Delete removes one occurrence. Siblings of a series are never cascaded.
	Delete(ctx context.Context, userID, id string) error
}

type gormTransactionStore struct {
	db *gorm.DB
}

// NewTransactionStore creates a TransactionStore backed by GORM.
func NewTransactionStore(db *gorm.DB) TransactionStore {
	return &gormTransactionStore{db: db}
}

func (s *gormTransactionStore) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	var rows []models.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

func (s *gormTransactionStore) ListPage(ctx context.Context, userID string, page pagination.PageRequest, f Filter) ([]models.Transaction, int64, error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyFilter(base, f)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rows []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&rows).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, totalItems, nil
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

func (s *gormTransactionStore) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	var row models.Transaction
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &row, nil
}

func (s *gormTransactionStore) InsertBatch(ctx context.Context, rows []models.Transaction) ([]models.Transaction, error) {
	if len(rows) == 0 {
		return []models.Transaction{}, nil
	}

	inserted := make([]models.Transaction, len(rows))
	copy(inserted, rows)

	err := s.db.WithContext(ctx).Create(&inserted).Error
	if err != nil && isMissingColumn(err) {
		// Deployments migrated before the paid column existed: drop the
		// field and retry the batch once instead of failing it outright.
		logger.Get().Warnw("insert rejected by storage schema, retrying without paid column", "reason", err.Error())
		copy(inserted, rows)
		for i := range inserted {
			inserted[i].ID = ""
		}
		err = s.db.WithContext(ctx).Omit("Paid").Create(&inserted).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrSchemaMismatch, err)
		}
		return inserted, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return inserted, nil
}

func (s *gormTransactionStore) Update(ctx context.Context, userID, id string, fields series.Update) (*models.Transaction, error) {
	values := updateValues(fields)
	if len(values) == 0 {
		return s.Get(ctx, userID, id)
	}

	if err := s.applyUpdate(ctx, userID, id, values); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

func (s *gormTransactionStore) applyUpdate(ctx context.Context, userID, id string, values map[string]interface{}) error {
	res := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(values)

	if res.Error != nil && isMissingColumn(res.Error) {
		if _, ok := values["paid"]; ok {
			logger.Get().Warnw("update rejected by storage schema, retrying without paid column",
				"transaction_id", id, "reason", res.Error.Error())
			delete(values, "paid")
			if len(values) == 0 {
				return nil
			}
			res = s.db.WithContext(ctx).
				Model(&models.Transaction{}).
				Where("id = ? AND user_id = ?", id, userID).
				Updates(values)
			if res.Error != nil {
				return apperrors.Wrap(apperrors.ErrSchemaMismatch, res.Error)
			}
		} else {
			return apperrors.Wrap(apperrors.ErrSchemaMismatch, res.Error)
		}
	}
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

func updateValues(fields series.Update) map[string]interface{} {
	values := map[string]interface{}{}
	if fields.Type != nil {
		values["type"] = *fields.Type
	}
	if fields.Amount != nil {
		values["amount"] = *fields.Amount
	}
	if fields.Category != nil {
		values["category"] = *fields.Category
	}
	if fields.Description != nil {
		values["description"] = *fields.Description
	}
	if fields.Date != nil {
		values["date"] = *fields.Date
	}
	if fields.Paid != nil {
		values["paid"] = *fields.Paid
	}
	return values
}

func (s *gormTransactionStore) Delete(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// isMissingColumn matches the storage error strings produced when a write
// names a column the deployed schema does not have (Postgres, SQLite, MySQL
// spellings).
func isMissingColumn(err error) bool {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "column") {
		return false
	}
	return strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "has no column named") ||
		strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "unknown column") ||
		strings.Contains(msg, "could not find")
}
