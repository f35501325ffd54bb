package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "grana/internal/errors"
	"grana/internal/models"
	"grana/internal/pagination"
	"grana/internal/series"
	"grana/internal/services"
	"grana/internal/store"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for creating a
// transaction entry. An expense with installments > 1 expands into one
// occurrence per installment; a recurring entry expands into one occurrence
// per month for a year.
type CreateTransactionRequest struct {
	Type             models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount           float64                `json:"amount" binding:"required,gt=0"`
	Category         string                 `json:"category" binding:"required,min=1,max=100"`
	Description      string                 `json:"description" binding:"max=500"`
	Date             *string                `json:"date"`
	Installments     int                    `json:"installments" binding:"omitempty,min=1,max=120"`
	StartInstallment int                    `json:"start_installment" binding:"omitempty,min=1"`
	Recurring        bool                   `json:"recurring"`
	Paid             *bool                  `json:"paid"`
}

// UpdateTransactionRequest represents a partial update of one occurrence.
// When apply_to_series is set, type, amount, category, and description are
// propagated to every occurrence of the target's series; date and paid always
// apply only to the target.
type UpdateTransactionRequest struct {
	Type          *models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
	Amount        *float64                `json:"amount" binding:"omitempty,gt=0"`
	Category      *string                 `json:"category" binding:"omitempty,min=1,max=100"`
	Description   *string                 `json:"description" binding:"omitempty,max=500"`
	Date          *string                 `json:"date"`
	Paid          *bool                   `json:"paid"`
	ApplyToSeries bool                    `json:"apply_to_series"`
}

// CreateTransaction handles the creation of a new transaction entry
// @Summary     Create a transaction
// @Description Create a transaction entry, expanding installments or recurring entries into their occurrence series
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction entry"
// @Success     201 {object} map[string][]models.Transaction "Created occurrences"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entryDate := time.Now()
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		entryDate = parsed
	}

	paid := true
	if req.Paid != nil {
		paid = *req.Paid
	}

	created, err := h.transactionService.CreateFromEntry(c.Request.Context(), userID, series.Entry{
		Type:             req.Type,
		Amount:           req.Amount,
		Category:         req.Category,
		Description:      req.Description,
		Date:             entryDate,
		Installments:     req.Installments,
		StartInstallment: req.StartInstallment,
		Recurring:        req.Recurring,
		Paid:             paid,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	resourceID := ""
	if len(created) > 0 {
		// Series creates are audited by group; a single entry has no group,
		// so its own occurrence ID is the reference.
		resourceID = created[0].ID
		if created[0].GroupID != nil {
			resourceID = *created[0].GroupID
		}
	}
	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", resourceID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "amount": req.Amount, "occurrences": len(created)})

	c.JSON(http.StatusCreated, gin.H{"transactions": created})
}

// GetTransactions handles listing transactions for the authenticated user
// @Summary     Get transactions
// @Description Get a paginated, filtered list of transaction occurrences, newest first
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from_date  query string  false "Occurrences on or after this date (RFC 3339 or YYYY-MM-DD)"
// @Param       to_date    query string  false "Occurrences on or before this date (RFC 3339 or YYYY-MM-DD)"
// @Param       type       query string  false "Filter by type (income/expense)"
// @Param       category   query string  false "Filter by category"
// @Param       min_amount query number  false "Minimum amount"
// @Param       max_amount query number  false "Maximum amount"
// @Param       page       query int     false "Page number (default 1)"
// @Param       page_size  query int     false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated occurrences"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(c.Request.Context(), userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (store.Filter, error) {
	var filter store.Filter

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from_date")
		}
		filter.FromDate = &t
	}
	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to_date")
		}
		filter.ToDate = &t
	}
	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(v)
		if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be 'income' or 'expense'")
		}
		filter.Type = &txType
	}
	if v := c.Query("category"); v != "" {
		category := v
		filter.Category = &category
	}
	if v := c.Query("min_amount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid min_amount")
		}
		filter.MinAmount = &amount
	}
	if v := c.Query("max_amount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid max_amount")
		}
		filter.MaxAmount = &amount
	}

	return filter, nil
}

// GetTransaction handles retrieving a specific occurrence
// @Summary     Get transaction by ID
// @Description Get a specific transaction occurrence by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles updating an occurrence, optionally propagating
// shared fields across its series
// @Summary     Update transaction
// @Description Update a transaction occurrence; with apply_to_series, propagate shared fields across its series
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Updated fields"
// @Success     200 {object} map[string][]models.Transaction "Updated occurrences"
// @Failure     400 {object} ErrorResponse "Invalid input or transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	upd := series.Update{
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Paid:        req.Paid,
	}
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		upd.Date = &parsed
	}

	updated, err := h.transactionService.EditTransaction(c.Request.Context(), userID, transactionID, upd, req.ApplyToSeries)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRANSACTION", "transaction", transactionID, c.ClientIP(),
		map[string]interface{}{"apply_to_series": req.ApplyToSeries, "updated": len(updated)})

	c.JSON(http.StatusOK, gin.H{"transactions": updated})
}

// DeleteTransaction handles deleting a single occurrence
// @Summary     Delete transaction
// @Description Delete one transaction occurrence; series siblings are never cascaded
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
