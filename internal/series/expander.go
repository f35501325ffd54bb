package series

import (
	"time"

	"github.com/shopspring/decimal"

	"grana/internal/models"
	"grana/internal/uuid"
)

// recurringHorizonMonths is the fixed horizon for recurring entries: one
// occurrence per month for a year.
const recurringHorizonMonths = 12

// Entry is one user-submitted transaction entry before expansion.
type Entry struct {
	Type             models.TransactionType
	Amount           float64
	Category         string
	Description      string
	Date             time.Time
	Installments     int // total installment count, 1 for plain entries
	StartInstallment int // first installment index to generate, defaults to 1
	Recurring        bool
	Paid             bool
}

// Expand turns one entry into the ordered occurrences to persist, in strict
// precedence order: installment mode (expense with more than one
// installment), then recurring mode, then a plain single occurrence.
// Expansion is side-effect-free; identifiers are assigned at persistence
// time. All occurrences of a multi-occurrence series share one freshly
// generated group ID; single-mode output never gets one.
func Expand(userID string, e Entry) []models.Transaction {
	if e.Installments < 1 {
		e.Installments = 1
	}
	if e.StartInstallment < 1 {
		e.StartInstallment = 1
	}

	switch {
	case e.Type == models.TransactionTypeExpense && e.Installments > 1:
		return expandInstallments(userID, e)
	case e.Recurring:
		return expandRecurring(userID, e)
	default:
		return []models.Transaction{{
			UserID:      userID,
			Type:        e.Type,
			Amount:      e.Amount,
			Category:    e.Category,
			Description: e.Description,
			Date:        e.Date,
			Paid:        e.Paid,
		}}
	}
}

// expandInstallments divides the total across the installment count, rounding
// each share to 2 decimal places half-up. The sum of rounded shares may drift
// from the original total by up to one cent per installment; the drift is
// accepted, not corrected.
func expandInstallments(userID string, e Entry) []models.Transaction {
	share := decimal.NewFromFloat(e.Amount).
		Div(decimal.NewFromInt(int64(e.Installments))).
		Round(2).
		InexactFloat64()

	groupID := uuid.New()
	occurrences := make([]models.Transaction, 0, e.Installments-e.StartInstallment+1)
	for i := e.StartInstallment; i <= e.Installments; i++ {
		occurrences = append(occurrences, models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeExpense,
			Amount:      share,
			Category:    e.Category,
			Description: Suffix{Kind: SuffixFraction, Index: i, Total: e.Installments}.Attach(e.Description),
			Date:        AddMonths(e.Date, i-e.StartInstallment),
			GroupID:     &groupID,
			// Only the first generated installment honors the user's paid
			// state; future ones have not happened yet.
			Paid: i == e.StartInstallment && e.Paid,
		})
	}
	return occurrences
}

func expandRecurring(userID string, e Entry) []models.Transaction {
	groupID := uuid.New()
	occurrences := make([]models.Transaction, 0, recurringHorizonMonths)
	for i := 0; i < recurringHorizonMonths; i++ {
		occurrences = append(occurrences, models.Transaction{
			UserID:      userID,
			Type:        e.Type,
			Amount:      e.Amount,
			Category:    e.Category,
			Description: e.Description,
			Date:        AddMonths(e.Date, i),
			GroupID:     &groupID,
			Recurring:   true,
			Paid:        i == 0 && e.Paid,
		})
	}
	return occurrences
}
