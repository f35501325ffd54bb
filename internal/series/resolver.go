package series

import (
	"strings"
	"time"

	"grana/internal/models"
)

// Update is a partial update of one occurrence. Nil fields leave the stored
// value unchanged. Description is the base description, without any
// series-position suffix; the resolver reattaches each sibling's own suffix.
type Update struct {
	Type        *models.TransactionType
	Amount      *float64
	Category    *string
	Description *string
	Date        *time.Time
	Paid        *bool
}

// SiblingUpdate addresses one occurrence with its resolved field set.
type SiblingUpdate struct {
	ID     string
	Fields Update
}

// Resolve computes the per-occurrence update payloads for an edit. With
// propagate false the edit addresses only the target. With propagate true it
// fans out across the target's series: every occurrence sharing the target's
// group ID, or, for legacy rows without one, every occurrence matched by
// MatchesLegacySeries. Shared fields (type, amount, category, base
// description) apply to every sibling; each sibling keeps its own date and
// paid state, and gets its own suffix reattached to the new base description.
// Only the target adopts the caller's date and paid values.
//
// A target ID not present in all is a silent no-op: Resolve returns nil.
func Resolve(all []models.Transaction, targetID string, upd Update, propagate bool) []SiblingUpdate {
	target, found := findByID(all, targetID)
	if !found {
		return nil
	}

	if !propagate {
		return []SiblingUpdate{{ID: targetID, Fields: upd}}
	}

	var updates []SiblingUpdate
	for _, occ := range all {
		if !sameSeries(target, occ) {
			continue
		}

		fields := upd
		if upd.Description != nil {
			_, sfx := SplitSuffix(occ.Description)
			full := sfx.Attach(*upd.Description)
			fields.Description = &full
		}
		if occ.ID != target.ID {
			// Sibling dates and paid flags are never touched by a
			// series-wide edit.
			fields.Date = nil
			fields.Paid = nil
		}
		updates = append(updates, SiblingUpdate{ID: occ.ID, Fields: fields})
	}
	return updates
}

// MatchesLegacySeries reports whether candidate belongs to the same logical
// series as a target occurrence that has no group ID. It is a best-effort
// heuristic for rows created before group IDs existed: same flow type, same
// category, and the candidate's description contains the target's base
// description (suffix stripped) as a substring. It can both over-match
// (short, generic base descriptions) and under-match (renamed descriptions);
// callers must not treat its result as authoritative.
func MatchesLegacySeries(target, candidate models.Transaction) bool {
	if candidate.Type != target.Type || candidate.Category != target.Category {
		return false
	}
	base, _ := SplitSuffix(target.Description)
	return strings.Contains(candidate.Description, base)
}

func sameSeries(target, candidate models.Transaction) bool {
	if target.GroupID != nil {
		return candidate.GroupID != nil && *candidate.GroupID == *target.GroupID
	}
	return candidate.GroupID == nil && MatchesLegacySeries(target, candidate)
}

func findByID(all []models.Transaction, id string) (models.Transaction, bool) {
	for _, occ := range all {
		if occ.ID == id {
			return occ, true
		}
	}
	return models.Transaction{}, false
}
