// Package ledger holds the in-memory, date-descending view of one user's
// transaction occurrences. It is not a read cache; it owns the merge and
// ordering contract for series mutations, so settled sibling updates land
// through MergeByID as one insert-or-replace plus re-sort. All mutation
// funnels through Replace, MergeByID, and Remove, and the owner serializes
// access.
package ledger

import (
	"sort"

	"grana/internal/models"
)

// Ledger is an ordered collection of transaction occurrences, newest date
// first. The zero value is ready to use.
type Ledger struct {
	items []models.Transaction
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Replace swaps the entire collection for the given occurrences and re-sorts.
func (l *Ledger) Replace(items []models.Transaction) {
	l.items = make([]models.Transaction, len(items))
	copy(l.items, items)
	l.sortByDateDesc()
}

// MergeByID applies insert-or-replace semantics per occurrence identifier and
// re-sorts the collection by date descending. Occurrences not mentioned keep
// their current values.
func (l *Ledger) MergeByID(items ...models.Transaction) {
	for _, item := range items {
		replaced := false
		for i := range l.items {
			if l.items[i].ID == item.ID {
				l.items[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			l.items = append(l.items, item)
		}
	}
	l.sortByDateDesc()
}

// Remove drops the occurrence with the given identifier, if present.
func (l *Ledger) Remove(id string) {
	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// Find returns the occurrence with the given identifier.
func (l *Ledger) Find(id string) (models.Transaction, bool) {
	for _, item := range l.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.Transaction{}, false
}

// All returns a copy of the collection; callers may not mutate ledger state
// through it.
func (l *Ledger) All() []models.Transaction {
	out := make([]models.Transaction, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of occurrences held.
func (l *Ledger) Len() int {
	return len(l.items)
}

func (l *Ledger) sortByDateDesc() {
	sort.SliceStable(l.items, func(i, j int) bool {
		return l.items[i].Date.After(l.items[j].Date)
	})
}
