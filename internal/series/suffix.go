// Package series contains the transaction-series logic: expanding one user
// entry into installment or recurring occurrences, and resolving which
// occurrences belong to the same series when an edit is propagated.
package series

import (
	"fmt"
	"regexp"
	"strconv"
)

// SuffixKind identifies which series-position notation a description carries.
type SuffixKind int

const (
	// SuffixNone means the description carries no series-position suffix.
	SuffixNone SuffixKind = iota
	// SuffixFraction is the paired notation " (i/total)".
	SuffixFraction
	// SuffixParcela is the legacy singular notation " (Parcela i)".
	SuffixParcela
)

// Suffix is a parsed series-position suffix. At most one of the two notations
// is present on any description; parsing checks the fraction form first.
type Suffix struct {
	Kind  SuffixKind
	Index int
	Total int // fraction notation only
}

var (
	fractionRe = regexp.MustCompile(`^(.*) \((\d+)/(\d+)\)$`)
	parcelaRe  = regexp.MustCompile(`^(.*) \(Parcela (\d+)\)$`)
)

// SplitSuffix splits a description into its base text and series-position
// suffix. Descriptions without a recognized suffix come back unchanged with
// SuffixNone.
func SplitSuffix(description string) (string, Suffix) {
	if m := fractionRe.FindStringSubmatch(description); m != nil {
		index, errIndex := strconv.Atoi(m[2])
		total, errTotal := strconv.Atoi(m[3])
		// Digit runs too long for an int are not a series position.
		if errIndex == nil && errTotal == nil {
			return m[1], Suffix{Kind: SuffixFraction, Index: index, Total: total}
		}
	}
	if m := parcelaRe.FindStringSubmatch(description); m != nil {
		if index, err := strconv.Atoi(m[2]); err == nil {
			return m[1], Suffix{Kind: SuffixParcela, Index: index}
		}
	}
	return description, Suffix{Kind: SuffixNone}
}

// Attach rebuilds a full description from a base description and this suffix.
// Splitting and reattaching an unchanged base reproduces the original string.
func (s Suffix) Attach(base string) string {
	switch s.Kind {
	case SuffixFraction:
		return fmt.Sprintf("%s (%d/%d)", base, s.Index, s.Total)
	case SuffixParcela:
		return fmt.Sprintf("%s (Parcela %d)", base, s.Index)
	default:
		return base
	}
}
