// Package entity defines the persisted records of the service and the
// small value types shared by the processing engines.
package entity

import (
	"math"
	"time"
)

// MaxStoredTextRunes bounds every stored text column.
const MaxStoredTextRunes = 5000

// SummaryType selects the budget and positional decay of a summary.
type SummaryType string

const (
	SummaryConcise  SummaryType = "concise"
	SummaryDetailed SummaryType = "detailed"
)

// ParseSummaryType maps "" to concise and rejects unknown values with
// ErrInvalidSummaryType.
func ParseSummaryType(s string) (SummaryType, error) {
	switch SummaryType(s) {
	case "", SummaryConcise:
		return SummaryConcise, nil
	case SummaryDetailed:
		return SummaryDetailed, nil
	}
	return "", ErrInvalidSummaryType
}

// Summary is a stored summarization result.
type Summary struct {
	ID             int64
	OriginalText   string
	SummaryText    string
	OriginalLength int
	SummaryLength  int
	SummaryType    SummaryType
	CreatedAt      time.Time
	ExpiresAt      *time.Time
}

// ReductionPercentage is the share of words removed, rounded to one
// decimal. Records with no original words report 0.
func (s *Summary) ReductionPercentage() float64 {
	if s.OriginalLength <= 0 {
		return 0
	}
	p := (1 - float64(s.SummaryLength)/float64(s.OriginalLength)) * 100
	return math.Round(p*10) / 10
}

// Expired reports whether the record is past its expiry at now.
func (s *Summary) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}
