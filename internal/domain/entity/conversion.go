package entity

import "time"

// ConversionMode is the direction of a markdown conversion.
type ConversionMode string

const (
	ModeToMarkdown ConversionMode = "to_markdown"
	ModeToText     ConversionMode = "to_text"
)

// ParseConversionMode maps "" to to_markdown and rejects unknown values
// with ErrInvalidMode.
func ParseConversionMode(s string) (ConversionMode, error) {
	switch ConversionMode(s) {
	case "", ModeToMarkdown:
		return ModeToMarkdown, nil
	case ModeToText:
		return ModeToText, nil
	}
	return "", ErrInvalidMode
}

// MarkdownConversion is a stored conversion result.
type MarkdownConversion struct {
	ID             int64
	OriginalText   string
	ConvertedText  string
	ConversionType ConversionMode
	CreatedAt      time.Time
	ExpiresAt      *time.Time
}

// Expired reports whether the record is past its expiry at now.
func (c *MarkdownConversion) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}
