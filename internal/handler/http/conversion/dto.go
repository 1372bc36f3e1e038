// Package conversion provides the HTTP handlers for markdown conversion.
package conversion

import (
	"time"

	"textforge/internal/domain/entity"
)

// ConvertResponse is the body of POST /api/markdown.
type ConvertResponse struct {
	ID      int64  `json:"id,omitempty"`
	Result  string `json:"result"`
	Warning string `json:"warning,omitempty"`
}

// DTO is a stored conversion.
type DTO struct {
	ID             int64      `json:"id"`
	OriginalText   string     `json:"original_text"`
	ConvertedText  string     `json:"converted_text"`
	ConversionType string     `json:"conversion_type"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

func toDTO(c *entity.MarkdownConversion) DTO {
	return DTO{
		ID:             c.ID,
		OriginalText:   c.OriginalText,
		ConvertedText:  c.ConvertedText,
		ConversionType: string(c.ConversionType),
		CreatedAt:      c.CreatedAt,
		ExpiresAt:      c.ExpiresAt,
	}
}
