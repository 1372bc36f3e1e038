// Package summary provides the HTTP handlers for summarizing text and
// reading stored summaries.
package summary

import (
	"time"

	"textforge/internal/domain/entity"
	summaryUC "textforge/internal/usecase/summary"
)

// SummarizeResponse is the body of POST /api/summarize.
type SummarizeResponse struct {
	ID             int64    `json:"id,omitempty"`
	Summary        string   `json:"summary"`
	OriginalLength int      `json:"original_length"`
	SummaryLength  int      `json:"summary_length"`
	Error          string   `json:"error,omitempty"`
	Warning        string   `json:"warning,omitempty"`
	Degraded       []string `json:"degraded,omitempty"`
}

func toResponse(o *summaryUC.Output) SummarizeResponse {
	return SummarizeResponse{
		ID:             o.ID,
		Summary:        o.Summary,
		OriginalLength: o.OriginalLength,
		SummaryLength:  o.SummaryLength,
		Error:          o.Error,
		Warning:        o.Warning,
		Degraded:       o.Degraded,
	}
}

// DTO is a stored summary.
type DTO struct {
	ID                  int64      `json:"id"`
	OriginalText        string     `json:"original_text"`
	SummaryText         string     `json:"summary_text"`
	OriginalLength      int        `json:"original_length"`
	SummaryLength       int        `json:"summary_length"`
	SummaryType         string     `json:"summary_type"`
	ReductionPercentage float64    `json:"reduction_percentage"`
	CreatedAt           time.Time  `json:"created_at"`
	ExpiresAt           *time.Time `json:"expires_at"`
}

func toDTO(s *entity.Summary) DTO {
	return DTO{
		ID:                  s.ID,
		OriginalText:        s.OriginalText,
		SummaryText:         s.SummaryText,
		OriginalLength:      s.OriginalLength,
		SummaryLength:       s.SummaryLength,
		SummaryType:         string(s.SummaryType),
		ReductionPercentage: s.ReductionPercentage(),
		CreatedAt:           s.CreatedAt,
		ExpiresAt:           s.ExpiresAt,
	}
}
