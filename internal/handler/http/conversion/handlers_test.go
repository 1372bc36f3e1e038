package conversion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textforge/internal/domain/entity"
	conversionUC "textforge/internal/usecase/conversion"
)

/* ───── stub ───── */

type stubService struct {
	called   bool
	gotInput conversionUC.Input
	out      *conversionUC.Output
	err      error
	record   *entity.MarkdownConversion
}

func (s *stubService) Convert(_ context.Context, in conversionUC.Input) (*conversionUC.Output, error) {
	s.called = true
	s.gotInput = in
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func (s *stubService) Get(_ context.Context, id int64) (*entity.MarkdownConversion, error) {
	if s.record == nil || s.record.ID != id {
		return nil, entity.ErrNotFound
	}
	return s.record, nil
}

func serve(svc Service, method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	Register(mux, svc)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

/* ───── POST /api/markdown ───── */

func TestConvert_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `not json`, "Invalid JSON data provided"},
		{"missing text", `{"mode":"to_text"}`, "No text provided"},
		{"blank text", `{"text":"\n"}`, "Empty text provided"},
		{"blank text wins over bad mode", `{"text":" ","mode":"to_html"}`, "Empty text provided"},
		{"bad mode", `{"text":"hello","mode":"to_html"}`, "Invalid conversion mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			rec := serve(svc, http.MethodPost, "/api/markdown", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.want), rec.Body.String())
			assert.False(t, svc.called)
		})
	}
}

func TestConvert_OK(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		out      *conversionUC.Output
		wantMode string
		wantBody string
	}{
		{"default mode", `{"text":"Title\n\nBody"}`, &conversionUC.Output{ID: 4, Result: "# Title\n\nBody"},
			"to_markdown", `{"id":4,"result":"# Title\n\nBody"}`},
		{"to_text not saved", `{"text":"**bold**","mode":"to_text"}`,
			&conversionUC.Output{Result: "bold", Warning: conversionUC.WarningNotSaved},
			"to_text", `{"result":"bold","warning":"conversion completed but not saved to database"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{out: tt.out}
			rec := serve(svc, http.MethodPost, "/api/markdown", tt.body)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantMode, svc.gotInput.Mode)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestConvert_ProcessingFailure(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("convert: %w", errors.New("panic: runtime error: index out of range [3] with length 2"))}
	rec := serve(svc, http.MethodPost, "/api/markdown", `{"text":"x"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Error converting text"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "index out of range")
}

/* ───── GET /api/conversions/{id} ───── */

func TestGet(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := &stubService{record: &entity.MarkdownConversion{
		ID: 8, OriginalText: "a", ConvertedText: "# a", ConversionType: entity.ModeToMarkdown, CreatedAt: created,
	}}

	rec := serve(svc, http.MethodGet, "/api/conversions/8", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got DTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "to_markdown", got.ConversionType)
	assert.Equal(t, "# a", got.ConvertedText)
	assert.Nil(t, got.ExpiresAt)

	assert.Equal(t, http.StatusNotFound, serve(svc, http.MethodGet, "/api/conversions/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, http.MethodGet, "/api/conversions/x", "").Code)
}
