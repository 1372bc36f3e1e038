package summary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textforge/internal/domain/entity"
	summaryUC "textforge/internal/usecase/summary"
)

/* ───── stub ───── */

type stubService struct {
	gotInput    summaryUC.Input
	called      bool
	out         *summaryUC.Output
	summarizeEr error
	record      *entity.Summary
	getErr      error
}

func (s *stubService) Summarize(_ context.Context, in summaryUC.Input) (*summaryUC.Output, error) {
	s.called = true
	s.gotInput = in
	if s.summarizeEr != nil {
		return nil, s.summarizeEr
	}
	return s.out, nil
}

func (s *stubService) Get(_ context.Context, id int64) (*entity.Summary, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.record == nil || s.record.ID != id {
		return nil, entity.ErrNotFound
	}
	return s.record, nil
}

func serve(svc Service, method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	Register(mux, svc)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

/* ───── POST /api/summarize ───── */

func TestSummarize_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"text":`, "Invalid JSON data provided"},
		{"empty object", `{}`, "Invalid JSON data provided"},
		{"missing text", `{"type":"concise"}`, "No text provided"},
		{"blank text", `{"text":"   "}`, "Empty text provided"},
		{"zero max_length", `{"text":"a b c","max_length":0}`, "max_length must be a positive integer"},
		{"negative max_length string", `{"text":"a b c","max_length":"-1"}`, "max_length must be a positive integer"},
		{"non numeric max_length", `{"text":"a b c","max_length":"ten"}`, "max_length must be a valid integer"},
		{"unknown type", `{"text":"a b c","type":"brief"}`, "summary_type must be 'concise' or 'detailed'"},
		{"max_length checked before type", `{"text":"a","max_length":-1,"type":"brief"}`, "max_length must be a positive integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			rec := serve(svc, http.MethodPost, "/api/summarize", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, errorOf(t, rec))
			assert.False(t, svc.called)
		})
	}
}

func TestSummarize_OK(t *testing.T) {
	svc := &stubService{out: &summaryUC.Output{
		ID: 12, Summary: "Go is fun.", OriginalLength: 40, SummaryLength: 3,
	}}

	rec := serve(svc, http.MethodPost, "/api/summarize", `{"text":"Go is fun. Really.","max_length":"25","type":"detailed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, summaryUC.Input{Text: "Go is fun. Really.", MaxLength: 25, Type: "detailed"}, svc.gotInput)
	assert.JSONEq(t, `{"id":12,"summary":"Go is fun.","original_length":40,"summary_length":3}`, rec.Body.String())
}

func TestSummarize_NotSavedWarning(t *testing.T) {
	svc := &stubService{out: &summaryUC.Output{
		Summary: "Go is fun.", OriginalLength: 4, SummaryLength: 3, Warning: summaryUC.WarningNotSaved,
	}}

	rec := serve(svc, http.MethodPost, "/api/summarize", `{"text":"Go is fun."}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got SummarizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Zero(t, got.ID)
	assert.Equal(t, summaryUC.WarningNotSaved, got.Warning)
	assert.Equal(t, "concise", svc.gotInput.Type)
}

func TestSummarize_ServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", &entity.ValidationError{Field: "max_length", Message: "must be a positive integer"},
			http.StatusBadRequest, "max_length must be a positive integer"},
		{"empty", entity.ErrEmptyInput, http.StatusBadRequest, "Empty text provided"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{summarizeEr: tt.err}
			rec := serve(svc, http.MethodPost, "/api/summarize", `{"text":"x","max_length":5000}`)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, errorOf(t, rec))
		})
	}
}

func TestSummarize_MethodNotAllowed(t *testing.T) {
	rec := serve(&stubService{}, http.MethodGet, "/api/summarize", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

/* ───── GET /api/summaries/{id} ───── */

func TestGet(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	expires := created.Add(time.Hour)
	svc := &stubService{record: &entity.Summary{
		ID: 3, OriginalText: "long text", SummaryText: "short", OriginalLength: 10, SummaryLength: 4,
		SummaryType: entity.SummaryConcise, CreatedAt: created, ExpiresAt: &expires,
	}}

	rec := serve(svc, http.MethodGet, "/api/summaries/3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got DTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	want := DTO{
		ID: 3, OriginalText: "long text", SummaryText: "short", OriginalLength: 10, SummaryLength: 4,
		SummaryType: "concise", ReductionPercentage: 60, CreatedAt: created, ExpiresAt: &expires,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DTO mismatch (-want +got):\n%s", diff)
	}
}

func TestGet_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		getErr   error
		wantCode int
	}{
		{"invalid id", "/api/summaries/abc", nil, http.StatusBadRequest},
		{"zero id", "/api/summaries/0", nil, http.StatusBadRequest},
		{"not found", "/api/summaries/99", nil, http.StatusNotFound},
		{"store error", "/api/summaries/1", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{getErr: tt.getErr}, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
