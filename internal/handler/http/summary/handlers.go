package summary

import (
	"context"
	"errors"
	"net/http"

	"textforge/internal/domain/entity"
	"textforge/internal/handler/http/pathutil"
	"textforge/internal/handler/http/payload"
	"textforge/internal/handler/http/respond"
	summaryUC "textforge/internal/usecase/summary"
)

// Service is the summary use case.
type Service interface {
	Summarize(ctx context.Context, in summaryUC.Input) (*summaryUC.Output, error)
	Get(ctx context.Context, id int64) (*entity.Summary, error)
}

const msgPositiveMaxLength = "max_length must be a positive integer"

// Register mounts the summary routes on mux.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("POST /api/summarize", SummarizeHandler{svc})
	mux.Handle("GET /api/summaries/{id}", GetHandler{svc})
}

type SummarizeHandler struct{ Svc Service }

// ServeHTTP checks the body in the order text, max_length, type and
// answers 200 even when the summary could not be stored.
func (h SummarizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	in, err := parseSummarize(r)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := h.Svc.Summarize(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(out))
}

func parseSummarize(r *http.Request) (summaryUC.Input, error) {
	f, err := payload.Decode(r)
	if err != nil {
		return summaryUC.Input{}, err
	}
	text, err := f.Text()
	if err != nil {
		return summaryUC.Input{}, err
	}
	maxLength, present, err := f.Int("max_length")
	if err != nil {
		return summaryUC.Input{}, err
	}
	if present && maxLength <= 0 {
		return summaryUC.Input{}, &payload.Error{Status: http.StatusBadRequest, Message: msgPositiveMaxLength}
	}
	typ := f.String("type", string(entity.SummaryConcise))
	if _, err := entity.ParseSummaryType(typ); err != nil {
		return summaryUC.Input{}, err
	}
	return summaryUC.Input{Text: text, MaxLength: maxLength, Type: typ}, nil
}

func writeError(w http.ResponseWriter, err error) {
	var pe *payload.Error
	var ve *entity.ValidationError
	switch {
	case errors.As(err, &pe):
		respond.JSON(w, pe.Status, respond.ErrorBody{Error: pe.Message})
	case errors.Is(err, entity.ErrEmptyInput):
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: payload.MsgEmptyText})
	case errors.Is(err, entity.ErrInvalidSummaryType):
		respond.Error(w, http.StatusBadRequest, entity.ErrInvalidSummaryType)
	case errors.As(err, &ve):
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: ve.Field + " " + ve.Message})
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

type GetHandler struct{ Svc Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	s, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respond.SafeError(w, http.StatusNotFound, errors.New("summary not found"))
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(s))
}
