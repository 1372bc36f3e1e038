package conversion

import (
	"context"
	"errors"
	"net/http"

	"textforge/internal/domain/entity"
	"textforge/internal/handler/http/pathutil"
	"textforge/internal/handler/http/payload"
	"textforge/internal/handler/http/respond"
	conversionUC "textforge/internal/usecase/conversion"
)

// Service is the conversion use case.
type Service interface {
	Convert(ctx context.Context, in conversionUC.Input) (*conversionUC.Output, error)
	Get(ctx context.Context, id int64) (*entity.MarkdownConversion, error)
}

const (
	msgInvalidMode   = "Invalid conversion mode"
	msgConvertFailed = "Error converting text"
)

// Register mounts the conversion routes on mux.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("POST /api/markdown", ConvertHandler{svc})
	mux.Handle("GET /api/conversions/{id}", GetHandler{svc})
}

type ConvertHandler struct{ Svc Service }

func (h ConvertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f, err := payload.Decode(r)
	if err != nil {
		writeError(w, err)
		return
	}
	text, err := f.Text()
	if err != nil {
		writeError(w, err)
		return
	}
	mode := f.String("mode", string(entity.ModeToMarkdown))
	if _, err := entity.ParseConversionMode(mode); err != nil {
		writeError(w, err)
		return
	}

	out, err := h.Svc.Convert(r.Context(), conversionUC.Input{Text: text, Mode: mode})
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, ConvertResponse{ID: out.ID, Result: out.Result, Warning: out.Warning})
}

func writeError(w http.ResponseWriter, err error) {
	var pe *payload.Error
	switch {
	case errors.As(err, &pe):
		respond.JSON(w, pe.Status, respond.ErrorBody{Error: pe.Message})
	case errors.Is(err, entity.ErrInvalidMode):
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: msgInvalidMode})
	case errors.Is(err, entity.ErrEmptyInput):
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: payload.MsgEmptyText})
	default:
		respond.SafeError(w, http.StatusInternalServerError,
			respond.NewAppError(http.StatusInternalServerError, msgConvertFailed, err))
	}
}

type GetHandler struct{ Svc Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respond.SafeError(w, http.StatusNotFound, errors.New("conversion not found"))
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(c))
}
