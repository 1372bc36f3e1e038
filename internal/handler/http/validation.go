package http

import (
	"net/http"

	"textforge/internal/handler/http/respond"
)

// MaxPathLength bounds request paths.
const MaxPathLength = 2048

// InputValidation rejects oversized paths with 414 and caps request bodies
// at maxBody bytes. Handlers see the cap as *http.MaxBytesError while reading.
func InputValidation(maxBody int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > MaxPathLength {
				respond.JSON(w, http.StatusRequestURITooLong, respond.ErrorBody{Error: "URI too long"})
				return
			}
			if r.ContentLength > maxBody {
				respond.JSON(w, http.StatusRequestEntityTooLarge, respond.ErrorBody{Error: "Request body too large"})
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
			next.ServeHTTP(w, r)
		})
	}
}
