package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"parkwise/internal/auth"
	apperrors "parkwise/internal/errors"
	"parkwise/internal/repository"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.Printf("Error encoding response: %v", err)
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := apperrors.Status(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{"message": message, "code": string(apperrors.KindOf(err))})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, apperrors.New(apperrors.KindInvalidInput, "invalid request body"))
		return false
	}
	return true
}

func identityFrom(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, apperrors.New(apperrors.KindUnauthorized, "authentication required"))
	}
	return actor, ok
}

// pageFromQuery reads page, limit and search query parameters.
func pageFromQuery(r *http.Request) repository.Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return repository.Page{Page: page, Limit: limit, Search: q.Get("search")}
}
