package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	apperrors "parkspot/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError is the only place domain errors become status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	herr := apperrors.ToHTTP(err)
	if herr.Code >= http.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, herr.Code, map[string]string{"error": herr.Message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	return nil
}

// pagingParams reads ?page=&limit=. Missing values are left at zero so the
// service applies its defaults.
func pagingParams(r *http.Request) (int, int, error) {
	page, err := intParam(r, "page")
	if err != nil {
		return 0, 0, err
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, apperrors.Validation("%s must be a positive integer", name)
	}
	return v, nil
}
