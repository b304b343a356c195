package stubapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"atelier/internal/sentinel"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeValid decodes a JSON body into dst and runs struct validation.
func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Join(sentinel.ErrInvalidInput, err)
	}
	if err := validate.Struct(dst); err != nil {
		return errors.Join(sentinel.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError translates sentinel errors into the status codes the client
// maps back onto the same sentinels.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sentinel.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		status = http.StatusConflict
	case errors.Is(err, sentinel.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
