package handler

import (
	"encoding/json"
	"net/http"

	"github.com/arenaretail/pos/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a request body into dst, rejecting unknown fields so
// typos in the terminal payload surface as 400s instead of silent zeroes.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("handler.decode", "request body is not valid JSON")
	}
	return nil
}

// unmarshalJSON decodes an already-read body, used where the raw bytes are
// needed for signature verification first.
func unmarshalJSON(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.Invalid("handler.decode", "request body is not valid JSON")
	}
	return nil
}
