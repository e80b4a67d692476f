package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20

type successResponse struct {
	Success bool `json:"success"`
}

var success = successResponse{Success: true}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields.
// On failure it returns the message meant for the client.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) (string, error) {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	err := decoder.Decode(dst)
	if err == nil {
		return "", nil
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset), err
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "Request body contains badly-formed JSON", err
	case errors.As(err, &unmarshalTypeError):
		return fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset), err
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return fmt.Sprintf("Request body contains unknown field %s", fieldName), err
	case errors.Is(err, io.EOF):
		return "Request body must not be empty", err
	case errors.As(err, &maxBytesError):
		return fmt.Sprintf("Request body must not be larger than %d bytes", maxBytesError.Limit), err
	}
	return "Invalid request body", err
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
