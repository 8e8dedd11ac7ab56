package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/aljannat-dev/aljannat/shared/api"
	"github.com/aljannat-dev/aljannat/shared/errors"
	"github.com/aljannat-dev/aljannat/shared/logger"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// WriteOK writes a {success:true} envelope.
func WriteOK(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, api.OK(message, data))
}

// WriteErrorAndStatusCode writes a {success:false} envelope. Client errors keep
// their message; anything else is logged and reported as a generic 500.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	public := errors.Public(err)
	if public.StatusCode >= http.StatusInternalServerError {
		logger.Log.Error("request failed", "error", err)
	}
	WriteJSON(w, public.StatusCode, api.Fail(public.Message))
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "error", err)
		return errors.Validation("Body is invalid json")
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("body validation failed", "error", err)
		return errors.Validation("Required fields missing")
	}
	return nil
}
