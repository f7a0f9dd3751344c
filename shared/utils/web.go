package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/feedbackhub/feedbackhub/shared/errors"
	"github.com/feedbackhub/feedbackhub/shared/logger"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ErrorResponse struct {
	Error   errors.Kind `json:"error"`
	Message string      `json:"message"`
}

// WriteErrorAndStatusCode writes err as {"error": kind, "message": text}.
// Anything that is not an ErrorWithStatusCode is logged and reported as a
// generic 500 so store details never reach the client.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	if e, ok := errors.As(err); ok {
		WriteJSONStatus(w, e.StatusCode, ErrorResponse{Error: e.Kind, Message: e.Message})
		return
	}
	logger.Log.Error("unhandled error", "error", err)
	WriteJSONStatus(w, http.StatusInternalServerError, ErrorResponse{Error: errors.KindInternal, Message: "Internal server error"})
}

func WriteJSON(w http.ResponseWriter, v any) {
	WriteJSONStatus(w, http.StatusOK, v)
}

func WriteJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request validation failed", "error", err)
		return errors.Validation("Required fields missing")
	}
	return nil
}

func Decode(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("request decode failed", "error", err)
		return errors.Validation("Body is invalid json")
	}
	return nil
}
