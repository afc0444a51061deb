package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vaultkeep/vaultkeep/pkg/api"
)

var validate = validator.New()

// sendJSON writes a JSON response
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError writes the {success:false, message} envelope
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	sendJSON(logger, w, api.Response{Success: false, Message: message}, statusCode)
}

// decodeAndValidate parses the request body into dst and runs the validator
// tags. The returned error message is safe to send to the client.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("Invalid request body.")
	}
	if err := validate.Struct(dst); err != nil {
		return errors.New(validationMessage(err))
	}
	return nil
}

// validationMessage turns the first validator error into the message the
// API has always returned for that kind of failure.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body."
	}

	e := verrs[0]
	field := fieldLabel(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "email":
		return "Invalid email format."
	case "eqfield":
		return "New password and confirm password do not match."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", field, e.Param())
	case "len", "numeric":
		if strings.EqualFold(e.Field(), "otp") {
			return "OTP must be 6 digits."
		}
		return fmt.Sprintf("%s is invalid.", field)
	default:
		return fmt.Sprintf("%s is invalid.", field)
	}
}

func fieldLabel(name string) string {
	switch name {
	case "OTP":
		return "OTP"
	case "FirstName":
		return "First name"
	case "MiddleName":
		return "Middle name"
	case "LastName":
		return "Last name"
	case "NewPassword":
		return "New password"
	case "ConfirmNewPassword":
		return "Confirm password"
	case "CurrentPassword":
		return "Current password"
	default:
		return name
	}
}
