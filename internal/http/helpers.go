package http

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"flazz/internal/core"
	"flazz/internal/export"
	"flazz/internal/services"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

var templateFuncs = template.FuncMap{
	"currency": func(d decimal.Decimal) string {
		return core.FormatCurrency(d) + " " + core.Currency
	},
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
// NFKC folds full-width digits and composed category names to their plain form.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(norm.NFKC.String(s))
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// statusFor maps service and ledger errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, core.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, export.ErrUnknownFormat), errors.Is(err, services.ErrFormatUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, errInvalidDestination):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// userMessage is the text shown for err. Internal errors are not detailed.
func userMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Please enter a valid positive amount"
	case errors.Is(err, core.ErrEmptyCategory):
		return "Please select a category"
	case errors.Is(err, services.ErrUnknownCategory):
		return "Unknown category"
	case errors.Is(err, core.ErrAccountNotFound):
		return "Account not found"
	case errors.Is(err, export.ErrUnknownFormat):
		return "Unknown export format"
	case errors.Is(err, services.ErrFormatUnavailable):
		return "Export format not configured"
	case errors.Is(err, errInvalidDestination):
		return "Export name must be a plain file name"
	case errors.Is(err, core.ErrInsufficientFunds):
		return "Not enough balance"
	}
	return "Something went wrong"
}

// errInvalidDestination rejects export names that would escape the export directory.
var errInvalidDestination = errors.New("invalid export destination")

func validateDestination(name string) error {
	if name == "" {
		return nil
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errInvalidDestination
	}
	return nil
}
