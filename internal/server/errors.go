package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/sandesh/findocs/internal/fiscalyear"
	"github.com/sandesh/findocs/internal/observability"
	"github.com/sandesh/findocs/internal/resolver"
)

// HTTPStatus returns the appropriate HTTP status code for a resolution error.
func HTTPStatus(err error) int {
	var (
		malformed       *fiscalyear.MalformedError
		unknownCalendar *fiscalyear.UnknownCalendarError
		invalidQuarter  *resolver.InvalidQuarterError
		bankNotFound    *resolver.BankNotFoundError
		reportNotFound  *resolver.ReportNotFoundError
		noSources       *resolver.NoSourcesConfiguredError
		unavailable     *resolver.UpstreamUnavailableError
		validation      validator.ValidationErrors
	)
	switch {
	case errors.As(err, &malformed), errors.As(err, &unknownCalendar),
		errors.As(err, &invalidQuarter), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &bankNotFound), errors.As(err, &reportNotFound):
		return http.StatusNotFound
	case errors.As(err, &noSources):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// failureReason maps a resolution error onto a metrics label.
func failureReason(err error) string {
	switch HTTPStatus(err) {
	case http.StatusBadRequest:
		return observability.ReasonBadRequest
	case http.StatusNotFound:
		var bankNotFound *resolver.BankNotFoundError
		if errors.As(err, &bankNotFound) {
			return observability.ReasonBankNotFound
		}
		return observability.ReasonReportMissing
	case http.StatusUnprocessableEntity:
		return observability.ReasonReportMissing
	case http.StatusBadGateway:
		return observability.ReasonUpstream
	default:
		return observability.ReasonInternal
	}
}
