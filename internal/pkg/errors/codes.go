package errors

import "net/http"

var (
	ErrInvalidAction = New(
		"INVALID_ACTION",
		"Unknown or missing action, expected one of: getCountries, getGovernorates, getJudiciaries",
		http.StatusBadRequest,
	)

	ErrMissingIdentifier = New(
		"MISSING_IDENTIFIER",
		"Required identifier is missing for this action",
		http.StatusBadRequest,
	)

	ErrUpstreamUnavailable = New(
		"UPSTREAM_UNAVAILABLE",
		"Unable to fetch data",
		http.StatusBadGateway,
	)

	ErrStatsUnavailable = New(
		"STATS_UNAVAILABLE",
		"Statistics storage operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
