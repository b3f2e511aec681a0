package errors

import "net/http"

var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidParameters = New(
		"INVALID_PARAMETERS",
		"Invalid refresh parameters",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrPopulationNotFound = New(
		"POPULATION_NOT_FOUND",
		"Population not found",
		http.StatusNotFound,
	)

	ErrPopulationLoad = New(
		"POPULATION_LOAD_FAILED",
		"Population could not be loaded",
		http.StatusInternalServerError,
	)

	ErrPopulationNotFailed = New(
		"POPULATION_NOT_FAILED",
		"Only failed populations can be reloaded",
		http.StatusConflict,
	)

	ErrRefreshInProgress = New(
		"REFRESH_IN_PROGRESS",
		"A refresh is already running",
		http.StatusConflict,
	)

	ErrSurfaceUnavailable = New(
		"SURFACE_UNAVAILABLE",
		"Travel time surface is unavailable",
		http.StatusBadGateway,
	)

	ErrNoPresentation = New(
		"NO_PRESENTATION",
		"No refresh has completed yet",
		http.StatusNotFound,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
