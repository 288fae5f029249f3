package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Calculator application error codes
const (
	// Session / auth
	CodeLoginFailed         Code = "LOGIN_FAILED"
	CodeSessionUnauthorized Code = "SESSION_UNAUTHORIZED"
	CodeSessionExpired      Code = "SESSION_EXPIRED"

	// Settings sync
	CodeSettingsFetchFailed Code = "SETTINGS_FETCH_FAILED"
	CodeSettingsSaveFailed  Code = "SETTINGS_SAVE_FAILED"
	CodeSnapshotCorrupt     Code = "SNAPSHOT_CORRUPT"

	// Local storage
	CodeStorageOpenFailed  Code = "STORAGE_OPEN_FAILED"
	CodeStorageReadFailed  Code = "STORAGE_READ_FAILED"
	CodeStorageWriteFailed Code = "STORAGE_WRITE_FAILED"

	// Calculator state
	CodeTabNotFound    Code = "TAB_NOT_FOUND"
	CodeUnknownTabKind Code = "UNKNOWN_TAB_KIND"

	// Exchange rates
	CodeRateFetchFailed    Code = "RATE_FETCH_FAILED"
	CodeRateUnavailable    Code = "RATE_UNAVAILABLE"
	CodeStreamDisconnected Code = "STREAM_DISCONNECTED"

	// Update check
	CodeUpdateCheckFailed Code = "UPDATE_CHECK_FAILED"

	// Circuit breaker
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
