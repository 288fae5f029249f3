package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	CodeLoginFailed:         "Login failed",
	CodeSessionUnauthorized: "Session is no longer valid",
	CodeSessionExpired:      "Session has expired",

	CodeSettingsFetchFailed: "Failed to fetch remote settings",
	CodeSettingsSaveFailed:  "Failed to save remote settings",
	CodeSnapshotCorrupt:     "Stored snapshot could not be decoded",

	CodeStorageOpenFailed:  "Failed to open local storage",
	CodeStorageReadFailed:  "Failed to read from local storage",
	CodeStorageWriteFailed: "Failed to write to local storage",

	CodeTabNotFound:    "Calculator tab not found",
	CodeUnknownTabKind: "Unknown calculator kind",

	CodeRateFetchFailed:    "Failed to fetch exchange rate",
	CodeRateUnavailable:    "Exchange rate unavailable",
	CodeStreamDisconnected: "Price stream disconnected",

	CodeUpdateCheckFailed: "Update check failed",

	CodeCircuitOpen: "Circuit breaker is open",
}
