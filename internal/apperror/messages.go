package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Pool invariants
	CodeZeroAmount:            "Amount must be greater than zero",
	CodeInsufficientInput:     "Insufficient input amount",
	CodeInsufficientLiquidity: "Insufficient liquidity in pool",
	CodeInsufficientShares:    "Share balance too low",
	CodeDustAmount:            "Computed amount rounds to zero",
	CodeDeadlineExpired:       "Swap deadline has expired",
	CodeSlippageExceeded:      "Output below minimum acceptable amount",
	CodeReentrancy:            "Pool operation already in progress",
	CodeUnknownToken:          "Token is not part of this pool",
	CodePoolNotFound:          "Pool not found for token pair",
	CodePoolExists:            "Pool already exists for token pair",
	CodeIdenticalTokens:       "Pool tokens must differ",

	// Arbitrage pipeline
	CodeInvalidRoute:        "Route is not a valid cycle",
	CodeRouteNotViable:      "Route is not viable",
	CodePreflightFailed:     "Preflight checks failed",
	CodeDecisionRejected:    "Advisory decision rejected execution",
	CodeLowConfidence:       "Advisory confidence below threshold",
	CodeExecutionFailed:     "Trade execution failed",
	CodeSettlementReverted:  "Settlement reverted",
	CodeInsufficientBalance: "Insufficient balance for input token",
	CodeCostCeilingExceeded: "Settlement cost exceeds configured ceiling",

	// Advisory oracle
	CodeOracleUnavailable:   "Advisory oracle unavailable",
	CodeOracleTimeout:       "Advisory oracle request timed out",
	CodeOracleParseError:    "Advisory oracle response could not be parsed",
	CodeOracleRateLimited:   "Advisory oracle rate limit exceeded",
	CodeRetriesExhausted:    "All retry attempts exhausted",
	CodeCircuitOpen:         "Circuit breaker is open",
	CodeProviderUnavailable: "Data provider unavailable",

	// WebSocket
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",
}
