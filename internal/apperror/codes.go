package apperror

// Code represents a unique error code for the application.
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

// Pool invariant error codes. Each one fails a single operation without
// touching reserve or share state.
const (
	CodeZeroAmount            Code = "ZERO_AMOUNT"
	CodeInsufficientInput     Code = "INSUFFICIENT_INPUT"
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"
	CodeInsufficientShares    Code = "INSUFFICIENT_SHARES"
	CodeDustAmount            Code = "DUST_AMOUNT"
	CodeDeadlineExpired       Code = "DEADLINE_EXPIRED"
	CodeSlippageExceeded      Code = "SLIPPAGE_EXCEEDED"
	CodeReentrancy            Code = "REENTRANCY"
	CodeUnknownToken          Code = "UNKNOWN_TOKEN"
	CodePoolNotFound          Code = "POOL_NOT_FOUND"
	CodePoolExists            Code = "POOL_EXISTS"
	CodeIdenticalTokens       Code = "IDENTICAL_TOKENS"
)

// Arbitrage pipeline error codes
const (
	CodeInvalidRoute        Code = "INVALID_ROUTE"
	CodeRouteNotViable      Code = "ROUTE_NOT_VIABLE"
	CodePreflightFailed     Code = "PREFLIGHT_FAILED"
	CodeDecisionRejected    Code = "DECISION_REJECTED"
	CodeLowConfidence       Code = "LOW_CONFIDENCE"
	CodeExecutionFailed     Code = "EXECUTION_FAILED"
	CodeSettlementReverted  Code = "SETTLEMENT_REVERTED"
	CodeInsufficientBalance Code = "INSUFFICIENT_BALANCE"
	CodeCostCeilingExceeded Code = "COST_CEILING_EXCEEDED"
)

// Advisory oracle error codes
const (
	CodeOracleUnavailable   Code = "ORACLE_UNAVAILABLE"
	CodeOracleTimeout       Code = "ORACLE_TIMEOUT"
	CodeOracleParseError    Code = "ORACLE_PARSE_ERROR"
	CodeOracleRateLimited   Code = "ORACLE_RATE_LIMITED"
	CodeRetriesExhausted    Code = "RETRIES_EXHAUSTED"
	CodeCircuitOpen         Code = "CIRCUIT_OPEN"
	CodeProviderUnavailable Code = "PROVIDER_UNAVAILABLE"
)

// WebSocket / feed error codes
const (
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"
	CodeWebSocketSendError       Code = "WEBSOCKET_SEND_ERROR"
)
