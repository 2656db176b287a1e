package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Pricing engine error codes
const (
	// Fixed-point arithmetic
	CodeOverflow       Code = "OVERFLOW"
	CodeDivisionByZero Code = "DIVISION_BY_ZERO"

	// Curve and solver
	CodePoolNotFound          Code = "POOL_NOT_FOUND"
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"
	CodeTargetUnreachable     Code = "TARGET_UNREACHABLE"
	CodeInvalidSqrtPrice      Code = "INVALID_SQRT_PRICE"
	CodeInvalidLiquidity      Code = "INVALID_LIQUIDITY"
	CodeInvalidRanges         Code = "INVALID_RANGES"

	// Services
	CodeInvalidSlippage    Code = "INVALID_SLIPPAGE"
	CodeInvalidAmount      Code = "INVALID_AMOUNT"
	CodeInvalidProbability Code = "INVALID_PROBABILITY"
	CodeInvalidTarget      Code = "INVALID_TARGET"
)

// Ledger and collaborator error codes
const (
	CodeEthereumConnectionFailed Code = "ETHEREUM_CONNECTION_FAILED"
	CodeEthereumRPCError         Code = "ETHEREUM_RPC_ERROR"
	CodeContractCallFailed       Code = "CONTRACT_CALL_FAILED"
	CodeProposalNotFound         Code = "PROPOSAL_NOT_FOUND"

	// Spot price source
	CodeSpotPriceUnavailable Code = "SPOT_PRICE_UNAVAILABLE"

	// Metadata registry
	CodeRegistryRecordNotFound Code = "REGISTRY_RECORD_NOT_FOUND"
	CodeRegistryStoreFailed    Code = "REGISTRY_STORE_FAILED"
	CodeRegistryDuplicateLink  Code = "REGISTRY_DUPLICATE_LINK"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
