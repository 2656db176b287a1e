package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Fixed-point arithmetic
	CodeOverflow:       "Arithmetic overflow",
	CodeDivisionByZero: "Division by zero",

	// Curve and solver
	CodePoolNotFound:          "Pool not found",
	CodeInsufficientLiquidity: "Insufficient liquidity for trade size",
	CodeTargetUnreachable:     "Target price is not reachable with the supplied liquidity",
	CodeInvalidSqrtPrice:      "Sqrt price outside the representable range",
	CodeInvalidLiquidity:      "Invalid liquidity",
	CodeInvalidRanges:         "Liquidity ranges are invalid",

	// Services
	CodeInvalidSlippage:    "Slippage tolerance must be in [0, 1)",
	CodeInvalidAmount:      "Invalid amount",
	CodeInvalidProbability: "Probability must be in [0, 1]",
	CodeInvalidTarget:      "Invalid target price",

	// Ledger
	CodeEthereumConnectionFailed: "Failed to connect to the ledger node",
	CodeEthereumRPCError:         "Ledger RPC call failed",
	CodeContractCallFailed:       "Smart contract call failed",
	CodeProposalNotFound:         "Proposal not found",

	CodeSpotPriceUnavailable: "Spot price unavailable",

	// Metadata registry
	CodeRegistryRecordNotFound: "Registry record not found",
	CodeRegistryStoreFailed:    "Registry store operation failed",
	CodeRegistryDuplicateLink:  "Record is already linked",

	CodeCircuitOpen: "Circuit breaker is open",
}
