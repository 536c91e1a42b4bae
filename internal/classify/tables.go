package classify

// rule maps one HTTP status, optionally narrowed by body fragments, to a
// Classification. Fragments are lowercase; a rule with fragments matches only
// when the body contains at least one of them. Tables are scanned in order,
// so fragment rules must precede the bare-status rule for the same status.
type rule struct {
	status    int
	fragments []string
	class     Classification
}

// Vendor wording is inherently fragile; all known phrases live in these
// tables so they can be updated without touching control flow.
//
//nolint:gochecknoglobals // Static lookup tables
var vendorRules = map[string][]rule{
	"deepseek": deepseekRules,
	"openai":   openaiRules,
}

// deepseekRules covers the DeepSeek error surface. Balance exhaustion is a
// recoverable pause on DeepSeek's side, so unlike OpenAI quota exhaustion it
// permits fallback to another provider.
//
//nolint:gochecknoglobals // Static lookup table
var deepseekRules = []rule{
	{
		status:    400,
		fragments: []string{"invalid request body", "invalid_request_error"},
		class: Classification{
			UserMessage:      "The question request was rejected as invalid. Please adjust your game settings and try again.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeInvalidFormat,
			FallbackPossible: true,
		},
	},
	{
		status: 401,
		class: Classification{
			UserMessage:      "The AI service credentials are misconfigured. Please contact support.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeAuthentication,
			FallbackPossible: false,
		},
	},
	{
		status: 402,
		class: Classification{
			UserMessage:      "The AI service account has insufficient balance. Trying an alternate service.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeInsufficientBalance,
			FallbackPossible: true,
		},
	},
	{
		status: 422,
		class: Classification{
			UserMessage:      "The question request contained invalid parameters. Please adjust your game settings.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeValidation,
			FallbackPossible: true,
		},
	},
	{
		status:    429,
		fragments: []string{"rate limit reached"},
		class: Classification{
			UserMessage:      "The AI service is receiving too many requests. Please try again in a moment.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeRateLimit,
			FallbackPossible: true,
		},
	},
	{
		status: 429,
		class: Classification{
			UserMessage:      "The AI service is receiving too many requests. Please try again in a moment.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeRateLimit,
			FallbackPossible: true,
		},
	},
	{
		status: 500,
		class: Classification{
			UserMessage:      "The AI service hit an internal error. Please try again.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeServerError,
			FallbackPossible: true,
		},
	},
	{
		status:    503,
		fragments: []string{"server is overloaded"},
		class: Classification{
			UserMessage:      "The AI service is overloaded. Please try again shortly.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeServiceOverloaded,
			FallbackPossible: true,
		},
	},
	{
		status: 503,
		class: Classification{
			UserMessage:      "The AI service is temporarily unavailable. Please try again shortly.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeServiceUnavailable,
			FallbackPossible: true,
		},
	},
}

// openaiRules covers the OpenAI error surface. Quota exhaustion marks a
// structurally unusable account, so it blocks fallback; credential problems
// are provider-specific and block fallback too per the account-problem rule.
//
//nolint:gochecknoglobals // Static lookup table
var openaiRules = []rule{
	{
		status:    401,
		fragments: []string{"incorrect api key"},
		class: Classification{
			UserMessage:      "The AI service API key is invalid. Please contact support.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeInvalidAPIKey,
			FallbackPossible: false,
		},
	},
	{
		status:    401,
		fragments: []string{"must be a member of an organization"},
		class: Classification{
			UserMessage:      "The AI service account is not part of an organization. Please contact support.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeOrganizationRequired,
			FallbackPossible: false,
		},
	},
	{
		status:    401,
		fragments: []string{"ip address"},
		class: Classification{
			UserMessage:      "This server is not authorized to use the AI service. Please contact support.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeIPNotAuthorized,
			FallbackPossible: false,
		},
	},
	{
		status: 401,
		class: Classification{
			UserMessage:      "The AI service credentials are misconfigured. Please contact support.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeAuthentication,
			FallbackPossible: false,
		},
	},
	{
		status:    403,
		fragments: []string{"country, region, or territory"},
		class: Classification{
			UserMessage:      "The AI service is not available in this region. Trying an alternate service.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeRegionNotSupported,
			FallbackPossible: true,
		},
	},
	{
		status:    429,
		fragments: []string{"exceeded your current quota"},
		class: Classification{
			UserMessage:      "The AI service quota has been exhausted. Please contact support.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeQuotaExceeded,
			FallbackPossible: false,
		},
	},
	{
		status: 429,
		class: Classification{
			UserMessage:      "The AI service is receiving too many requests. Please try again in a moment.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeRateLimit,
			FallbackPossible: true,
		},
	},
	{
		status: 500,
		class: Classification{
			UserMessage:      "The AI service hit an internal error. Please try again.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeServerError,
			FallbackPossible: true,
		},
	},
	{
		status:    503,
		fragments: []string{"overloaded"},
		class: Classification{
			UserMessage:      "The AI service is overloaded. Please try again shortly.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeServiceOverloaded,
			FallbackPossible: true,
		},
	},
	{
		status: 503,
		class: Classification{
			UserMessage:      "The AI service is temporarily unavailable. Please try again shortly.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeServiceUnavailable,
			FallbackPossible: true,
		},
	},
}

// genericRules applies to unrecognized providers and to statuses a vendor
// table doesn't cover. Payload-too-large blocks fallback because the same
// oversized prompt will fail on any provider.
//
//nolint:gochecknoglobals // Static lookup table
var genericRules = []rule{
	{
		status: 400,
		class: Classification{
			UserMessage:      "The question request was rejected as invalid. Please adjust your game settings and try again.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeBadRequest,
			FallbackPossible: true,
		},
	},
	{
		status: 401,
		class: Classification{
			UserMessage:      "The AI service credentials are misconfigured. Please contact support.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeAuthentication,
			FallbackPossible: false,
		},
	},
	{
		status: 403,
		class: Classification{
			UserMessage:      "Access to the AI service was denied. Trying an alternate service.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeAccessDenied,
			FallbackPossible: true,
		},
	},
	{
		status: 408,
		class: Classification{
			UserMessage:      "The AI service took too long to respond. Please try again.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeTimeout,
			FallbackPossible: true,
		},
	},
	{
		status: 413,
		class: Classification{
			UserMessage:      "The question request is too large. Please reduce the amount of game content.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypePayloadTooLarge,
			FallbackPossible: false,
		},
	},
	{
		status: 422,
		class: Classification{
			UserMessage:      "The question request contained invalid parameters. Please adjust your game settings.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeValidation,
			FallbackPossible: true,
		},
	},
	{
		status: 429,
		class: Classification{
			UserMessage:      "The AI service is receiving too many requests. Please try again in a moment.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeRateLimit,
			FallbackPossible: true,
		},
	},
	{
		status: 500,
		class: Classification{
			UserMessage:      "The AI service hit an internal error. Please try again.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeServerError,
			FallbackPossible: true,
		},
	},
	{
		status: 502,
		class: Classification{
			UserMessage:      "The AI service is temporarily unreachable. Please try again.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeServerError,
			FallbackPossible: true,
		},
	},
	{
		status: 503,
		class: Classification{
			UserMessage:      "The AI service is temporarily unavailable. Please try again shortly.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeServiceUnavailable,
			FallbackPossible: true,
		},
	},
	{
		status: 504,
		class: Classification{
			UserMessage:      "The AI service timed out at the gateway. Please try again.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeGatewayTimeout,
			FallbackPossible: true,
		},
	},
}

// Transport-level fragments. The upper-case codes mirror what proxied or
// wrapped runtime errors embed in their messages.
//
//nolint:gochecknoglobals // Static lookup tables
var (
	timeoutFragments = []string{
		"aborterror",
		"timeout",
		"timed out",
		"deadline",
	}

	networkFragments = []string{
		"fetch",
		"econnrefused",
		"enotfound",
		"etimedout",
		"econnreset",
		"connection refused",
		"connection reset",
		"no such host",
		"broken pipe",
		"network is unreachable",
	}
)
