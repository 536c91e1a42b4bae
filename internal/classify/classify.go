// Package classify normalizes provider failures into a retry/fallback verdict.
// Classification is stateless: it is derived purely from the HTTP status code,
// known phrases in the response body, and the provider name, and is recomputed
// for every failure.
package classify

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/quizbooth/backend/internal/domain"
)

// ErrorType is the normalized failure category.
type ErrorType string

const (
	ErrorTypeBadRequest           ErrorType = "bad_request"
	ErrorTypeInvalidFormat        ErrorType = "invalid_format"
	ErrorTypeValidation           ErrorType = "validation"
	ErrorTypeAuthentication       ErrorType = "authentication"
	ErrorTypeInvalidAPIKey        ErrorType = "invalid_api_key"
	ErrorTypeOrganizationRequired ErrorType = "organization_required"
	ErrorTypeIPNotAuthorized      ErrorType = "ip_not_authorized"
	ErrorTypeInsufficientBalance  ErrorType = "insufficient_balance"
	ErrorTypeQuotaExceeded        ErrorType = "quota_exceeded"
	ErrorTypeRateLimit            ErrorType = "rate_limit"
	ErrorTypeServiceOverloaded    ErrorType = "service_overloaded"
	ErrorTypeServiceUnavailable   ErrorType = "service_unavailable"
	ErrorTypeServerError          ErrorType = "server_error"
	ErrorTypeTimeout              ErrorType = "timeout"
	ErrorTypeGatewayTimeout       ErrorType = "gateway_timeout"
	ErrorTypePayloadTooLarge      ErrorType = "payload_too_large"
	ErrorTypeRegionNotSupported   ErrorType = "region_not_supported"
	ErrorTypeAccessDenied         ErrorType = "access_denied"
	ErrorTypeNetwork              ErrorType = "network"
	ErrorTypeUnknown              ErrorType = "unknown"
)

// Classification is the normalized verdict for one provider failure.
type Classification struct {
	// UserMessage is safe to forward to end users. Raw vendor error bodies
	// never are.
	UserMessage string

	// ShouldRetry recommends retrying the same provider.
	ShouldRetry bool

	// ErrorType is the failure category.
	ErrorType ErrorType

	// FallbackPossible permits advancing to the next provider.
	FallbackPossible bool
}

// Classify maps a vendor HTTP failure to a Classification. It dispatches on
// the provider name to a vendor-specific rule table, falling back to a generic
// table for unrecognized providers or unmatched statuses.
func Classify(status int, bodyText string, providerName string) Classification {
	body := strings.ToLower(bodyText)

	if rules, ok := vendorRules[strings.ToLower(providerName)]; ok {
		if c, ok := match(rules, status, body); ok {
			return c
		}
	}

	if c, ok := match(genericRules, status, body); ok {
		return c
	}

	return Classification{
		UserMessage:      "The AI service returned an unexpected error. Please try again.",
		ShouldRetry:      status >= 500,
		ErrorType:        ErrorTypeUnknown,
		FallbackPossible: true,
	}
}

// match scans a rule table in order. Substring rules precede bare-status rules
// within each table, so vendor phrases win over status-only classification and
// unmatched phrases fall through rather than failing.
func match(rules []rule, status int, body string) (Classification, bool) {
	for _, r := range rules {
		if r.status != status {
			continue
		}
		if len(r.fragments) == 0 {
			return r.class, true
		}
		for _, f := range r.fragments {
			if strings.Contains(body, f) {
				return r.class, true
			}
		}
	}
	return Classification{}, false
}

// ClassifyTransport classifies failures that never produced an HTTP response:
// network errors and aborted or timed-out requests. Both categories are
// retryable and permit fallback.
func ClassifyTransport(err error) Classification {
	if isTimeout(err) {
		return Classification{
			UserMessage:      "The AI service took too long to respond. Please try again.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeTimeout,
			FallbackPossible: true,
		}
	}

	if isNetwork(err) {
		return Classification{
			UserMessage:      "We couldn't reach the AI service. Please try again in a moment.",
			ShouldRetry:      true,
			ErrorType:        ErrorTypeNetwork,
			FallbackPossible: true,
		}
	}

	return Classification{
		UserMessage:      "Something went wrong while contacting the AI service. Please try again.",
		ShouldRetry:      true,
		ErrorType:        ErrorTypeUnknown,
		FallbackPossible: true,
	}
}

// FromError derives a Classification from any error surfaced by a provider
// adapter. HTTP failures carry their status through ProviderError; everything
// else goes through transport classification.
func FromError(err error) Classification {
	var shapeErr *domain.UnexpectedShapeError
	if errors.As(err, &shapeErr) {
		return Classification{
			UserMessage:      "The AI service returned an unreadable response. Please try again.",
			ShouldRetry:      false,
			ErrorType:        ErrorTypeInvalidFormat,
			FallbackPossible: true,
		}
	}

	var provErr *domain.ProviderError
	if errors.As(err, &provErr) {
		if provErr.Status > 0 {
			return Classify(provErr.Status, provErr.Body, provErr.Provider)
		}
		if provErr.Err != nil {
			return ClassifyTransport(provErr.Err)
		}
	}

	return ClassifyTransport(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return containsAny(err.Error(), timeoutFragments)
}

func isNetwork(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	return containsAny(err.Error(), networkFragments)
}

func containsAny(message string, fragments []string) bool {
	lower := strings.ToLower(message)
	for _, f := range fragments {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}
