package analyses

import (
	"context"
	"errors"
	"net"
	"strings"

	"docanalyzer-backend/internal/resilience"
)

// llmErrorClassifier marks transient provider failures as retryable. Context
// cancellation is terminal and never counts against the breaker.
func llmErrorClassifier(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	return resilience.ErrorClassification{
		Retryable:     isTransientLLMError(err),
		RecordFailure: true,
	}
}

func isTransientLLMError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "http status 5"):
		return true
	case strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "unexpected eof"):
		return true
	}
	return false
}
