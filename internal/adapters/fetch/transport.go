package fetch

import (
	"net/http"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout   = 5 * time.Second
	defaultMaxBodyBytes  = 8 << 20
	defaultConcurrency   = 4
	defaultRetryInterval = 100 * time.Millisecond
	errorBodyPeek        = 512
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func resolveHTTPClient(client *http.Client, timeout time.Duration) httpDoer {
	if client != nil {
		return client
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

func normalizeBaseURL(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), "/")
}

func positiveOr[T int | int64 | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}

// retryable reports whether an HTTP status is worth another attempt.
func retryable(status int) bool {
	return status >= http.StatusInternalServerError || status == http.StatusTooManyRequests
}
