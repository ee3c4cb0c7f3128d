package testing

import (
	"context"
	"net/http"
	"testing"
	"time"

	gh "github.com/google/go-github/v66/github"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// GitHubError returns a go-github API error with the given HTTP status.
func GitHubError(status int, message string) error {
	return &gh.ErrorResponse{
		Response: &http.Response{StatusCode: status},
		Message:  message,
	}
}
