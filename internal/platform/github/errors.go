package github

import (
	"errors"
	"net/http"

	gh "github.com/google/go-github/v66/github"
)

// statusCode extracts the HTTP status of a go-github API error.
func statusCode(err error) int {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	return 0
}

// IsNotFound checks if an error indicates the repository or account does not exist.
func IsNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

// IsConflict checks if an error indicates a repository name collision.
// GitHub reports collisions as validation failures.
func IsConflict(err error) bool {
	return statusCode(err) == http.StatusUnprocessableEntity
}

// IsUnauthorized checks if an error indicates rejected or insufficient credentials.
func IsUnauthorized(err error) bool {
	if IsRateLimited(err) {
		return false
	}
	code := statusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsRateLimited checks if an error indicates primary or secondary rate limiting.
func IsRateLimited(err error) bool {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *gh.AbuseRateLimitError
	return errors.As(err, &abuseErr)
}

// isRetryable reports whether a failed call may succeed when repeated.
func isRetryable(err error) bool {
	return IsRateLimited(err) || statusCode(err) >= http.StatusInternalServerError
}
