// Package usersfetcher retrieves the users list from the remote API
// with a single bounded-timeout request and classifies its failures.
package usersfetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/patric-chuzhbe/userfinder/internal/logger"
	"github.com/patric-chuzhbe/userfinder/internal/models"
)

var (
	// ErrTimeout is returned when the request does not complete within the timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrConnection is returned when the server cannot be reached.
	ErrConnection = errors.New("could not connect to the server")

	// ErrInvalidJSON is returned when the response body is not a JSON array of users.
	ErrInvalidJSON = errors.New("invalid JSON response")

	// ErrInterrupted is returned when the caller's context is canceled.
	ErrInterrupted = errors.New("request interrupted")

	// ErrUnexpected wraps every failure that fits no other category.
	ErrUnexpected = errors.New("unexpected error")
)

// StatusError is returned for responses with a non-2xx status code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.Code)
}

// Fetcher issues the users request. It is safe to reuse but performs
// exactly one attempt per FetchUsers call.
type Fetcher struct {
	client *resty.Client
	url    string
}

// New returns a Fetcher for url with a total request timeout.
func New(url string, timeout time.Duration) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetLogger(logger.Log).
		SetHeader("Accept", "application/json")

	return &Fetcher{
		client: client,
		url:    url,
	}
}

// FetchUsers performs the GET request and decodes the users array.
// On any failure it returns nil users and an error matching one of the
// package's sentinel errors or a *StatusError.
func (f *Fetcher) FetchUsers(ctx context.Context) ([]models.User, error) {
	logger.Log.Debugw("fetching users", "url", f.url)

	resp, err := f.client.R().
		SetContext(ctx).
		Get(f.url)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		logger.Log.Debugw("users request failed", "status", resp.StatusCode())
		return nil, &StatusError{Code: resp.StatusCode()}
	}

	var users []models.User
	if err := json.Unmarshal(resp.Body(), &users); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if users == nil {
		// a literal null body
		return nil, fmt.Errorf("%w: expected an array", ErrInvalidJSON)
	}

	logger.Log.Debugw("users fetched", "count", len(users), "duration", resp.Time())

	return users, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %v", ErrInterrupted, err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &opErr),
		errors.As(err, &dnsErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return fmt.Errorf("%w: %v", ErrUnexpected, err)
}

// Describe returns the operator-facing message for a FetchUsers error.
func Describe(err error) string {
	var statusErr *StatusError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "Error: The request timed out. Please check your internet connection and try again."
	case errors.Is(err, ErrConnection):
		return "Error: Could not connect to the server. Please check your internet connection."
	case errors.Is(err, ErrInvalidJSON):
		return "Error: Received invalid JSON response from the server."
	case errors.Is(err, ErrInterrupted):
		return "Error: The request was interrupted."
	case errors.As(err, &statusErr):
		switch statusErr.Code {
		case http.StatusNotFound:
			return "Error: The requested resource was not found."
		case http.StatusForbidden:
			return "Error: Access to the resource is forbidden."
		default:
			return fmt.Sprintf("Error: Server returned an error (Status code: %d)", statusErr.Code)
		}
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}
