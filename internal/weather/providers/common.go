package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/i474232898/weather-search/internal/common"
)

var (
	errUnexpected   = errors.New("unexpected status code")
	errNoHTTPClient = errors.New("http client not configured")
)

// maxErrorBody caps how much of a non-2xx body is read for diagnostics.
const maxErrorBody = 4 << 10

// statusError is a non-2xx response.
type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	if e.message == "" {
		return fmt.Sprintf("%v: %d", errUnexpected, e.code)
	}
	return fmt.Sprintf("%v: %d: %s", errUnexpected, e.code, e.message)
}

func (e *statusError) Unwrap() error { return errUnexpected }

// doRequest executes exactly one attempt. A non-2xx response is returned as
// *statusError with its body closed; a 2xx response is returned open.
func doRequest(ctx context.Context, client *http.Client, method, rawURL string) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &statusError{code: resp.StatusCode, message: providerMessage(body)}
	}
	return resp, nil
}

// providerMessage extracts the OpenWeatherMap error message; "cod" is an int
// or a string depending on the endpoint.
func providerMessage(body []byte) string {
	var payload struct {
		Cod     any    `json:"cod"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

// transportCause classifies a client.Do failure for logging.
func transportCause(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if common.HasAny(strings.ToLower(err.Error()), "connection refused", "connectex") {
		return "refused"
	}
	return "other"
}
