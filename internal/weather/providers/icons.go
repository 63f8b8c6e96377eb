package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-search/internal/common"
)

const DefaultIconBaseURL = "https://openweathermap.org/img/wn"

// maxIconBytes bounds a single icon download.
const maxIconBytes = 256 << 10

var (
	ErrInvalidIconID = errors.New("invalid icon id")
	errCircuitOpen   = errors.New("circuit breaker open")
)

var validate = validator.New()

// Icon is a downloaded condition icon.
type Icon struct {
	ContentType string
	Data        []byte
}

// IconFetcher downloads condition icons. Icons are presentation only, so a
// failing icon host is isolated behind a circuit breaker.
type IconFetcher struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewIconFetcher(client *http.Client, baseURL string) *IconFetcher {
	if baseURL == "" {
		baseURL = DefaultIconBaseURL
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "icons",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("INFO: circuit %s: %s -> %s", name, from, to)
		},
	})
	return &IconFetcher{
		baseURL: baseURL,
		client:  client,
		circuit: cb,
	}
}

// URL returns the public icon URL for iconID.
func (f *IconFetcher) URL(iconID string) string {
	return common.IconURL(f.baseURL, iconID)
}

// Fetch downloads the @2x PNG for iconID (e.g. "01d").
func (f *IconFetcher) Fetch(ctx context.Context, iconID string) (Icon, error) {
	if err := validate.Var(iconID, "required,alphanum,max=4"); err != nil {
		return Icon{}, fmt.Errorf("%w: %q", ErrInvalidIconID, iconID)
	}

	result, err := f.circuit.Execute(func() (interface{}, error) {
		resp, err := doRequest(ctx, f.client, http.MethodGet, f.URL(iconID))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconBytes))
		if err != nil {
			return nil, err
		}
		ct := resp.Header.Get("Content-Type")
		if ct == "" {
			ct = http.DetectContentType(data)
		}
		return Icon{ContentType: ct, Data: data}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Icon{}, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return Icon{}, err
	}

	icon, ok := result.(Icon)
	if !ok {
		return Icon{}, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return icon, nil
}
