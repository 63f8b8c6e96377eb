package weather

import (
	"context"
	"time"
)

// Client abstracts the weather provider (e.g. OpenWeatherMap). Each call
// makes exactly one attempt and returns a *FetchError on failure.
type Client interface {
	Fetch(ctx context.Context, cityName string) (WeatherResponse, error)
}

// Store is the string key-value contract used for the last searched city.
// Implementations return an error wrapping store.ErrNotFound for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Recorder receives controller lifecycle events, typically for metrics.
type Recorder interface {
	Submitted()
	Settled(status Status, kind FailureKind, elapsed time.Duration)
	Superseded()
}

type nopRecorder struct{}

func (nopRecorder) Submitted()                                 {}
func (nopRecorder) Settled(Status, FailureKind, time.Duration) {}
func (nopRecorder) Superseded()                                {}
