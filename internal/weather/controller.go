package weather

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SupersedePolicy decides what happens when a request settles after a newer
// one was submitted.
type SupersedePolicy int

const (
	// LastCompletedWins lets every request write its terminal state, so the
	// request that finishes last is authoritative.
	LastCompletedWins SupersedePolicy = iota
	// LastSubmittedWins drops the outcome of any request that is no longer
	// the most recent submission. Dropped requests still run to completion.
	LastSubmittedWins
)

func (p SupersedePolicy) String() string {
	if p == LastSubmittedWins {
		return "last-submitted"
	}
	return "last-completed"
}

// ParseSupersedePolicy accepts "last-completed" or "last-submitted".
func ParseSupersedePolicy(s string) (SupersedePolicy, error) {
	switch s {
	case "", "last-completed":
		return LastCompletedWins, nil
	case "last-submitted":
		return LastSubmittedWins, nil
	default:
		return 0, fmt.Errorf("unknown supersede policy %q", s)
	}
}

// Diagnostic carries the real cause of a failed request. It never reaches
// ResultState.
type Diagnostic struct {
	RequestID string
	City      string
	Kind      FailureKind
	Err       error
	At        time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy sets the supersede policy. The default is LastCompletedWins.
func WithPolicy(p SupersedePolicy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithFailureHook registers fn to receive the cause of every failed request.
// fn is called without the controller lock held.
func WithFailureHook(fn func(Diagnostic)) Option {
	return func(c *Controller) { c.onFailure = fn }
}

// WithRecorder attaches a lifecycle recorder (metrics).
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithSubscriberBuffer sets how many pending states a subscriber may lag
// behind before the oldest is dropped.
func WithSubscriberBuffer(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.subBuffer = n
		}
	}
}

// Controller runs weather lookups and owns the current ResultState.
type Controller struct {
	client    Client
	policy    SupersedePolicy
	onFailure func(Diagnostic)
	recorder  Recorder
	subBuffer int

	mu          sync.Mutex
	state       ResultState
	result      *Result
	lastFailure *Diagnostic
	generation  uint64
	subscribers map[int]chan ResultState
	nextSubID   int
	closed      bool

	inflight sync.WaitGroup
}

// NewController creates a Controller in the Idle state.
func NewController(client Client, opts ...Option) *Controller {
	c := &Controller{
		client:      client,
		policy:      LastCompletedWins,
		recorder:    nopRecorder{},
		subBuffer:   8,
		state:       Idle(),
		subscribers: make(map[int]chan ResultState),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit starts a lookup for cityName and returns its request id. The state
// is Loading when Submit returns; the fetch itself runs on its own goroutine.
// cityName is passed to the provider as is.
func (c *Controller) Submit(cityName string) string {
	id := uuid.NewString()

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.setStateLocked(loading(id, cityName))
	c.inflight.Add(1)
	c.mu.Unlock()

	c.recorder.Submitted()
	log.Printf("controller: submitted %s for %q", id, cityName)

	go c.run(gen, id, cityName)
	return id
}

func (c *Controller) run(gen uint64, id, cityName string) {
	defer c.inflight.Done()

	started := time.Now()
	resp, err := c.client.Fetch(context.Background(), cityName)
	elapsed := time.Since(started)

	if err != nil {
		c.fail(gen, id, cityName, err, elapsed)
		return
	}

	res := &Result{
		RequestID:          id,
		City:               cityName,
		Response:           resp,
		DisplayTemperature: DisplayTemperature(resp.Main.Temp),
	}

	c.mu.Lock()
	if c.staleLocked(gen) {
		c.mu.Unlock()
		c.dropped(id)
		return
	}
	c.result = res
	c.setStateLocked(succeeded(id, cityName, resp))
	c.mu.Unlock()

	c.recorder.Settled(StatusSuccess, 0, elapsed)
	log.Printf("controller: %s settled: success (%.2f°F)", id, res.DisplayTemperature)
}

func (c *Controller) fail(gen uint64, id, cityName string, err error, elapsed time.Duration) {
	kind := KindOf(err)
	diag := Diagnostic{RequestID: id, City: cityName, Kind: kind, Err: err, At: time.Now().UTC()}
	log.Printf("ERROR: controller: %s failed (%s): %v", id, kind, err)

	c.mu.Lock()
	c.lastFailure = &diag
	if c.staleLocked(gen) {
		c.mu.Unlock()
		c.dropped(id)
	} else {
		c.setStateLocked(failed(id, cityName))
		c.mu.Unlock()
		c.recorder.Settled(StatusError, kind, elapsed)
	}

	if c.onFailure != nil {
		c.onFailure(diag)
	}
}

func (c *Controller) staleLocked(gen uint64) bool {
	return c.policy == LastSubmittedWins && gen != c.generation
}

func (c *Controller) dropped(id string) {
	c.recorder.Superseded()
	log.Printf("controller: %s superseded by a newer submission; outcome dropped", id)
}

// setStateLocked replaces the current state and fans it out. c.mu must be held.
func (c *Controller) setStateLocked(s ResultState) {
	c.state = s
	for _, ch := range c.subscribers {
		select {
		case ch <- s:
		default:
			// Subscriber is behind: drop its oldest pending state.
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}

// State returns the current state.
func (c *Controller) State() ResultState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Consume atomically takes a Success state and resets to Idle. Exactly one
// caller observes a given Success; everyone else gets ok == false.
func (c *Controller) Consume() (ResultState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status != StatusSuccess {
		return ResultState{}, false
	}
	s := c.state
	c.setStateLocked(Idle())
	return s, true
}

// Result returns the most recent successful result, if any.
func (c *Controller) Result() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return Result{}, false
	}
	return *c.result, true
}

// LastFailure returns the cause of the most recent failed request.
func (c *Controller) LastFailure() (Diagnostic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastFailure == nil {
		return Diagnostic{}, false
	}
	return *c.lastFailure, true
}

// Subscribe returns a channel receiving every subsequent state, starting
// with the current one, and a func to unsubscribe.
func (c *Controller) Subscribe() (<-chan ResultState, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan ResultState, c.subBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch
	ch <- c.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
		})
	}
}

// Wait blocks until every submitted request has settled.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Close waits for outstanding requests and closes all subscriber channels.
func (c *Controller) Close() {
	c.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
}
