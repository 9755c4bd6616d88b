package event

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// WebhookSink POSTs events as JSON to a fixed URL behind a circuit breaker.
// After maxConsecutiveFailures failed deliveries the breaker opens and
// events are dropped until it half-opens again.
//
// Handle queues events for a single delivery goroutine, so publishers never
// wait on the endpoint. Close drains the queue and stops the goroutine.
type WebhookSink struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     logrus.FieldLogger

	mu     sync.RWMutex
	closed bool
	queue  chan queuedEvent
	done   chan struct{}
}

type queuedEvent struct {
	ctx   context.Context
	event Event
}

const (
	maxConsecutiveFailures = 3
	defaultQueueSize       = 256
)

type webhookConfig struct {
	settings  gobreaker.Settings
	queueSize int
}

// WebhookOption customizes a WebhookSink.
type WebhookOption func(*webhookConfig)

// WithOpenTimeout sets how long the breaker stays open before probing.
func WithOpenTimeout(d time.Duration) WebhookOption {
	return func(c *webhookConfig) {
		c.settings.Timeout = d
	}
}

// WithQueueSize bounds how many events may wait for delivery. Events handled
// while the queue is full are dropped.
func WithQueueSize(n int) WebhookOption {
	return func(c *webhookConfig) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// NewWebhookSink builds a sink and starts its delivery goroutine.
func NewWebhookSink(url string, timeout time.Duration, log logrus.FieldLogger, opts ...WebhookOption) *WebhookSink {
	settings := gobreaker.Settings{
		Name:        "webhook-sink",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	}
	cfg := webhookConfig{settings: settings, queueSize: defaultQueueSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &WebhookSink{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(cfg.settings),
		log:     log,
		queue:   make(chan queuedEvent, cfg.queueSize),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *WebhookSink) run() {
	defer close(s.done)
	for q := range s.queue {
		if err := s.Send(q.ctx, q.event); err != nil {
			s.eventLog(q.event).WithError(err).Warn("webhook delivery failed")
		}
	}
}

func (s *WebhookSink) eventLog(e Event) logrus.FieldLogger {
	return s.log.WithFields(logrus.Fields{
		"event_id":   e.ID,
		"event_type": e.Type,
		"project_id": e.Data.ProjectID,
	})
}

// Send delivers one event. It returns gobreaker.ErrOpenState while the
// breaker is open.
func (s *WebhookSink) Send(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	_, err = s.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Event-Type", e.Type)

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("webhook returned %s", resp.Status)
		}
		return nil, nil
	})
	return err
}

// Handle is a Bus handler. It queues e and returns without waiting for
// delivery. Delivery errors are logged and dropped.
func (s *WebhookSink) Handle(ctx context.Context, e Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	// The request that published e may finish before delivery.
	q := queuedEvent{ctx: context.WithoutCancel(ctx), event: e}
	select {
	case s.queue <- q:
	default:
		s.eventLog(e).Warn("webhook queue full, event dropped")
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
func (s *WebhookSink) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	<-s.done
}

// State reports the breaker state.
func (s *WebhookSink) State() gobreaker.State {
	return s.breaker.State()
}
