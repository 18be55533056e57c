package notify

import (
	"context"
	"errors"
	"time"
)

type Kind string

const (
	KindAlertCreated   Kind = "alert_created"
	KindAlertConfirmed Kind = "alert_confirmed"
	KindAlertDismissed Kind = "alert_dismissed"
	KindBadgeAwarded   Kind = "badge_awarded"
)

// Audience selects who an event is addressed to.
type Audience string

const (
	AudienceCentro   Audience = "centro"
	AudienceCustomer Audience = "customer"
)

type Event struct {
	Kind       Kind           `json:"kind"`
	Audience   Audience       `json:"audience"`
	CentroID   string         `json:"centro_id"`
	CustomerID string         `json:"customer_id,omitempty"`
	Title      string         `json:"title,omitempty"`
	Message    string         `json:"message,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Dispatcher delivers events to whatever realtime or queue channels are
// configured. Delivery is best effort and callers only log failures.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
	Close() error
}

type Nop struct{}

func (Nop) Dispatch(context.Context, Event) error { return nil }
func (Nop) Close() error                          { return nil }

// Multi fans an event out to every dispatcher and joins their errors.
type Multi []Dispatcher

func (m Multi) Dispatch(ctx context.Context, event Event) error {
	var errs []error
	for _, d := range m {
		if err := d.Dispatch(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, d := range m {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Combine drops nil dispatchers and returns Nop when none remain.
func Combine(dispatchers ...Dispatcher) Dispatcher {
	var m Multi
	for _, d := range dispatchers {
		if d != nil {
			m = append(m, d)
		}
	}
	switch len(m) {
	case 0:
		return Nop{}
	case 1:
		return m[0]
	}
	return m
}
