// Package events fans battery changes out to dashboards and downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeBatteryCreated         Type = "battery.created"
	TypeBatteryUpdated         Type = "battery.updated"
	TypeBatteryDeleted         Type = "battery.deleted"
	TypeHistoryAppended        Type = "history.appended"
	TypeRecommendationCreated  Type = "recommendation.created"
	TypeRecommendationResolved Type = "recommendation.resolved"
	TypeSimulationTick         Type = "simulation.tick"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	BatteryID uint      `json:"batteryId,omitempty"`
	At        time.Time `json:"at"`
	Data      any       `json:"data,omitempty"`
}

func New(eventType Type, batteryID uint, data any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		BatteryID: batteryID,
		At:        time.Now().UTC(),
		Data:      data,
	}
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi publishes to every sink and joins their errors; one failing sink
// does not stop the others.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps published events in memory, handy in tests and for debugging.
type Recorder struct {
	events chan Event
}

func NewRecorder(size int) *Recorder {
	return &Recorder{events: make(chan Event, size)}
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	select {
	case r.events <- event:
		return nil
	default:
		return errors.New("events: recorder is full")
	}
}

// Drain returns everything recorded so far.
func (r *Recorder) Drain() []Event {
	var out []Event
	for {
		select {
		case e := <-r.events:
			out = append(out, e)
		default:
			return out
		}
	}
}
