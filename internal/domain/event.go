package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

type EventKind string

const (
	EventNewsDeleted EventKind = "news:deleted"
	EventNewsPaused  EventKind = "news:paused"
	EventNewsUpdated EventKind = "news:updated"

	// EventResync is raised locally by the channel after a reconnect. Events
	// are not buffered across a gap, so receivers must refetch.
	EventResync EventKind = "channel:resync"
)

var (
	ErrUnknownEvent   = errors.New("unknown event")
	ErrMalformedEvent = errors.New("malformed event payload")
)

// Event is a validated server push event. The concrete type identifies the
// kind: NewsDeleted, NewsPaused, NewsUpdated or Resync.
type Event interface {
	Kind() EventKind
}

type NewsDeleted struct {
	ID int64
}

func (NewsDeleted) Kind() EventKind { return EventNewsDeleted }

type NewsPaused struct {
	ID       int64
	IsPaused bool
}

func (NewsPaused) Kind() EventKind { return EventNewsPaused }

// NewsUpdated carries only the fields that changed, as raw JSON keyed by
// the server's field names.
type NewsUpdated struct {
	ID     int64
	Fields map[string]json.RawMessage
}

func (NewsUpdated) Kind() EventKind { return EventNewsUpdated }

type Resync struct{}

func (Resync) Kind() EventKind { return EventResync }

// DecodeEvent validates a named payload received from the channel.
func DecodeEvent(name string, payload []byte) (Event, error) {
	switch EventKind(name) {
	case EventNewsDeleted:
		var p struct {
			ID *int64 `json:"id"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, name, err)
		}
		if p.ID == nil || *p.ID == 0 {
			return nil, fmt.Errorf("%w: %s: missing id", ErrMalformedEvent, name)
		}
		return NewsDeleted{ID: *p.ID}, nil

	case EventNewsPaused:
		var p struct {
			ID       *int64 `json:"id"`
			IsPaused *bool  `json:"isPaused"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, name, err)
		}
		if p.ID == nil || *p.ID == 0 || p.IsPaused == nil {
			return nil, fmt.Errorf("%w: %s: missing id or isPaused", ErrMalformedEvent, name)
		}
		return NewsPaused{ID: *p.ID, IsPaused: *p.IsPaused}, nil

	case EventNewsUpdated:
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, name, err)
		}
		var id int64
		if raw, ok := fields["id"]; ok {
			if err := json.Unmarshal(raw, &id); err != nil {
				return nil, fmt.Errorf("%w: %s: id: %v", ErrMalformedEvent, name, err)
			}
		}
		if id == 0 {
			return nil, fmt.Errorf("%w: %s: missing id", ErrMalformedEvent, name)
		}
		delete(fields, "id")
		return NewsUpdated{ID: id, Fields: fields}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
}
