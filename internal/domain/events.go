// Package domain defines events for the event-driven architecture.
// Events replace the callback system and enable loose coupling between components.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Rotation events
	EventRotationStarted EventType = "rotation.started"
	EventSlideChanged    EventType = "rotation.slide_changed"
	EventRotationStopped EventType = "rotation.stopped"

	// Source events
	EventSourceLoaded EventType = "source.loaded"
	EventSourceFailed EventType = "source.failed"

	// Preference events
	EventRecentSourcesChanged EventType = "preferences.recent_sources_changed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// RotationStartedEvent is published when a rotator registers its repeating tick.
type RotationStartedEvent struct {
	baseEvent
	RunID   string
	Source  string
	Current SlideRef
	Total   int
}

// Type returns the event type.
func (e RotationStartedEvent) Type() EventType {
	return EventRotationStarted
}

// NewRotationStartedEvent creates a new RotationStartedEvent.
func NewRotationStartedEvent(runID, source string, current SlideRef, total int) RotationStartedEvent {
	return RotationStartedEvent{
		baseEvent: newBaseEvent(),
		RunID:     runID,
		Source:    source,
		Current:   current,
		Total:     total,
	}
}

// SlideChangedEvent is published after every rotation tick.
type SlideChangedEvent struct {
	baseEvent
	RunID    string
	Previous SlideRef
	Current  SlideRef
	Total    int
	Tick     uint64
}

// Type returns the event type.
func (e SlideChangedEvent) Type() EventType {
	return EventSlideChanged
}

// NewSlideChangedEvent creates a new SlideChangedEvent.
func NewSlideChangedEvent(runID string, previous, current SlideRef, total int, tick uint64) SlideChangedEvent {
	return SlideChangedEvent{
		baseEvent: newBaseEvent(),
		RunID:     runID,
		Previous:  previous,
		Current:   current,
		Total:     total,
		Tick:      tick,
	}
}

// RotationStoppedEvent is published when a rotator is disposed.
type RotationStoppedEvent struct {
	baseEvent
	RunID string
	Ticks uint64
}

// Type returns the event type.
func (e RotationStoppedEvent) Type() EventType {
	return EventRotationStopped
}

// NewRotationStoppedEvent creates a new RotationStoppedEvent.
func NewRotationStoppedEvent(runID string, ticks uint64) RotationStoppedEvent {
	return RotationStoppedEvent{
		baseEvent: newBaseEvent(),
		RunID:     runID,
		Ticks:     ticks,
	}
}

// SourceLoadedEvent is published when a new source replaces the running slideshow.
type SourceLoadedEvent struct {
	baseEvent
	Source string
	Name   string
	Slides []Slide
}

// Type returns the event type.
func (e SourceLoadedEvent) Type() EventType {
	return EventSourceLoaded
}

// NewSourceLoadedEvent creates a new SourceLoadedEvent.
func NewSourceLoadedEvent(source, name string, slides []Slide) SourceLoadedEvent {
	return SourceLoadedEvent{
		baseEvent: newBaseEvent(),
		Source:    source,
		Name:      name,
		Slides:    slides,
	}
}

// SourceFailedEvent is published when opening a source fails.
// The previously running slideshow, if any, keeps running.
type SourceFailedEvent struct {
	baseEvent
	Source string
	Error  error
}

// Type returns the event type.
func (e SourceFailedEvent) Type() EventType {
	return EventSourceFailed
}

// NewSourceFailedEvent creates a new SourceFailedEvent.
func NewSourceFailedEvent(source string, err error) SourceFailedEvent {
	return SourceFailedEvent{
		baseEvent: newBaseEvent(),
		Source:    source,
		Error:     err,
	}
}

// RecentSourcesChangedEvent is published when the recent source list changes.
type RecentSourcesChangedEvent struct {
	baseEvent
	Sources []string
}

// Type returns the event type.
func (e RecentSourcesChangedEvent) Type() EventType {
	return EventRecentSourcesChanged
}

// NewRecentSourcesChangedEvent creates a new RecentSourcesChangedEvent.
func NewRecentSourcesChangedEvent(sources []string) RecentSourcesChangedEvent {
	return RecentSourcesChangedEvent{
		baseEvent: newBaseEvent(),
		Sources:   sources,
	}
}
