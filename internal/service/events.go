package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventDeviceRegistered EventType = "device_registered"
	EventDevicesEvicted   EventType = "devices_evicted"
)

// Event represents an event that occurred in the system. NetworkKey scopes
// the event to the network it happened on and is never serialized.
type Event struct {
	Type       EventType   `json:"type"`
	NetworkKey string      `json:"-"`
	Payload    interface{} `json:"payload,omitempty"`
}

// EvictedPayload describes devices removed from a network's store
type EvictedPayload struct {
	Count int `json:"count"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
