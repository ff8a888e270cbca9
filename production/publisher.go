package production

import (
	scxml "github.com/arcstate/scxml"
)

// PublishedEvent bundles an Event with its machine metadata for forwarding
// onto a channel.
type PublishedEvent struct {
	Event scxml.Event
	Meta  scxml.EventMeta
}

// ChannelPublisher forwards every processed event onto a Go channel,
// dropping on backpressure rather than blocking the interpreter.
type ChannelPublisher struct {
	ch chan<- PublishedEvent
}

// NewChannelPublisher wraps an output channel as a scxml.Publisher.
func NewChannelPublisher(ch chan<- PublishedEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(event scxml.Event, meta scxml.EventMeta) error {
	select {
	case p.ch <- PublishedEvent{Event: event, Meta: meta}:
	default:
	}
	return nil
}
