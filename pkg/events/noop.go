package events

import "context"

// NoopPublisher отбрасывает события (events.driver = "none")
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

func (NoopPublisher) Close() error { return nil }
