package service

import "context"

// EventPublisher fans booking lifecycle events out to downstream consumers
// (notifications, calendar mirroring). Fire-and-forget: a nil publisher or a
// publish failure never fails the request.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// SlotCache is a short-TTL cache for computed availability. A nil cache
// disables caching; writes to bookings or reservations must invalidate the
// affected event type.
type SlotCache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
	InvalidateEventType(ctx context.Context, eventTypeID uint)
}
