package services

import (
	"context"
	"log"
	"sync"
	"time"

	"likes_server/models"
)

// PushSender delivers a push-style "new like" notification. PushService is
// the device-token implementation; delivery itself belongs to the provider.
type PushSender interface {
	SendNewLikeNotification(ctx context.Context, recipientID string, liker *models.UserProfile) error
}

// RealtimeEmitter pushes an event onto a user's realtime channel.
type RealtimeEmitter interface {
	EmitToUser(userID, event string, payload interface{})
}

// realtimeLikePayload is the socket payload both like and match events carry.
type realtimeLikePayload struct {
	FromUser struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	} `json:"fromUser"`
	IsMatch bool `json:"isMatch"`
}

// NotificationDispatcher fans out like/match transitions to the push and
// realtime collaborators. It is detached from the triggering request: events
// go through a buffered channel drained by a single supervised worker, and
// delivery failures are logged, never surfaced.
type NotificationDispatcher struct {
	Profiles ProfileGetter
	Push     PushSender
	Realtime RealtimeEmitter

	// Timeout bounds one fan-out; zero means a minute.
	Timeout time.Duration

	events chan models.LikeEvent
	wg     sync.WaitGroup
	once   sync.Once

	mu     sync.Mutex
	closed bool
}

// NewNotificationDispatcher builds a dispatcher with the given event buffer.
func NewNotificationDispatcher(profiles ProfileGetter, push PushSender, realtime RealtimeEmitter, buffer int) *NotificationDispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	return &NotificationDispatcher{
		Profiles: profiles,
		Push:     push,
		Realtime: realtime,
		events:   make(chan models.LikeEvent, buffer),
	}
}

// Start launches the dispatch worker.
func (d *NotificationDispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for event := range d.events {
			d.dispatch(event)
		}
	}()
}

// Shutdown stops accepting events and drains the ones already queued.
func (d *NotificationDispatcher) Shutdown() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.events)
		d.mu.Unlock()
	})
	d.wg.Wait()
}

// Publish queues a transition event without blocking. Events hitting a full
// buffer or a stopped dispatcher are dropped with a log line; the like itself
// already committed and the collaborators own any retry semantics.
func (d *NotificationDispatcher) Publish(event models.LikeEvent) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		log.Printf("[likes] dispatcher stopped, dropping %s for user %s", event.Kind, event.TargetID)
		return
	}
	select {
	case d.events <- event:
		d.mu.Unlock()
	default:
		d.mu.Unlock()
		log.Printf("[likes] notification buffer full, dropping %s for user %s", event.Kind, event.TargetID)
	}
}

func (d *NotificationDispatcher) dispatch(event models.LikeEvent) {
	timeout := d.Timeout
	if timeout == 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	actor, err := d.Profiles.GetUserProfile(ctx, event.ActorID)
	if err != nil {
		log.Printf("[likes] notification fan-out: failed to fetch actor %s: %v", event.ActorID, err)
	}
	if actor == nil {
		actor = &models.UserProfile{UserID: event.ActorID}
	}

	// accepted matches emit realtime only; the like path also pushes
	if event.Kind != models.EventLikeAccepted {
		if err := d.Push.SendNewLikeNotification(ctx, event.TargetID, actor); err != nil {
			log.Printf("[likes] push notification error: %v", err)
		}
	}

	payload := realtimeLikePayload{IsMatch: event.Kind != models.EventNewLike}
	payload.FromUser.ID = actor.UserID
	payload.FromUser.Name = actor.Name
	d.Realtime.EmitToUser(event.TargetID, models.RealtimeNewLike, payload)
}
