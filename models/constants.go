package models

// Like statuses
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Transition event kinds handed to the notification dispatcher
const (
	EventNewLike      = "new_like"       // pending edge created
	EventNewMatch     = "new_match"      // match detected on the like path
	EventLikeAccepted = "like_accepted"  // match confirmed on the accept path
)

// RealtimeNewLike is the socket event name both like and match fan-outs use
const RealtimeNewLike = "new_like"

// LikeEvent is a state transition published by the match engine.
type LikeEvent struct {
	Kind     string
	ActorID  string
	TargetID string
}
