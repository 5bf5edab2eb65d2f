package models

// View models returned by the likes query endpoints. Field names follow the
// wire contract the mobile clients already consume.

// LikeUserSummary is the enriched counterpart shown in like/match listings.
type LikeUserSummary struct {
	UserID       string `json:"_id"`
	Name         string `json:"name,omitempty"`
	Age          int    `json:"age,omitempty"`
	Photo        string `json:"photo,omitempty"`
	UserLocation string `json:"userLocation,omitempty"`
	IsOnline     bool   `json:"isOnline"`
}

// IncomingLike is one entry of GET /likes/incoming.
type IncomingLike struct {
	LikeID    string           `json:"_id"`
	FromUser  *LikeUserSummary `json:"fromUser"`
	CreatedAt string           `json:"createdAt"`
}

// OutgoingLike is one entry of GET /likes/outgoing.
type OutgoingLike struct {
	LikeID    string           `json:"_id"`
	ToUser    *LikeUserSummary `json:"toUser"`
	Status    string           `json:"status"`
	CreatedAt string           `json:"createdAt"`
}

// MatchEntry is one entry of GET /likes/matches.
type MatchEntry struct {
	LikeID    string           `json:"_id"`
	OtherUser *LikeUserSummary `json:"otherUser"`
	MatchedAt string           `json:"matchedAt"`
}

// MatchedUser is the counterpart payload returned by like/accept responses.
type MatchedUser struct {
	UserID string `json:"_id"`
	Name   string `json:"name,omitempty"`
	Photo  string `json:"photo,omitempty"`
}
