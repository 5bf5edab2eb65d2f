package models

// Like is a directed like edge from one user to another. The table's
// composite primary key (fromUser HASH, toUser RANGE) guarantees at most one
// edge per ordered pair; creation goes through a conditional put, never a
// check-then-insert.
type Like struct {
	LikeID    string `dynamodbav:"likeId" json:"_id"`
	FromUser  string `dynamodbav:"fromUser" json:"fromUser"`
	ToUser    string `dynamodbav:"toUser" json:"toUser"`
	Status    string `dynamodbav:"status" json:"status"` // pending, accepted, rejected
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// IsAccepted reports whether this edge witnesses a match. Accepted edges are
// always written together with their mirror, so either side alone is enough.
func (l *Like) IsAccepted() bool {
	return l.Status == StatusAccepted
}

// LikesTable is the DynamoDB table name for like edges
const LikesTable = "Likes"

// LikeIDIndex resolves an edge by its opaque id (accept/reject paths)
const LikeIDIndex = "likeId-index"

// ToUserIndex serves incoming-like queries (HASH toUser, RANGE createdAt)
const ToUserIndex = "toUser-index"
