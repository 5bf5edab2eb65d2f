package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"likes_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// likeNotExists guards edge creation: the ordered pair must not exist yet.
// This condition is the single serialization point for concurrent likes.
const likeNotExists = "attribute_not_exists(fromUser) AND attribute_not_exists(toUser)"

// likeIsPending guards status transitions that only apply to pending edges.
const likeIsPending = "#status = :expectedStatus"

// upsertAcceptedExpr flips an edge to accepted, creating it if absent.
// createdAt and likeId survive when the edge already exists.
const upsertAcceptedExpr = "SET #status = :accepted, updatedAt = :now, " +
	"createdAt = if_not_exists(createdAt, :now), likeId = if_not_exists(likeId, :newId)"

// LikeStore persists like edges in the Likes table.
type LikeStore struct {
	Dynamo *DynamoService
}

var _ LikeRepository = (*LikeStore)(nil)

func likeKey(from, to string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"fromUser": &types.AttributeValueMemberS{Value: from},
		"toUser":   &types.AttributeValueMemberS{Value: to},
	}
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// CreateLike inserts the edge from->to with the given status. Fails with
// ErrDuplicateLike when the ordered pair already has an edge.
func (s *LikeStore) CreateLike(ctx context.Context, from, to, status string) (*models.Like, error) {
	now := nowStamp()
	like := &models.Like{
		LikeID:    uuid.NewString(),
		FromUser:  from,
		ToUser:    to,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Dynamo.PutItemWithCondition(ctx, models.LikesTable, like, likeNotExists); err != nil {
		return nil, err
	}
	return like, nil
}

// GetLike fetches the edge from->to, or nil when absent.
func (s *LikeStore) GetLike(ctx context.Context, from, to string) (*models.Like, error) {
	item, err := s.Dynamo.GetItem(ctx, models.LikesTable, likeKey(from, to))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var like models.Like
	if err := attributevalue.UnmarshalMap(item, &like); err != nil {
		return nil, fmt.Errorf("failed to unmarshal like: %w", err)
	}
	return &like, nil
}

// GetLikeByID resolves an edge by its opaque id through the likeId GSI.
func (s *LikeStore) GetLikeByID(ctx context.Context, likeID string) (*models.Like, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.LikesTable, models.LikeIDIndex,
		"likeId = :likeId",
		map[string]types.AttributeValue{
			":likeId": &types.AttributeValueMemberS{Value: likeID},
		}, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	var like models.Like
	if err := attributevalue.UnmarshalMap(items[0], &like); err != nil {
		return nil, fmt.Errorf("failed to unmarshal like: %w", err)
	}
	return &like, nil
}

// GetPendingReverse fetches the edge to->from if it exists with status
// pending, else nil.
func (s *LikeStore) GetPendingReverse(ctx context.Context, from, to string) (*models.Like, error) {
	reverse, err := s.GetLike(ctx, to, from)
	if err != nil {
		return nil, err
	}
	if reverse == nil || reverse.Status != models.StatusPending {
		return nil, nil
	}
	return reverse, nil
}

// SetStatus updates an edge's status and refreshes updatedAt, with no guard
// on the prior status.
func (s *LikeStore) SetStatus(ctx context.Context, from, to, status string) error {
	_, err := s.Dynamo.UpdateItem(ctx, models.LikesTable,
		"SET #status = :status, updatedAt = :now",
		likeKey(from, to),
		map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
			":now":    &types.AttributeValueMemberS{Value: nowStamp()},
		},
		map[string]string{"#status": "status"},
	)
	if err != nil {
		return fmt.Errorf("failed to set like status: %w", err)
	}
	return nil
}

// UpsertAccepted creates the edge from->to as accepted, or flips an existing
// edge to accepted. It is the standalone form of the mirror-edge write; the
// accept path bundles the same write into the AcceptLikePair transaction, so
// this is the repair entry point rather than a hot-path call.
func (s *LikeStore) UpsertAccepted(ctx context.Context, from, to string) error {
	_, err := s.Dynamo.UpdateItem(ctx, models.LikesTable,
		upsertAcceptedExpr,
		likeKey(from, to),
		upsertAcceptedValues(),
		map[string]string{"#status": "status"},
	)
	if err != nil {
		return fmt.Errorf("failed to upsert accepted like: %w", err)
	}
	return nil
}

func upsertAcceptedValues() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		":accepted": &types.AttributeValueMemberS{Value: models.StatusAccepted},
		":now":      &types.AttributeValueMemberS{Value: nowStamp()},
		":newId":    &types.AttributeValueMemberS{Value: uuid.NewString()},
	}
}

// acceptUpdate builds the transactional "flip this pending edge to accepted"
// write item.
func acceptUpdate(from, to string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(models.LikesTable),
			Key:                 likeKey(from, to),
			UpdateExpression:    aws.String("SET #status = :status, updatedAt = :now"),
			ConditionExpression: aws.String(likeIsPending),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":status":         &types.AttributeValueMemberS{Value: models.StatusAccepted},
				":expectedStatus": &types.AttributeValueMemberS{Value: models.StatusPending},
				":now":            &types.AttributeValueMemberS{Value: nowStamp()},
			},
		},
	}
}

// AcceptMatchPair materializes a match detected on the like path: the pending
// reverse edge flips to accepted and the forward edge is created as accepted,
// in one transaction. Fails with ErrLikeConflict when either side lost a race.
func (s *LikeStore) AcceptMatchPair(ctx context.Context, reverse *models.Like, from, to string) error {
	now := nowStamp()
	forward := models.Like{
		LikeID:    uuid.NewString(),
		FromUser:  from,
		ToUser:    to,
		Status:    models.StatusAccepted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	forwardItem, err := attributevalue.MarshalMap(forward)
	if err != nil {
		return fmt.Errorf("failed to marshal like: %w", err)
	}

	return s.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
		acceptUpdate(reverse.FromUser, reverse.ToUser),
		{
			Put: &types.Put{
				TableName:           aws.String(models.LikesTable),
				Item:                forwardItem,
				ConditionExpression: aws.String(likeNotExists),
			},
		},
	})
}

// AcceptMutualPending flips two existing pending edges to accepted in one
// transaction. Used when both directions were created concurrently and the
// mutual like is detected after the fact.
func (s *LikeStore) AcceptMutualPending(ctx context.Context, own, reverse *models.Like) error {
	return s.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
		acceptUpdate(own.FromUser, own.ToUser),
		acceptUpdate(reverse.FromUser, reverse.ToUser),
	})
}

// AcceptLikePair confirms a match on the accept path: the pending edge flips
// to accepted and its mirror is upserted as accepted, in one transaction.
func (s *LikeStore) AcceptLikePair(ctx context.Context, like *models.Like) error {
	return s.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
		acceptUpdate(like.FromUser, like.ToUser),
		{
			Update: &types.Update{
				TableName:                 aws.String(models.LikesTable),
				Key:                       likeKey(like.ToUser, like.FromUser),
				UpdateExpression:          aws.String(upsertAcceptedExpr),
				ExpressionAttributeNames:  map[string]string{"#status": "status"},
				ExpressionAttributeValues: upsertAcceptedValues(),
			},
		},
	})
}

// QueryIncomingPending lists pending edges addressed to user, newest first.
// Ordering comes from the toUser-index range key (createdAt).
func (s *LikeStore) QueryIncomingPending(ctx context.Context, user string) ([]models.Like, error) {
	items, err := s.Dynamo.QueryIndexWithOptions(ctx, models.LikesTable, models.ToUserIndex,
		"toUser = :toUser",
		"#status = :status",
		map[string]types.AttributeValue{
			":toUser": &types.AttributeValueMemberS{Value: user},
			":status": &types.AttributeValueMemberS{Value: models.StatusPending},
		},
		map[string]string{"#status": "status"},
		true,
	)
	if err != nil {
		return nil, err
	}
	return unmarshalLikes(items)
}

// QueryOutgoing lists all edges sent by user, newest first. The base table's
// range key is toUser, so pagination must be followed and ordering happens
// here.
func (s *LikeStore) QueryOutgoing(ctx context.Context, user string) ([]models.Like, error) {
	items, err := s.Dynamo.QueryItemsWithFilter(ctx, models.LikesTable, "",
		"fromUser = :fromUser", "",
		map[string]types.AttributeValue{
			":fromUser": &types.AttributeValueMemberS{Value: user},
		}, nil)
	if err != nil {
		return nil, err
	}

	likes, err := unmarshalLikes(items)
	if err != nil {
		return nil, err
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].CreatedAt > likes[j].CreatedAt })
	return likes, nil
}

// QueryAccepted lists accepted edges touching user in either direction,
// most recently updated first.
func (s *LikeStore) QueryAccepted(ctx context.Context, user string) ([]models.Like, error) {
	statusValues := func(key string) map[string]types.AttributeValue {
		return map[string]types.AttributeValue{
			key:       &types.AttributeValueMemberS{Value: user},
			":status": &types.AttributeValueMemberS{Value: models.StatusAccepted},
		}
	}

	outgoingItems, err := s.Dynamo.QueryItemsWithFilter(ctx, models.LikesTable, "",
		"fromUser = :fromUser", "#status = :status",
		statusValues(":fromUser"),
		map[string]string{"#status": "status"},
	)
	if err != nil {
		return nil, err
	}

	incomingItems, err := s.Dynamo.QueryItemsWithFilter(ctx, models.LikesTable, models.ToUserIndex,
		"toUser = :toUser", "#status = :status",
		statusValues(":toUser"),
		map[string]string{"#status": "status"},
	)
	if err != nil {
		return nil, err
	}

	likes, err := unmarshalLikes(append(outgoingItems, incomingItems...))
	if err != nil {
		return nil, err
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].UpdatedAt > likes[j].UpdatedAt })
	return likes, nil
}

// CountIncomingPending counts pending edges addressed to user.
func (s *LikeStore) CountIncomingPending(ctx context.Context, user string) (int, error) {
	return s.Dynamo.CountItems(ctx, models.LikesTable, models.ToUserIndex,
		"toUser = :toUser",
		"#status = :status",
		map[string]types.AttributeValue{
			":toUser": &types.AttributeValueMemberS{Value: user},
			":status": &types.AttributeValueMemberS{Value: models.StatusPending},
		},
		map[string]string{"#status": "status"},
	)
}

func unmarshalLikes(items []map[string]types.AttributeValue) ([]models.Like, error) {
	var likes []models.Like
	if err := attributevalue.UnmarshalListOfMaps(items, &likes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal likes: %w", err)
	}
	return likes, nil
}
