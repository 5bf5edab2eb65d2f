package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"likes_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PushProvider is the external delivery collaborator (FCM/APNs multicast).
// It returns the tokens the provider reported as no longer registered.
type PushProvider interface {
	Send(ctx context.Context, tokens []string, notification models.PushNotification) (invalidTokens []string, err error)
}

// LogPushProvider is the no-op provider used when no push backend is
// configured; it only logs what would have been sent.
type LogPushProvider struct{}

func (LogPushProvider) Send(_ context.Context, tokens []string, notification models.PushNotification) ([]string, error) {
	log.Printf("[likes] push provider not configured, skipping %q for %d tokens", notification.Title, len(tokens))
	return nil, nil
}

// PushService resolves a recipient's active device tokens, builds the
// new-like payload and hands delivery to the provider. Tokens the provider
// reports invalid are deactivated in batch.
type PushService struct {
	Dynamo   *DynamoService
	Photos   PhotoSigner
	Provider PushProvider
}

// SendNewLikeNotification notifies recipientID that liker liked them.
func (ps *PushService) SendNewLikeNotification(ctx context.Context, recipientID string, liker *models.UserProfile) error {
	tokens, err := ps.activeTokens(ctx, recipientID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		log.Printf("[likes] no active device tokens for user %s", recipientID)
		return nil
	}

	photoURL := ""
	if key := liker.FirstPhotoKey(); key != "" {
		photoURL, err = ps.Photos.SignedPhotoURL(ctx, key)
		if err != nil {
			log.Printf("[likes] failed to sign liker photo: %v", err)
			photoURL = ""
		}
	}

	notification := models.PushNotification{
		Title: "Новый лайк ❤️",
		Body:  "Тебе кто-то поставил лайк",
		Data: map[string]string{
			"type":       models.EventNewLike,
			"likerId":    liker.UserID,
			"likerName":  liker.Name,
			"likerPhoto": photoURL,
		},
	}

	fcmTokens := make([]string, len(tokens))
	for i, t := range tokens {
		fcmTokens[i] = t.FCMToken
	}

	invalid, err := ps.Provider.Send(ctx, fcmTokens, notification)
	if err != nil {
		return fmt.Errorf("push delivery failed: %w", err)
	}

	if len(invalid) > 0 {
		if err := ps.deactivateTokens(ctx, tokens, invalid); err != nil {
			log.Printf("[likes] failed to deactivate invalid tokens: %v", err)
		} else {
			log.Printf("[likes] deactivated %d invalid tokens for user %s", len(invalid), recipientID)
		}
	}
	return nil
}

// activeTokens lists the recipient's active device tokens via the userId GSI.
func (ps *PushService) activeTokens(ctx context.Context, userID string) ([]models.DeviceToken, error) {
	items, err := ps.Dynamo.QueryItemsWithFilter(ctx, models.DeviceTokensTable, models.UserIDIndex,
		"userId = :userId",
		"isActive = :active",
		map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
			":active": &types.AttributeValueMemberBOOL{Value: true},
		}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device tokens: %w", err)
	}

	var tokens []models.DeviceToken
	if err := attributevalue.UnmarshalListOfMaps(items, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal device tokens: %w", err)
	}
	return tokens, nil
}

// deactivateTokens flags the listed tokens inactive with one batch write.
func (ps *PushService) deactivateTokens(ctx context.Context, tokens []models.DeviceToken, invalid []string) error {
	invalidSet := make(map[string]bool, len(invalid))
	for _, t := range invalid {
		invalidSet[t] = true
	}

	var requests []types.WriteRequest
	now := time.Now().UTC().Format(time.RFC3339)
	for _, token := range tokens {
		if !invalidSet[token.FCMToken] {
			continue
		}
		token.IsActive = false
		token.UpdatedAt = now

		item, err := attributevalue.MarshalMap(token)
		if err != nil {
			return fmt.Errorf("failed to marshal device token: %w", err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}
	if len(requests) == 0 {
		return nil
	}
	return ps.Dynamo.BatchWriteItems(ctx, models.DeviceTokensTable, requests)
}
