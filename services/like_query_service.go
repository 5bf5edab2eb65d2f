package services

import (
	"context"
	"log"

	"likes_server/models"
)

// PhotoSigner produces time-limited URLs for photo keys. S3Service is the
// presigning implementation.
type PhotoSigner interface {
	SignedPhotoURL(ctx context.Context, key string) (string, error)
}

// LikeQueryService serves the read-only projections over the likes store,
// enriched with profile data. Entries whose referenced user no longer
// resolves are dropped.
type LikeQueryService struct {
	Store    LikeRepository
	Profiles ProfileGetter
	Photos   PhotoSigner
}

// IncomingLikes lists pending likes addressed to user, newest first, with
// the sender's profile and a signed photo URL.
func (s *LikeQueryService) IncomingLikes(ctx context.Context, user string) ([]models.IncomingLike, error) {
	likes, err := s.Store.QueryIncomingPending(ctx, user)
	if err != nil {
		return nil, err
	}

	result := make([]models.IncomingLike, 0, len(likes))
	for _, like := range likes {
		summary := s.profileSummary(ctx, like.FromUser, true)
		if summary == nil {
			continue
		}
		result = append(result, models.IncomingLike{
			LikeID:    like.LikeID,
			FromUser:  summary,
			CreatedAt: like.CreatedAt,
		})
	}

	log.Printf("[likes] IncomingLikes for user %s: found %d", user, len(result))
	return result, nil
}

// OutgoingLikes lists likes sent by user in any status, newest first.
func (s *LikeQueryService) OutgoingLikes(ctx context.Context, user string) ([]models.OutgoingLike, error) {
	likes, err := s.Store.QueryOutgoing(ctx, user)
	if err != nil {
		return nil, err
	}

	result := make([]models.OutgoingLike, 0, len(likes))
	for _, like := range likes {
		summary := s.profileSummary(ctx, like.ToUser, false)
		if summary == nil {
			continue
		}
		result = append(result, models.OutgoingLike{
			LikeID:    like.LikeID,
			ToUser:    summary,
			Status:    like.Status,
			CreatedAt: like.CreatedAt,
		})
	}

	log.Printf("[likes] OutgoingLikes for user %s: found %d", user, len(result))
	return result, nil
}

// Matches lists accepted edges touching user, most recently matched first,
// enriched with the counterpart's profile. Both directions of a match carry
// the same accepted status, so each pair surfaces through the edges the
// queries return for this user.
func (s *LikeQueryService) Matches(ctx context.Context, user string) ([]models.MatchEntry, error) {
	likes, err := s.Store.QueryAccepted(ctx, user)
	if err != nil {
		return nil, err
	}

	result := make([]models.MatchEntry, 0, len(likes))
	seen := make(map[string]bool)
	for _, like := range likes {
		otherID := like.ToUser
		if like.ToUser == user {
			otherID = like.FromUser
		}
		if seen[otherID] {
			continue
		}

		summary := s.profileSummary(ctx, otherID, false)
		if summary == nil {
			continue
		}
		seen[otherID] = true
		result = append(result, models.MatchEntry{
			LikeID:    like.LikeID,
			OtherUser: summary,
			MatchedAt: like.UpdatedAt,
		})
	}

	log.Printf("[likes] Matches for user %s: found %d", user, len(result))
	return result, nil
}

// PendingIncomingCount counts pending likes addressed to user.
func (s *LikeQueryService) PendingIncomingCount(ctx context.Context, user string) (int, error) {
	return s.Store.CountIncomingPending(ctx, user)
}

// profileSummary resolves a user into the listing shape, or nil when the
// profile is gone. signPhoto swaps the raw photo key for a presigned URL.
func (s *LikeQueryService) profileSummary(ctx context.Context, userID string, signPhoto bool) *models.LikeUserSummary {
	profile, err := s.Profiles.GetUserProfile(ctx, userID)
	if err != nil {
		log.Printf("[likes] failed to fetch profile %s: %v", userID, err)
		return nil
	}
	if profile == nil {
		return nil
	}

	photo := profile.FirstPhotoKey()
	if signPhoto && photo != "" {
		signed, err := s.Photos.SignedPhotoURL(ctx, photo)
		if err != nil {
			log.Printf("[likes] failed to sign photo for %s: %v", userID, err)
			photo = ""
		} else {
			photo = signed
		}
	}

	return &models.LikeUserSummary{
		UserID:       profile.UserID,
		Name:         profile.Name,
		Age:          profile.Age,
		Photo:        photo,
		UserLocation: profile.UserLocation,
		IsOnline:     profile.IsOnline,
	}
}
