package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"likes_server/models"
)

// LikeRepository is the storage contract the match engine and query service
// run against. LikeStore is the DynamoDB implementation.
type LikeRepository interface {
	CreateLike(ctx context.Context, from, to, status string) (*models.Like, error)
	GetLike(ctx context.Context, from, to string) (*models.Like, error)
	GetLikeByID(ctx context.Context, likeID string) (*models.Like, error)
	GetPendingReverse(ctx context.Context, from, to string) (*models.Like, error)
	SetStatus(ctx context.Context, from, to, status string) error
	UpsertAccepted(ctx context.Context, from, to string) error
	AcceptMatchPair(ctx context.Context, reverse *models.Like, from, to string) error
	AcceptMutualPending(ctx context.Context, own, reverse *models.Like) error
	AcceptLikePair(ctx context.Context, like *models.Like) error
	QueryIncomingPending(ctx context.Context, user string) ([]models.Like, error)
	QueryOutgoing(ctx context.Context, user string) ([]models.Like, error)
	QueryAccepted(ctx context.Context, user string) ([]models.Like, error)
	CountIncomingPending(ctx context.Context, user string) (int, error)
}

// ProfileGetter resolves user profiles. Returns (nil, nil) for unknown users.
type ProfileGetter interface {
	GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// LikeEventPublisher receives state transition events for fan-out. Publishing
// must not block the caller.
type LikeEventPublisher interface {
	Publish(event models.LikeEvent)
}

// LikeResult is the outcome of a like or accept action.
type LikeResult struct {
	IsMatch          bool
	AlreadyProcessed bool
	MatchedUser      *models.MatchedUser
}

// LikeService is the like/match state machine.
type LikeService struct {
	Store    LikeRepository
	Profiles ProfileGetter
	Events   LikeEventPublisher
}

// LikeUser records actor's like of target, detecting a mutual like and
// materializing the match when the reverse pending edge exists. Duplicate
// creations, including races, resolve into an idempotent success.
func (s *LikeService) LikeUser(ctx context.Context, actor, target string) (*LikeResult, error) {
	if actor == target {
		return nil, ErrSelfLike
	}

	targetProfile, err := s.Profiles.GetUserProfile(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch target profile: %w", err)
	}
	if targetProfile == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.Store.GetLike(ctx, actor, target)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.alreadyLiked(existing, targetProfile), nil
	}

	reverse, err := s.Store.GetPendingReverse(ctx, actor, target)
	if err != nil {
		return nil, err
	}

	if reverse != nil {
		return s.likeWithMatch(ctx, actor, target, reverse, targetProfile)
	}
	return s.likePending(ctx, actor, target, targetProfile)
}

// likeWithMatch handles the mutual case: flip the reverse edge and create the
// forward edge accepted, in one transaction.
func (s *LikeService) likeWithMatch(ctx context.Context, actor, target string, reverse *models.Like, targetProfile *models.UserProfile) (*LikeResult, error) {
	err := s.Store.AcceptMatchPair(ctx, reverse, actor, target)
	if err != nil {
		if errors.Is(err, ErrLikeConflict) || errors.Is(err, ErrDuplicateLike) {
			// a concurrent like or accept got there first; settle on the
			// state that won
			return s.settleExisting(ctx, actor, target, targetProfile)
		}
		return nil, err
	}

	log.Printf("[likes] MATCH! Users %s and %s", actor, target)
	s.Events.Publish(models.LikeEvent{Kind: models.EventNewMatch, ActorID: actor, TargetID: target})

	return &LikeResult{IsMatch: true, MatchedUser: matchedUserFromProfile(targetProfile)}, nil
}

// likePending handles the one-sided case: create the forward edge as pending,
// then re-check the reverse direction so two opposite likes racing past each
// other's first read still converge on a match.
func (s *LikeService) likePending(ctx context.Context, actor, target string, targetProfile *models.UserProfile) (*LikeResult, error) {
	own, err := s.Store.CreateLike(ctx, actor, target, models.StatusPending)
	if err != nil {
		if errors.Is(err, ErrDuplicateLike) {
			return s.settleExisting(ctx, actor, target, targetProfile)
		}
		return nil, err
	}

	reverse, err := s.Store.GetPendingReverse(ctx, actor, target)
	if err != nil {
		return nil, err
	}
	if reverse != nil {
		if err := s.Store.AcceptMutualPending(ctx, own, reverse); err != nil {
			if errors.Is(err, ErrLikeConflict) {
				return s.settleExisting(ctx, actor, target, targetProfile)
			}
			return nil, err
		}

		log.Printf("[likes] MATCH! Users %s and %s", actor, target)
		s.Events.Publish(models.LikeEvent{Kind: models.EventNewMatch, ActorID: actor, TargetID: target})
		return &LikeResult{IsMatch: true, MatchedUser: matchedUserFromProfile(targetProfile)}, nil
	}

	log.Printf("[likes] User %s liked user %s", actor, target)
	s.Events.Publish(models.LikeEvent{Kind: models.EventNewLike, ActorID: actor, TargetID: target})
	return &LikeResult{IsMatch: false}, nil
}

// settleExisting re-reads the forward edge after losing a race and returns
// its state idempotently. If even the re-read finds nothing (the racer was a
// conflicting transaction, not a duplicate create), the like is retried once
// as a plain pending edge.
func (s *LikeService) settleExisting(ctx context.Context, actor, target string, targetProfile *models.UserProfile) (*LikeResult, error) {
	own, err := s.Store.GetLike(ctx, actor, target)
	if err != nil {
		return nil, err
	}
	if own != nil {
		return s.alreadyLiked(own, targetProfile), nil
	}

	own, err = s.Store.CreateLike(ctx, actor, target, models.StatusPending)
	if errors.Is(err, ErrDuplicateLike) {
		own, err = s.Store.GetLike(ctx, actor, target)
		if err == nil && own == nil {
			err = fmt.Errorf("like %s->%s vanished after duplicate create", actor, target)
		}
		if err != nil {
			return nil, err
		}
		return s.alreadyLiked(own, targetProfile), nil
	}
	if err != nil {
		return nil, err
	}

	s.Events.Publish(models.LikeEvent{Kind: models.EventNewLike, ActorID: actor, TargetID: target})
	return &LikeResult{IsMatch: false}, nil
}

func (s *LikeService) alreadyLiked(like *models.Like, targetProfile *models.UserProfile) *LikeResult {
	result := &LikeResult{
		IsMatch:          like.IsAccepted(),
		AlreadyProcessed: true,
	}
	if result.IsMatch {
		result.MatchedUser = matchedUserFromProfile(targetProfile)
	}
	return result
}

// AcceptLike accepts the pending like identified by likeID on behalf of
// actingUser, materializing the mirror edge in the same transaction. A
// non-pending edge is an idempotent no-op, which also makes accept-after-
// reject safe.
func (s *LikeService) AcceptLike(ctx context.Context, actingUser, likeID string) (*LikeResult, error) {
	like, err := s.Store.GetLikeByID(ctx, likeID)
	if err != nil {
		return nil, err
	}
	if like == nil {
		return nil, ErrLikeNotFound
	}
	if like.ToUser != actingUser {
		return nil, ErrForbidden
	}
	if like.Status != models.StatusPending {
		return &LikeResult{AlreadyProcessed: true, IsMatch: like.IsAccepted()}, nil
	}

	if err := s.Store.AcceptLikePair(ctx, like); err != nil {
		if errors.Is(err, ErrLikeConflict) {
			// someone else moved the edge first; report it as processed
			return &LikeResult{AlreadyProcessed: true}, nil
		}
		return nil, err
	}

	log.Printf("[likes] User %s accepted like from %s", actingUser, like.FromUser)
	s.Events.Publish(models.LikeEvent{Kind: models.EventLikeAccepted, ActorID: actingUser, TargetID: like.FromUser})

	matched, err := s.Profiles.GetUserProfile(ctx, like.FromUser)
	if err != nil {
		log.Printf("[likes] failed to fetch matched profile %s: %v", like.FromUser, err)
	}
	return &LikeResult{IsMatch: true, MatchedUser: matchedUserFromProfile(matched)}, nil
}

// RejectLike rejects the like identified by likeID on behalf of actingUser.
// There is no status guard: re-rejecting is idempotent by construction, and
// rejection emits no notification.
func (s *LikeService) RejectLike(ctx context.Context, actingUser, likeID string) error {
	like, err := s.Store.GetLikeByID(ctx, likeID)
	if err != nil {
		return err
	}
	if like == nil {
		return ErrLikeNotFound
	}
	if like.ToUser != actingUser {
		return ErrForbidden
	}

	if err := s.Store.SetStatus(ctx, like.FromUser, like.ToUser, models.StatusRejected); err != nil {
		return err
	}

	log.Printf("[likes] User %s rejected like from %s", actingUser, like.FromUser)
	return nil
}

func matchedUserFromProfile(profile *models.UserProfile) *models.MatchedUser {
	if profile == nil {
		return nil
	}
	return &models.MatchedUser{
		UserID: profile.UserID,
		Name:   profile.Name,
		Photo:  profile.FirstPhotoKey(),
	}
}
