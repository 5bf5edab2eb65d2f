package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"likes_server/helpers"
	"likes_server/middleware"
	"likes_server/models"
	"likes_server/services"

	"github.com/gorilla/mux"
)

// LikeActions is the write surface of the match engine the controller needs.
type LikeActions interface {
	LikeUser(ctx context.Context, actor, target string) (*services.LikeResult, error)
	AcceptLike(ctx context.Context, actingUser, likeID string) (*services.LikeResult, error)
	RejectLike(ctx context.Context, actingUser, likeID string) error
}

// LikeQueries is the read surface backing the listing endpoints.
type LikeQueries interface {
	IncomingLikes(ctx context.Context, user string) ([]models.IncomingLike, error)
	OutgoingLikes(ctx context.Context, user string) ([]models.OutgoingLike, error)
	Matches(ctx context.Context, user string) ([]models.MatchEntry, error)
	PendingIncomingCount(ctx context.Context, user string) (int, error)
}

// LikesController handles HTTP requests for the likes endpoints
type LikesController struct {
	Likes   LikeActions
	Queries LikeQueries
}

// NewLikesController creates a new LikesController instance
func NewLikesController(likes LikeActions, queries LikeQueries) *LikesController {
	return &LikesController{Likes: likes, Queries: queries}
}

// GetIncomingLikes handles GET /likes/incoming
func (lc *LikesController) GetIncomingLikes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	likes, err := lc.Queries.IncomingLikes(r.Context(), userID)
	if err != nil {
		lc.serverError(w, "GetIncomingLikes", err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"likes": likes})
}

// GetOutgoingLikes handles GET /likes/outgoing
func (lc *LikesController) GetOutgoingLikes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	likes, err := lc.Queries.OutgoingLikes(r.Context(), userID)
	if err != nil {
		lc.serverError(w, "GetOutgoingLikes", err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"likes": likes})
}

// GetMatches handles GET /likes/matches
func (lc *LikesController) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matches, err := lc.Queries.Matches(r.Context(), userID)
	if err != nil {
		lc.serverError(w, "GetMatches", err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// GetLikesCount handles GET /likes/count
func (lc *LikesController) GetLikesCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	count, err := lc.Queries.PendingIncomingCount(r.Context(), userID)
	if err != nil {
		lc.serverError(w, "GetLikesCount", err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]int{"count": count})
}

// LikeUser handles POST /likes/{userId}
func (lc *LikesController) LikeUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID := mux.Vars(r)["userId"]
	if targetID == "" {
		helpers.WriteErrorResponse(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	result, err := lc.Likes.LikeUser(r.Context(), userID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfLike):
			helpers.WriteErrorResponse(w, http.StatusBadRequest, "Cannot like yourself")
		case errors.Is(err, services.ErrUserNotFound):
			helpers.WriteErrorResponse(w, http.StatusNotFound, "User not found")
		default:
			lc.serverError(w, "LikeUser", err)
		}
		return
	}

	if result.AlreadyProcessed {
		helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Already liked",
			"isMatch": result.IsMatch,
		})
		return
	}

	helpers.WriteJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"isMatch":     result.IsMatch,
		"matchedUser": matchedUserOrNil(result),
	})
}

// AcceptLike handles POST /likes/{likeId}/accept
func (lc *LikesController) AcceptLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	likeID := mux.Vars(r)["likeId"]
	result, err := lc.Likes.AcceptLike(r.Context(), userID, likeID)
	if err != nil {
		lc.writeLikeActionError(w, "AcceptLike", err)
		return
	}

	if result.AlreadyProcessed {
		helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Already processed",
		})
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"isMatch":     true,
		"matchedUser": matchedUserOrNil(result),
	})
}

// RejectLike handles POST /likes/{likeId}/reject
func (lc *LikesController) RejectLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	likeID := mux.Vars(r)["likeId"]
	if err := lc.Likes.RejectLike(r.Context(), userID, likeID); err != nil {
		lc.writeLikeActionError(w, "RejectLike", err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (lc *LikesController) writeLikeActionError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, services.ErrLikeNotFound):
		helpers.WriteErrorResponse(w, http.StatusNotFound, "Like not found")
	case errors.Is(err, services.ErrForbidden):
		helpers.WriteErrorResponse(w, http.StatusForbidden, "Forbidden")
	default:
		lc.serverError(w, operation, err)
	}
}

func (lc *LikesController) serverError(w http.ResponseWriter, operation string, err error) {
	log.Printf("[likes] %s error: %v", operation, err)
	helpers.WriteErrorResponse(w, http.StatusInternalServerError, "Server error")
}

func matchedUserOrNil(result *services.LikeResult) interface{} {
	if result.MatchedUser == nil {
		return nil
	}
	return result.MatchedUser
}
