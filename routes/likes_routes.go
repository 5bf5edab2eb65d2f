package routes

import (
	"likes_server/controllers"
	"likes_server/middleware"

	"github.com/gorilla/mux"
)

// RegisterLikesRoutes sets up the likes endpoints under /likes, all behind
// the auth middleware.
func RegisterLikesRoutes(r *mux.Router, controller *controllers.LikesController, resolver middleware.IdentityResolver) {
	likesRouter := r.PathPrefix("/likes").Subrouter()
	likesRouter.Use(middleware.AuthRequired(resolver))

	likesRouter.HandleFunc("/incoming", controller.GetIncomingLikes).Methods("GET")
	likesRouter.HandleFunc("/outgoing", controller.GetOutgoingLikes).Methods("GET")
	likesRouter.HandleFunc("/matches", controller.GetMatches).Methods("GET")
	likesRouter.HandleFunc("/count", controller.GetLikesCount).Methods("GET")
	likesRouter.HandleFunc("/{userId}", controller.LikeUser).Methods("POST")
	likesRouter.HandleFunc("/{likeId}/accept", controller.AcceptLike).Methods("POST")
	likesRouter.HandleFunc("/{likeId}/reject", controller.RejectLike).Methods("POST")
}
