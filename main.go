package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"likes_server/controllers"
	"likes_server/middleware"
	"likes_server/routes"
	"likes_server/services"
	"likes_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	s3Service, err := services.NewS3Service(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}

	// Realtime transport
	socketServer := socket.NewServer()
	go func() {
		if err := socketServer.IO().Serve(); err != nil {
			log.Printf("Socket.IO serve error: %v", err)
		}
	}()
	defer socketServer.IO().Close()

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	likeStore := &services.LikeStore{Dynamo: dynamoService}
	pushService := &services.PushService{
		Dynamo:   dynamoService,
		Photos:   s3Service,
		Provider: services.LogPushProvider{},
	}

	dispatcher := services.NewNotificationDispatcher(userProfileService, pushService, socketServer, 256)
	dispatcher.Start()
	defer dispatcher.Shutdown()

	likeService := &services.LikeService{
		Store:    likeStore,
		Profiles: userProfileService,
		Events:   dispatcher,
	}
	queryService := &services.LikeQueryService{
		Store:    likeStore,
		Profiles: userProfileService,
		Photos:   s3Service,
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "7000"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()
	routes.RegisterRoutes(r)
	routes.RegisterLikesRoutes(r,
		controllers.NewLikesController(likeService, queryService),
		middleware.HeaderIdentityResolver{},
	)
	r.Handle("/socket.io/", socketServer.IO())

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-User-Id"},
		AllowCredentials: true,
	}).Handler(r)

	server := &http.Server{
		Addr:    ":" + port,
		Handler: corsHandler,
	}

	go func() {
		log.Printf("Starting server on port %s...\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM; in-flight requests and queued
	// notifications drain before exit.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
