package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/talk-back/api-go/config"
	"github.com/talk-back/api-go/routes"
	"github.com/talk-back/api-go/scheduler"
	"github.com/talk-back/api-go/services"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Initialize database
	db := config.InitDB()

	// Job store lives in its own sqlite file so pending AI replies survive restarts
	store, err := scheduler.OpenStore(context.Background(), config.JobStorePath())
	if err != nil {
		log.Fatal("Failed to open job store:", err)
	}
	defer store.Close()

	sched := scheduler.New(store, time.Second)
	sched.Handle(services.JobKindAIReply, services.NewAIReplyHandler(db, services.NewLLMClient()))
	sched.Start()

	// Create a new Gin router
	r := gin.Default()
	r.Use(gin.LoggerWithWriter(os.Stdout))

	routes.SetupRoutes(r, db, sched)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Println("Server shutdown error:", err)
	}

	// Drain in-flight jobs; unclaimed ones stay in the store for next start
	sched.Stop()
}
