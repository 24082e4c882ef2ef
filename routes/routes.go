package routes

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/talk-back/api-go/controllers"
	"github.com/talk-back/api-go/middleware"
	"github.com/talk-back/api-go/scheduler"
	"github.com/talk-back/api-go/services"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, sched scheduler.JobScheduler) {
	var profanityWords []string
	if v := os.Getenv("PROFANITY_WORDS"); v != "" {
		profanityWords = strings.Split(v, ",")
	}
	profanity := services.NewProfanityFilter(profanityWords)

	// Initialize controllers
	uploadController := controllers.NewUploadController(db)
	authController := controllers.NewAuthController(db, uploadController)
	userController := controllers.NewUserController(db)
	postController := controllers.NewPostController(db, profanity)
	commentController := controllers.NewCommentController(db, sched, profanity)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/login/google", authController.GoogleLogin)

		SetupUserRoutes(public, userController)

		// Post and comment reads are public
		public.GET("/posts", postController.GetPosts)
		public.GET("/posts/:id", postController.GetPostDetail)
		public.GET("/posts/:id/comments", commentController.GetComments)
		public.GET("/posts/:id/comments/:commentId", commentController.GetComment)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", authController.Logout)
		protected.POST("/refresh-token", authController.RefreshToken)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)

		SetupPostRoutes(protected, postController, commentController)
		SetupUploadRoutes(protected, uploadController)
	}
}
