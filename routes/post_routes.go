package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/talk-back/api-go/controllers"
)

func SetupPostRoutes(protected *gin.RouterGroup, postController *controllers.PostController, commentController *controllers.CommentController) {
	posts := protected.Group("/posts")
	{
		posts.POST("", postController.CreatePost)
		posts.PATCH("/:id", postController.UpdatePost)
		posts.DELETE("/:id", postController.DeletePost)

		// Comments live under their post
		posts.POST("/:id/comments", commentController.CreateComment)
		posts.PATCH("/:id/comments/:commentId", commentController.UpdateComment)
		posts.DELETE("/:id/comments/:commentId", commentController.DeleteComment)
		posts.GET("/:id/comments-daily-breakdown", commentController.GetCommentStats)
	}

	users := protected.Group("/users")
	{
		users.GET("/:userId/posts", postController.GetUserPosts)
	}
}
