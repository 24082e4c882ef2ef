package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/talk-back/api-go/controllers"
)

func SetupUserRoutes(group *gin.RouterGroup, userController *controllers.UserController) {
	users := group.Group("/users")
	{
		users.GET("", userController.GetUsers)
		users.GET("/:userId", userController.GetUser)
	}
}
