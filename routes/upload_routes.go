package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/talk-back/api-go/controllers"
)

func SetupUploadRoutes(protected *gin.RouterGroup, uploadController *controllers.UploadController) {
	uploads := protected.Group("/uploads")
	{
		uploads.POST("/avatar", uploadController.GetAvatarTempURL)
		uploads.POST("/avatar/confirm", uploadController.ConfirmAvatarUpload)
		uploads.DELETE("/avatar/temp/:tempKey", uploadController.CleanupTempAvatar)
	}
}
