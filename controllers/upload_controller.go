package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talk-back/api-go/config"
	"github.com/talk-back/api-go/utils"
	"gorm.io/gorm"
)

type StandardResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type UploadController struct {
	DB       *gorm.DB
	R2Client *s3.Client
	R2Config *config.R2Config
}

type AvatarUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type AvatarConfirmRequest struct {
	TempKey string `json:"tempKey" binding:"required"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

func NewUploadController(db *gorm.DB) *UploadController {
	r2Config := config.GetR2Config()

	r2Client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2Config.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2Config.AccessKeyID,
			r2Config.SecretAccessKey,
			"",
		),
		Region: r2Config.Region,
	})

	return &UploadController{
		DB:       db,
		R2Client: r2Client,
		R2Config: r2Config,
	}
}

// GetAvatarTempURL issues a presigned PUT URL for a temporary avatar object.
// The object becomes permanent once ConfirmAvatarUpload moves it.
func (uc *UploadController) GetAvatarTempURL(c *gin.Context) {
	var req AvatarUploadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !uc.isValidAvatarFile(req.ContentType, req.FileSize) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid avatar file type or size"})
		return
	}

	key := uc.generateTempAvatarKey(req.FileName)

	presignedURL, err := uc.createPresignedURL(key, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: PresignedURLResponse{
			UploadURL: presignedURL,
			FileURL:   fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, key),
			Key:       key,
			ExpiresIn: 1800,
		},
		Message: "Temporary avatar upload URL generated successfully",
	})
}

func (uc *UploadController) ConfirmAvatarUpload(c *gin.Context) {
	user := utils.GetUser(c)
	var req AvatarConfirmRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := uc.verifyFileExists(req.TempKey)
	if err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Temporary avatar file not found"})
		return
	}

	permanentKey := uc.generateAvatarKey(user.UserID, req.TempKey)

	if err := uc.moveFile(req.TempKey, permanentKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm avatar upload"})
		return
	}

	avatarURL := fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, permanentKey)
	uc.DB.Table("users").Where("id = ?", user.UserID).Update("avatar", avatarURL)

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"key":     permanentKey,
			"fileUrl": avatarURL,
			"userId":  user.UserID,
		},
		Message: "Avatar upload confirmed successfully",
	})
}

func (uc *UploadController) CleanupTempAvatar(c *gin.Context) {
	tempKey := c.Param("tempKey")

	if !strings.HasPrefix(tempKey, "temp/avatars/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid temp key format"})
		return
	}

	if err := uc.deleteFile(tempKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cleanup temporary file"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "Temporary avatar cleaned up successfully",
	})
}

// Helper functions
func (uc *UploadController) isValidAvatarFile(contentType string, fileSize int64) bool {
	validTypes := []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

	valid := false
	for _, t := range validTypes {
		if contentType == t {
			valid = true
			break
		}
	}

	const maxAvatarSize = 5 * 1024 * 1024 // 5MB
	return valid && fileSize <= maxAvatarSize
}

func (uc *UploadController) generateTempAvatarKey(fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("temp/avatars/%s%s", uuid.New().String(), ext)
}

func (uc *UploadController) generateAvatarKey(userID uint, tempKey string) string {
	ext := filepath.Ext(tempKey)
	return fmt.Sprintf("avatars/%d/%d%s", userID, time.Now().Unix(), ext)
}

func (uc *UploadController) createPresignedURL(key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(uc.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigner := s3.NewPresignClient(uc.R2Client)
	req, err := presigner.PresignPutObject(context.TODO(), input, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (uc *UploadController) verifyFileExists(key string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	}

	if _, err := uc.R2Client.HeadObject(context.TODO(), input); err != nil {
		return false, nil
	}

	return true, nil
}

func (uc *UploadController) moveFile(sourceKey, destKey string) error {
	_, err := uc.R2Client.CopyObject(context.TODO(), &s3.CopyObjectInput{
		Bucket:     aws.String(uc.R2Config.BucketName),
		CopySource: aws.String(fmt.Sprintf("%s/%s", uc.R2Config.BucketName, sourceKey)),
		Key:        aws.String(destKey),
	})
	if err != nil {
		return err
	}

	return uc.deleteFile(sourceKey)
}

func (uc *UploadController) deleteFile(key string) error {
	_, err := uc.R2Client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	})
	return err
}
