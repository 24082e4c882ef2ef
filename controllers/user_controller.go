package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/talk-back/api-go/models"
	"github.com/talk-back/api-go/utils"
	"gorm.io/gorm"
)

const userCacheTTL = time.Minute

type UserController struct {
	DB    *gorm.DB
	Cache *utils.Cache
}

// PublicUser is the projection served for other people's profiles.
type PublicUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Cache: utils.NewCache(500)}
}

func publicUserFromModel(user *models.User) PublicUser {
	return PublicUser{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}
}

func (uc *UserController) GetUsers(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var users []models.User
	var total int64

	uc.DB.Model(&models.User{}).Count(&total)

	if err := uc.DB.Order("id").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	publicUsers := make([]PublicUser, len(users))
	for i := range users {
		publicUsers[i] = publicUserFromModel(&users[i])
	}

	c.JSON(http.StatusOK, gin.H{"users": publicUsers, "total": total})
}

func (uc *UserController) GetUser(c *gin.Context) {
	userID := c.Param("userId")

	cacheKey := fmt.Sprintf("user:%s", userID)
	if cached := uc.Cache.Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	publicUser := publicUserFromModel(&user)
	uc.Cache.Set(cacheKey, publicUser, userCacheTTL)

	c.JSON(http.StatusOK, publicUser)
}
