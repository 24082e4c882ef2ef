package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/talk-back/api-go/models"
	"github.com/talk-back/api-go/services"
	"github.com/talk-back/api-go/utils"
	"gorm.io/gorm"
)

const defaultAIDelayMinutes = 5

type PostController struct {
	DB        *gorm.DB
	Profanity *services.ProfanityFilter
}

type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
	// AIEnabled opts the post into delayed AI replies to comments
	AIEnabled      bool `json:"aiEnabled"`
	AIDelayMinutes *int `json:"aiDelayMinutes" binding:"omitempty,gte=0"`
}

type UpdatePostRequest struct {
	Content        string `json:"content" binding:"required"`
	AIEnabled      *bool  `json:"aiEnabled"`
	AIDelayMinutes *int   `json:"aiDelayMinutes" binding:"omitempty,gte=0"`
}

func NewPostController(db *gorm.DB, profanity *services.ProfanityFilter) *PostController {
	return &PostController{DB: db, Profanity: profanity}
}

// CreatePost godoc
// @Summary Create a new post
// @Description Creates a post, optionally opting into delayed AI comment replies
// @Tags posts
// @Accept json
// @Produce json
// @Param post body CreatePostRequest true "Post creation request"
// @Success 201 {object} models.Post
// @Router /posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	user := utils.GetUser(c)
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	delayMinutes := defaultAIDelayMinutes
	if req.AIDelayMinutes != nil {
		delayMinutes = *req.AIDelayMinutes
	}

	post := models.Post{
		OwnerID:        user.UserID,
		Content:        req.Content,
		Status:         models.StatusActive,
		AIEnabled:      req.AIEnabled,
		AIDelayMinutes: delayMinutes,
	}
	if pc.Profanity.ContainsProfanity(req.Content) {
		post.Status = models.StatusBanned
	}

	if err := pc.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (pc *PostController) GetPosts(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var posts []models.Post
	var total int64

	query := pc.DB.Model(&models.Post{}).Where("status = ?", models.StatusActive)
	query.Count(&total)

	if err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "total": total})
}

func (pc *PostController) GetPostDetail(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := pc.DB.Where("id = ? AND status = ?", postID, models.StatusActive).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// UpdatePost godoc
// @Summary Update an existing post
// @Description Updates post content and AI reply settings (owner only)
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param post body UpdatePostRequest true "Post update request"
// @Success 200 {object} models.Post
// @Router /posts/{id} [patch]
func (pc *PostController) UpdatePost(c *gin.Context) {
	user := utils.GetUser(c)
	postID := c.Param("id")

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post models.Post
	if err := pc.DB.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.OwnerID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if pc.Profanity.ContainsProfanity(req.Content) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post contains profanity"})
		return
	}

	updates := map[string]interface{}{"content": req.Content}
	if req.AIEnabled != nil {
		updates["ai_enabled"] = *req.AIEnabled
	}
	if req.AIDelayMinutes != nil {
		updates["ai_delay_minutes"] = *req.AIDelayMinutes
	}

	if err := pc.DB.Model(&post).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func (pc *PostController) DeletePost(c *gin.Context) {
	user := utils.GetUser(c)
	postID := c.Param("id")

	var post models.Post
	if err := pc.DB.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.OwnerID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	tx := pc.DB.Begin()

	// Posts own their comments
	if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post comments"})
		return
	}

	if err := tx.Delete(&post).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully", "success": true})
}

func (pc *PostController) GetUserPosts(c *gin.Context) {
	userID := c.Param("userId")
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var posts []models.Post
	var total int64

	query := pc.DB.Model(&models.Post{}).Where("owner_id = ? AND status = ?", userID, models.StatusActive)
	query.Count(&total)

	if err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "total": total})
}
