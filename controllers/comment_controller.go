package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/talk-back/api-go/models"
	"github.com/talk-back/api-go/scheduler"
	"github.com/talk-back/api-go/services"
	"github.com/talk-back/api-go/utils"
	"gorm.io/gorm"
)

type CommentController struct {
	DB        *gorm.DB
	Scheduler scheduler.JobScheduler
	Profanity *services.ProfanityFilter
}

type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parentId"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func NewCommentController(db *gorm.DB, sched scheduler.JobScheduler, profanity *services.ProfanityFilter) *CommentController {
	return &CommentController{DB: db, Scheduler: sched, Profanity: profanity}
}

// activeComment scopes a lookup to a visible comment of a post; banned
// comments are hidden from reads and writes alike.
func activeComment(postID, commentID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND post_id = ? AND status = ?", commentID, postID, models.StatusActive)
	}
}

// commentStatsQuery builds the per-day breakdown over the half-open
// interval [from, to+1d) so adjacent ranges never count a row twice.
func commentStatsQuery(db *gorm.DB, postID uint, from, to time.Time) *gorm.DB {
	return db.Model(&models.Comment{}).
		Select("DATE(created_at) AS date, COUNT(*) AS total_comments, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS banned_comments", models.StatusBanned).
		Where("post_id = ? AND created_at >= ? AND created_at < ?", postID, from, to.AddDate(0, 0, 1)).
		Group("DATE(created_at)").
		Order("date")
}

// CreateComment godoc
// @Summary Comment on a post
// @Description Creates a comment; on AI-enabled posts a delayed AI reply job is scheduled
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param comment body CreateCommentRequest true "Comment creation request"
// @Success 201 {object} models.Comment
// @Router /posts/{id}/comments [post]
func (cc *CommentController) CreateComment(c *gin.Context) {
	user := utils.GetUser(c)
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post models.Post
	if err := cc.DB.Where("id = ? AND status = ?", c.Param("id"), models.StatusActive).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	// A parent reference must point at an existing comment under this post
	if req.ParentID != nil {
		var parent models.Comment
		err := cc.DB.Where("id = ? AND post_id = ? AND status = ?", *req.ParentID, post.ID, models.StatusActive).
			First(&parent).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
	}

	comment := models.Comment{
		OwnerID:  user.UserID,
		PostID:   post.ID,
		ParentID: req.ParentID,
		Content:  req.Content,
		Status:   models.StatusActive,
	}
	if cc.Profanity.ContainsProfanity(req.Content) {
		comment.Status = models.StatusBanned
	}

	if err := cc.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	// The comment is already committed; a scheduling failure is logged, not
	// rolled back into the response.
	if services.ShouldScheduleReply(&post, user.UserID) {
		fireAt := services.ReplyFireTime(time.Now(), &post)
		err := cc.Scheduler.Schedule(c.Request.Context(), services.JobKindAIReply,
			services.AIReplyPayload{PostID: post.ID, ParentID: comment.ID}, fireAt)
		if err != nil {
			log.Printf("Failed to schedule AI reply for comment %d: %v", comment.ID, err)
		}
	}

	c.JSON(http.StatusCreated, comment)
}

func (cc *CommentController) GetComments(c *gin.Context) {
	postID := c.Param("id")
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var post models.Post
	if err := cc.DB.Where("id = ? AND status = ?", postID, models.StatusActive).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var comments []models.Comment
	var total int64

	query := cc.DB.Model(&models.Comment{}).Where("post_id = ? AND status = ?", post.ID, models.StatusActive)
	query.Count(&total)

	if err := query.Order("created_at ASC").Offset(skip).Limit(limit).Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments, "total": total})
}

func (cc *CommentController) GetComment(c *gin.Context) {
	var comment models.Comment
	err := cc.DB.Scopes(activeComment(c.Param("id"), c.Param("commentId"))).First(&comment).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (cc *CommentController) UpdateComment(c *gin.Context) {
	user := utils.GetUser(c)
	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var comment models.Comment
	err := cc.DB.Scopes(activeComment(c.Param("id"), c.Param("commentId"))).First(&comment).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.OwnerID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if cc.Profanity.ContainsProfanity(req.Content) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment contains profanity"})
		return
	}

	if err := cc.DB.Model(&comment).Update("content", req.Content).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (cc *CommentController) DeleteComment(c *gin.Context) {
	user := utils.GetUser(c)

	var comment models.Comment
	err := cc.DB.Scopes(activeComment(c.Param("id"), c.Param("commentId"))).First(&comment).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.OwnerID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if err := cc.DB.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully", "success": true})
}

// GetCommentStats godoc
// @Summary Daily comment breakdown
// @Description Per-day totals of created and banned comments for a post
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Router /posts/{id}/comments-daily-breakdown [get]
func (cc *CommentController) GetCommentStats(c *gin.Context) {
	postID := c.Param("id")

	dateFrom, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	dateTo, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}
	if dateFrom.After(dateTo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be greater than or equal to from"})
		return
	}

	var post models.Post
	if err := cc.DB.Where("id = ? AND status = ?", postID, models.StatusActive).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var stats []struct {
		Date           time.Time `json:"date"`
		TotalComments  int64     `json:"total_comments"`
		BannedComments int64     `json:"banned_comments"`
	}

	err = commentStatsQuery(cc.DB, post.ID, dateFrom, dateTo).Scan(&stats).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"breakdown": stats})
}
