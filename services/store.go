package services

import (
	"context"
	"errors"

	"github.com/talk-back/api-go/models"
	"gorm.io/gorm"
)

// PostGetter resolves a post by id; (nil, nil) when no active post matches.
type PostGetter interface {
	GetPostByID(ctx context.Context, postID uint) (*models.Post, error)
}

// CommentStore is the storage surface the AI reply task needs.
type CommentStore interface {
	CommentGetter
	CreateComment(ctx context.Context, comment *models.Comment) error
}

// Store adapts a gorm session to the task-facing interfaces. Absent rows are
// reported as (nil, nil), not as errors: by fire time a post or comment may
// legitimately be gone.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) GetPostByID(ctx context.Context, postID uint) (*models.Post, error) {
	var post models.Post
	err := s.DB.WithContext(ctx).
		Where("id = ? AND status = ?", postID, models.StatusActive).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Store) GetCommentByID(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := s.DB.WithContext(ctx).
		Where("id = ? AND post_id = ? AND status = ?", commentID, postID, models.StatusActive).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.DB.WithContext(ctx).Create(comment).Error
}
