package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/talk-back/api-go/models"
	"gorm.io/gorm"
)

// JobKindAIReply is the scheduler job kind for deferred AI comment replies.
const JobKindAIReply = "ai_reply"

const defaultAIPrompt = "You are the author of the post below, replying to comments on it. " +
	"Answer the commenter in the voice of the post author, briefly and on topic.\n\nPost:\n%s"

// AIReplyPayload is everything a scheduled reply job carries: identifiers
// only, never live handles. The world is re-validated at fire time.
type AIReplyPayload struct {
	PostID   uint `json:"post_id"`
	ParentID uint `json:"parent_id"`
}

// AIReplyTask generates an AI reply to one comment. Both lookups may come
// back empty: the post or the parent comment can be deleted between
// scheduling and firing, and that is a normal no-op, not an error.
type AIReplyTask struct {
	PostID   uint
	ParentID uint
	Posts    PostGetter
	Comments CommentStore
	LLM      Completer
	Prompt   string
}

func (t *AIReplyTask) Execute(ctx context.Context) error {
	post, err := t.Posts.GetPostByID(ctx, t.PostID)
	if err != nil {
		return fmt.Errorf("failed to fetch post %d: %w", t.PostID, err)
	}
	if post == nil {
		return nil
	}

	parent, err := t.Comments.GetCommentByID(ctx, t.PostID, t.ParentID)
	if err != nil {
		return fmt.Errorf("failed to fetch comment %d: %w", t.ParentID, err)
	}
	if parent == nil {
		return nil
	}

	history, err := BuildThreadHistory(ctx, t.Comments, parent)
	if err != nil {
		return fmt.Errorf("failed to build thread history: %w", err)
	}

	prompt := t.Prompt
	if prompt == "" {
		prompt = defaultAIPrompt
	}
	messages := make([]ChatMessage, 0, len(history)+1)
	messages = append(messages, ChatMessage{
		Role:    RoleSystem,
		Content: fmt.Sprintf(prompt, post.Content),
	})
	messages = append(messages, history...)

	reply, err := t.LLM.Complete(ctx, messages)
	if err != nil {
		return fmt.Errorf("chat completion failed: %w", err)
	}

	comment := models.Comment{
		OwnerID:  post.OwnerID,
		PostID:   post.ID,
		ParentID: &parent.ID,
		Content:  reply,
		IsAI:     true,
		Status:   models.StatusActive,
	}
	if err := t.Comments.CreateComment(ctx, &comment); err != nil {
		return fmt.Errorf("failed to persist AI reply: %w", err)
	}

	log.Printf("AI reply %d created for comment %d on post %d", comment.ID, parent.ID, post.ID)
	return nil
}

// NewAIReplyHandler builds the scheduler handler for ai_reply jobs. Each
// invocation resolves a fresh gorm session so job executions never share
// state with each other or with request handling.
func NewAIReplyHandler(db *gorm.DB, llm Completer) func(ctx context.Context, payload []byte) error {
	prompt := os.Getenv("AI_PROMPT")
	return func(ctx context.Context, payload []byte) error {
		var p AIReplyPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("invalid ai_reply payload: %w", err)
		}

		store := NewStore(db.Session(&gorm.Session{NewDB: true}))
		task := AIReplyTask{
			PostID:   p.PostID,
			ParentID: p.ParentID,
			Posts:    store,
			Comments: store,
			LLM:      llm,
			Prompt:   prompt,
		}
		return task.Execute(ctx)
	}
}

// ShouldScheduleReply decides whether creating a comment triggers a deferred
// AI reply: the post owner opted in, and the commenter is someone else (the
// author does not converse with their own AI).
func ShouldScheduleReply(post *models.Post, commenterID uint) bool {
	return post.AIEnabled && post.OwnerID != commenterID
}

// ReplyFireTime computes the wall-clock instant the reply job becomes due.
func ReplyFireTime(now time.Time, post *models.Post) time.Time {
	return now.Add(time.Duration(post.AIDelayMinutes) * time.Minute)
}
