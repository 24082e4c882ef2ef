package services

import (
	"context"

	"github.com/talk-back/api-go/models"
)

// maxHistoryDepth bounds the parent walk. The parent chain should be acyclic,
// but nothing in the schema enforces that.
const maxHistoryDepth = 100

// CommentGetter resolves a comment by (post, id); it returns (nil, nil) when
// no active comment matches.
type CommentGetter interface {
	GetCommentByID(ctx context.Context, postID, commentID uint) (*models.Comment, error)
}

// BuildThreadHistory walks the ancestor chain of parent and returns it as
// chronologically ordered chat turns. AI comments become assistant turns and
// the chain's human author's comments become user turns. The walk stops
// before a comment written by any other human: the history models one
// person's conversation with the AI, not the whole thread. A missing
// ancestor (deleted since) truncates the history instead of failing.
func BuildThreadHistory(ctx context.Context, comments CommentGetter, parent *models.Comment) ([]ChatMessage, error) {
	history := make([]ChatMessage, 0, 8)

	// The chain's human participant is the first non-AI author seen; AI turns
	// are owned by the post author and never anchor the walk.
	var author *uint

	prev := parent
	for depth := 0; prev != nil && depth < maxHistoryDepth; depth++ {
		role := RoleUser
		if prev.IsAI {
			role = RoleAssistant
		} else if author == nil {
			ownerID := prev.OwnerID
			author = &ownerID
		} else if prev.OwnerID != *author {
			break
		}
		history = append(history, ChatMessage{Role: role, Content: prev.Content})

		if prev.ParentID == nil {
			break
		}
		next, err := comments.GetCommentByID(ctx, parent.PostID, *prev.ParentID)
		if err != nil {
			return reverseHistory(history), err
		}
		prev = next
	}

	return reverseHistory(history), nil
}

func reverseHistory(history []ChatMessage) []ChatMessage {
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history
}
