package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talk-back/api-go/models"
)

type fakeStore struct {
	mu       sync.Mutex
	posts    map[uint]*models.Post
	comments map[uint]*models.Comment
	nextID   uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		posts:    make(map[uint]*models.Post),
		comments: make(map[uint]*models.Comment),
		nextID:   100,
	}
}

func (s *fakeStore) GetPostByID(_ context.Context, postID uint) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts[postID], nil
}

func (s *fakeStore) GetCommentByID(_ context.Context, postID, commentID uint) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments[commentID]
	if !ok || comment.PostID != postID {
		return nil, nil
	}
	return comment, nil
}

func (s *fakeStore) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	comment.ID = s.nextID
	s.comments[comment.ID] = comment
	return nil
}

func (s *fakeStore) createdAIComments() []*models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Comment
	for _, c := range s.comments {
		if c.IsAI {
			out = append(out, c)
		}
	}
	return out
}

type fakeCompleter struct {
	mu       sync.Mutex
	reply    string
	err      error
	messages [][]ChatMessage
}

func (f *fakeCompleter) Complete(_ context.Context, messages []ChatMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func seedReplyScenario(store *fakeStore) (*models.Post, *models.Comment) {
	post := &models.Post{
		ID:             1,
		OwnerID:        10,
		Content:        "my post about birds",
		Status:         models.StatusActive,
		AIEnabled:      true,
		AIDelayMinutes: 5,
	}
	store.posts[post.ID] = post

	parent := &models.Comment{
		ID:      7,
		OwnerID: 20,
		PostID:  post.ID,
		Content: "which birds?",
		Status:  models.StatusActive,
	}
	store.comments[parent.ID] = parent

	return post, parent
}

func TestAIReplyTaskCreatesAttributedComment(t *testing.T) {
	store := newFakeStore()
	post, parent := seedReplyScenario(store)
	llm := &fakeCompleter{reply: "mostly magpies"}

	task := AIReplyTask{PostID: post.ID, ParentID: parent.ID, Posts: store, Comments: store, LLM: llm}
	require.NoError(t, task.Execute(context.Background()))

	created := store.createdAIComments()
	require.Len(t, created, 1)
	reply := created[0]
	assert.Equal(t, post.OwnerID, reply.OwnerID)
	assert.Equal(t, post.ID, reply.PostID)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)
	assert.Equal(t, "mostly magpies", reply.Content)
	assert.True(t, reply.IsAI)
	assert.Equal(t, models.StatusActive, reply.Status)

	// First message is the system prompt built from the post content
	require.Len(t, llm.messages, 1)
	sent := llm.messages[0]
	require.NotEmpty(t, sent)
	assert.Equal(t, RoleSystem, sent[0].Role)
	assert.Contains(t, sent[0].Content, "my post about birds")
	assert.Equal(t, ChatMessage{Role: RoleUser, Content: "which birds?"}, sent[len(sent)-1])
}

func TestAIReplyTaskPostDeletedIsSilentNoop(t *testing.T) {
	store := newFakeStore()
	_, parent := seedReplyScenario(store)
	delete(store.posts, 1)
	llm := &fakeCompleter{reply: "unused"}

	task := AIReplyTask{PostID: 1, ParentID: parent.ID, Posts: store, Comments: store, LLM: llm}
	require.NoError(t, task.Execute(context.Background()))

	assert.Empty(t, store.createdAIComments())
	assert.Empty(t, llm.messages)
}

func TestAIReplyTaskParentDeletedIsSilentNoop(t *testing.T) {
	store := newFakeStore()
	post, parent := seedReplyScenario(store)
	delete(store.comments, parent.ID)
	llm := &fakeCompleter{reply: "unused"}

	task := AIReplyTask{PostID: post.ID, ParentID: parent.ID, Posts: store, Comments: store, LLM: llm}
	require.NoError(t, task.Execute(context.Background()))

	assert.Empty(t, store.createdAIComments())
	assert.Empty(t, llm.messages)
}

func TestAIReplyTaskDoubleFireCreatesTwoComments(t *testing.T) {
	// Duplicate triggers are not deduplicated. Two firings, two replies.
	store := newFakeStore()
	post, parent := seedReplyScenario(store)
	llm := &fakeCompleter{reply: "again"}

	task := AIReplyTask{PostID: post.ID, ParentID: parent.ID, Posts: store, Comments: store, LLM: llm}
	require.NoError(t, task.Execute(context.Background()))
	require.NoError(t, task.Execute(context.Background()))

	assert.Len(t, store.createdAIComments(), 2)
}

func TestAIReplyTaskLLMFailurePropagates(t *testing.T) {
	store := newFakeStore()
	post, parent := seedReplyScenario(store)
	llm := &fakeCompleter{err: errors.New("model overloaded")}

	task := AIReplyTask{PostID: post.ID, ParentID: parent.ID, Posts: store, Comments: store, LLM: llm}
	err := task.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
	assert.Empty(t, store.createdAIComments())
}

func TestShouldScheduleReply(t *testing.T) {
	post := &models.Post{OwnerID: 10, AIEnabled: true}

	assert.True(t, ShouldScheduleReply(post, 20))
	// The author does not get AI replies to their own comments
	assert.False(t, ShouldScheduleReply(post, 10))

	post.AIEnabled = false
	assert.False(t, ShouldScheduleReply(post, 20))
}

func TestReplyFireTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	post := &models.Post{AIDelayMinutes: 5}
	assert.Equal(t, now.Add(5*time.Minute), ReplyFireTime(now, post))

	post.AIDelayMinutes = 0
	assert.Equal(t, now, ReplyFireTime(now, post))
}
