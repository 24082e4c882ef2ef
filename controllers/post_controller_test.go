package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindJSON(t *testing.T, body string, out interface{}) error {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/posts", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	return c.ShouldBindJSON(out)
}

func TestCreatePostRequestRejectsNegativeAIDelay(t *testing.T) {
	var req CreatePostRequest
	err := bindJSON(t, `{"content":"hello","aiDelayMinutes":-1}`, &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gte")
}

func TestCreatePostRequestAcceptsZeroAIDelay(t *testing.T) {
	var req CreatePostRequest
	err := bindJSON(t, `{"content":"hello","aiEnabled":true,"aiDelayMinutes":0}`, &req)
	require.NoError(t, err)
	require.NotNil(t, req.AIDelayMinutes)
	assert.Equal(t, 0, *req.AIDelayMinutes)
}

func TestCreatePostRequestDefaultsAIDelayWhenOmitted(t *testing.T) {
	var req CreatePostRequest
	err := bindJSON(t, `{"content":"hello"}`, &req)
	require.NoError(t, err)
	assert.Nil(t, req.AIDelayMinutes)
}

func TestCreatePostRequestRequiresContent(t *testing.T) {
	var req CreatePostRequest
	err := bindJSON(t, `{"aiEnabled":true}`, &req)
	require.Error(t, err)
}

func TestUpdatePostRequestRejectsNegativeAIDelay(t *testing.T) {
	var req UpdatePostRequest
	err := bindJSON(t, `{"content":"edited","aiDelayMinutes":-1}`, &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gte")
}

func TestUpdatePostRequestAcceptsZeroAIDelay(t *testing.T) {
	var req UpdatePostRequest
	err := bindJSON(t, `{"content":"edited","aiDelayMinutes":0}`, &req)
	require.NoError(t, err)
	require.NotNil(t, req.AIDelayMinutes)
	assert.Equal(t, 0, *req.AIDelayMinutes)
}
