package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sharePreview/internal/models"
	"sharePreview/internal/repository"
)

func notFound(id string) error {
	return fmt.Errorf("пост с ID %s не найден: %w", id, repository.ErrNotFound)
}

func decodePosts(t *testing.T, rr *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestGetBulkPosts_FlattensThreadsInOrder(t *testing.T) {
	env := newTestEnv()

	a := post("a", "a2")
	a.Integration = &models.PublicIntegration{
		ID:                 "int-1",
		Name:               "Acme",
		Picture:            "https://cdn.example.com/acme.png",
		ProviderIdentifier: "x",
		Profile:            "acme",
	}
	env.Posts.On("GetPost", mock.Anything, "a", true, false).Return(a, nil)
	env.Posts.On("GetPost", mock.Anything, "a2", false, false).Return(post("a2"), nil)
	env.Posts.On("GetPost", mock.Anything, "b", true, false).Return(nil, notFound("b"))
	env.Posts.On("GetPost", mock.Anything, "c", true, false).Return(post("c"), nil)

	req := httptest.NewRequest(http.MethodGet, "/public/posts/bulk?posts=a,b,c", nil)
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	posts := decodePosts(t, rr)
	require.Len(t, posts, 3)
	assert.Equal(t, "a", posts[0]["id"])
	assert.Equal(t, "a2", posts[1]["id"])
	assert.Equal(t, "c", posts[2]["id"])

	integration, ok := posts[0]["integration"].(map[string]interface{})
	require.True(t, ok)
	keys := make([]string, 0, len(integration))
	for k := range integration {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"id", "name", "picture", "providerIdentifier", "profile"}, keys)

	for _, p := range posts {
		assert.NotContains(t, p, "integrationId")
		assert.NotContains(t, p, "parentPostId")
		assert.NotContains(t, p, "childrenPost")
	}
	assert.NotContains(t, posts[1], "integration")

	env.Posts.AssertExpectations(t)
}

func TestGetBulkPosts_Validation(t *testing.T) {
	elevenIDs := strings.TrimSuffix(strings.Repeat("p,", 11), ",")

	tests := []struct {
		name    string
		query   string
		message string
	}{
		{name: "Нет параметра posts", query: "", message: "Posts parameter is required"},
		{name: "Только пустые id", query: "?posts=,%20,", message: "No valid post IDs provided"},
		{name: "Больше десяти id", query: "?posts=" + elevenIDs, message: "Maximum 10 posts allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()

			req := httptest.NewRequest(http.MethodGet, "/public/posts/bulk"+tt.query, nil)
			rr := httptest.NewRecorder()
			env.Router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.message), rr.Body.String())
			env.Posts.AssertNotCalled(t, "GetPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestGetBulkPosts_AllFailuresGiveEmptyArray(t *testing.T) {
	env := newTestEnv()
	env.Posts.On("GetPost", mock.Anything, "x", true, false).Return(nil, notFound("x"))
	env.Posts.On("GetPost", mock.Anything, "y", true, false).Return(nil, errors.New("connection reset"))

	req := httptest.NewRequest(http.MethodGet, "/public/posts/bulk?posts=x,y", nil)
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	warnings := 0
	for _, entry := range env.Logs.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestGetBulkPosts_CancelledRequest(t *testing.T) {
	env := newTestEnv()
	env.Posts.On("GetPost", mock.Anything, "a", true, false).Return(post("a"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/public/posts/bulk?posts=a", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch posts"}`, rr.Body.String())
}

func TestGetBulkComments(t *testing.T) {
	env := newTestEnv()
	env.Comments.On("ListByPostID", mock.Anything, "a").Return([]models.Comment{
		{ID: "c1", PostID: "a", Content: "nice", IsAnonymous: true, ClientName: strPtr("Ann"), ClientEmail: strPtr("ann@example.com")},
	}, nil)
	env.Comments.On("ListByPostID", mock.Anything, "b").Return(nil, errors.New("timeout"))

	req := httptest.NewRequest(http.MethodGet, "/public/posts/bulk/comments?posts=a,b", nil)
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Comments map[string][]map[string]interface{} `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Comments, 2)
	require.Len(t, body.Comments["a"], 1)
	assert.Equal(t, "Ann", body.Comments["a"][0]["clientName"])
	assert.NotContains(t, body.Comments["a"][0], "clientEmail")
	assert.NotNil(t, body.Comments["b"])
	assert.Empty(t, body.Comments["b"])
}

func TestGetBulkComments_Validation(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodGet, "/public/posts/bulk/comments", nil)
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Posts parameter is required"}`, rr.Body.String())
}

func TestGetPreview(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		mockSetup func(*MockPostRepository)
		expected  []string
	}{
		{
			name: "Пост с веткой",
			id:   "root",
			mockSetup: func(repo *MockPostRepository) {
				repo.On("GetPost", mock.Anything, "root", true, false).Return(post("root", "next"), nil)
				repo.On("GetPost", mock.Anything, "next", false, false).Return(post("next"), nil)
			},
			expected: []string{"root", "next"},
		},
		{
			name: "Неизвестный пост",
			id:   "missing",
			mockSetup: func(repo *MockPostRepository) {
				repo.On("GetPost", mock.Anything, "missing", true, false).Return(nil, notFound("missing"))
			},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			tt.mockSetup(env.Posts)

			req := httptest.NewRequest(http.MethodGet, "/public/posts/"+tt.id, nil)
			rr := httptest.NewRecorder()
			env.Router.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			posts := decodePosts(t, rr)
			ids := []string{}
			for _, p := range posts {
				ids = append(ids, p["id"].(string))
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestGetComments(t *testing.T) {
	env := newTestEnv()
	env.Comments.On("ListByPostID", mock.Anything, "a").Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/public/posts/a/comments", nil)
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"comments":[]}`, rr.Body.String())
}

func TestGetComments_RepositoryError(t *testing.T) {
	env := newTestEnv()
	env.Comments.On("ListByPostID", mock.Anything, "a").Return(nil, errors.New("db down"))

	req := httptest.NewRequest(http.MethodGet, "/public/posts/a/comments", nil)
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch comments"}`, rr.Body.String())
}

func TestCreateComment_Anonymous(t *testing.T) {
	env := newTestEnv()
	env.Posts.On("Exists", mock.Anything, "xyz").Return(true, nil)

	var stored *models.Comment
	env.Comments.On("Create", mock.Anything, mock.AnythingOfType("*models.Comment")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*models.Comment)
			stored.ID = "comment-1"
		}).
		Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/public/posts/xyz/comments", bytes.NewBufferString(`{"comment":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "preview-test")
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "comment-1", body["id"])
	assert.Equal(t, "xyz", body["postId"])
	assert.Equal(t, "hi", body["content"])
	assert.Equal(t, true, body["isAnonymous"])
	assert.NotContains(t, body, "clientName")
	assert.NotContains(t, body, "userId")
	assert.NotContains(t, body, "ip")

	require.NotNil(t, stored)
	assert.Nil(t, stored.UserID)
	assert.Nil(t, stored.ClientName)
	assert.Equal(t, "203.0.113.7", stored.IP)
	assert.Equal(t, "preview-test", stored.UserAgent)
}

func TestCreateComment_Errors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(*MockPostRepository)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Некорректный JSON",
			body:           `{"comment":`,
			mockSetup:      func(repo *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request body"}`,
		},
		{
			name:           "Слишком большое тело запроса",
			body:           `{"comment":"` + strings.Repeat("a", 20<<10) + `"}`,
			mockSetup:      func(repo *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request body"}`,
		},
		{
			name:           "Нет текста комментария",
			body:           `{"clientName":"Ann"}`,
			mockSetup:      func(repo *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Comment is required"}`,
		},
		{
			name:           "Комментарий из пробелов",
			body:           `{"comment":"   "}`,
			mockSetup:      func(repo *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Comment is required"}`,
		},
		{
			name: "Пост не найден",
			body: `{"comment":"hi"}`,
			mockSetup: func(repo *MockPostRepository) {
				repo.On("Exists", mock.Anything, "xyz").Return(false, nil)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Post not found"}`,
		},
		{
			name: "Ошибка базы данных",
			body: `{"comment":"hi"}`,
			mockSetup: func(repo *MockPostRepository) {
				repo.On("Exists", mock.Anything, "xyz").Return(false, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to create comment"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			tt.mockSetup(env.Posts)

			req := httptest.NewRequest(http.MethodPost, "/public/posts/xyz/comments", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			env.Router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			env.Comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}
