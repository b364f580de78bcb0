package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/service"
)

// memPostRepository keeps posts in memory for transport-level tests.
type memPostRepository struct {
	mu    sync.Mutex
	posts []domain.Post
	clock time.Time
}

func (r *memPostRepository) List(ctx context.Context) ([]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Post, len(r.posts))
	copy(out, r.posts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *memPostRepository) Create(ctx context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	r.clock = r.clock.Add(time.Second)
	post.Date = r.clock
	if post.Tags == nil {
		post.Tags = []string{}
	}
	r.posts = append(r.posts, *post)
	return nil
}

func (r *memPostRepository) Update(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}
	for i := range r.posts {
		if r.posts[i].ID == oid {
			r.posts[i].Title = patch.Title
			r.posts[i].Content = patch.Content
			r.posts[i].Author = patch.Author
			r.posts[i].Tags = patch.Tags
			post := r.posts[i]
			return &post, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memPostRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrInvalidID
	}
	for i := range r.posts {
		if r.posts[i].ID == oid {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	hash, err := auth.HashPassword("correct-horse", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	authService := service.NewAuthService(config.AuthConfig{
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
		JWTSecret:         "test-secret",
		TokenTTLDays:      7,
	}, zap.NewNop())
	postService := service.NewPostService(&memPostRepository{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, nil)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), MiddlewareConfig{})
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("blog-service", "test", nil),
		Auth:           handlers.NewAuthHandler(authService),
		Posts:          handlers.NewPostsHandler(postService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/auth/login", "",
		map[string]string{"username": "admin", "password": "correct-horse"})
	if status != http.StatusOK {
		t.Fatalf("login failed: %d %v", status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("expected token in %v", body)
	}
	if body["expiresIn"] != "7d" {
		t.Fatalf("expected expiresIn 7d, got %v", body["expiresIn"])
	}
	return token
}

func TestLoginValidationAndCredentials(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty credentials, got %d %v", status, body)
	}
	if _, ok := body["error"].(string); !ok {
		t.Fatalf("expected string error field, got %v", body)
	}

	statusUser, bodyUser := doJSON(t, app, http.MethodPost, "/auth/login", "",
		map[string]string{"username": "ghost", "password": "correct-horse"})
	statusPass, bodyPass := doJSON(t, app, http.MethodPost, "/auth/login", "",
		map[string]string{"username": "admin", "password": "wrong"})
	if statusUser != http.StatusUnauthorized || statusPass != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d %d", statusUser, statusPass)
	}
	if bodyUser["error"] != bodyPass["error"] {
		t.Fatalf("bad-credential responses must be identical: %v vs %v", bodyUser, bodyPass)
	}
}

func TestMutatingRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	post := map[string]any{"title": "A", "content": "B", "author": "C"}

	status, body := doJSON(t, app, http.MethodPost, "/post", "", post)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d %v", status, body)
	}

	req := httptest.NewRequest(http.MethodPost, "/post", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic abc")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong scheme, got %d", resp.StatusCode)
	}

	status, _ = doJSON(t, app, http.MethodPost, "/post", "garbage-token", post)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", status)
	}
}

func TestPostLifecycleEndToEnd(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	// Tags submitted as a comma-separated string must come back normalized.
	status, body := doJSON(t, app, http.MethodPost, "/post", token,
		map[string]any{"title": "A", "content": "B", "author": "C", "tags": "x, y"})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", status, body)
	}
	created, ok := body["post"].(map[string]any)
	if !ok {
		t.Fatalf("expected post in response: %v", body)
	}
	tags, _ := created["tags"].([]any)
	if len(tags) != 2 || tags[0] != "x" || tags[1] != "y" {
		t.Fatalf("expected tags [x y], got %v", tags)
	}
	postID, _ := created["id"].(string)
	if postID == "" {
		t.Fatalf("expected post id in %v", created)
	}

	status, body = doJSON(t, app, http.MethodGet, "/posts", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	posts, _ := body["posts"].([]any)
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %v", body)
	}
	if first := posts[0].(map[string]any); first["title"] != "A" {
		t.Fatalf("expected title A first, got %v", first)
	}

	status, body = doJSON(t, app, http.MethodPut, "/post/"+postID, token,
		map[string]any{"title": "A2", "content": "B2", "author": "C2", "tags": []string{"z"}})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d %v", status, body)
	}
	updated := body["post"].(map[string]any)
	if updated["id"] != postID {
		t.Fatalf("id must survive update: %v", updated)
	}
	if updated["title"] != "A2" {
		t.Fatalf("expected updated title, got %v", updated)
	}

	status, body = doJSON(t, app, http.MethodDelete, "/post/"+postID, token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d %v", status, body)
	}
	if body["postId"] != postID {
		t.Fatalf("expected deleted postId, got %v", body)
	}

	status, body = doJSON(t, app, http.MethodGet, "/posts", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if posts, _ := body["posts"].([]any); len(posts) != 0 {
		t.Fatalf("deleted post still listed: %v", posts)
	}

	status, _ = doJSON(t, app, http.MethodDelete, "/post/"+postID, token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", status)
	}
}

func TestPostValidationAndMalformedID(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	status, body := doJSON(t, app, http.MethodPost, "/post", token,
		map[string]any{"title": "  ", "content": "B", "author": "C"})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank title, got %d %v", status, body)
	}

	status, _ = doJSON(t, app, http.MethodDelete, "/post/not-a-hex-id", token, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", status)
	}

	status, _ = doJSON(t, app, http.MethodPut, "/post/"+primitive.NewObjectID().Hex(), token,
		map[string]any{"title": "A", "content": "B", "author": "C"})
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", status)
	}
}

func TestVerifyEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	status, body := doJSON(t, app, http.MethodPost, "/auth/verify", token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", status, body)
	}
	if body["valid"] != true {
		t.Fatalf("expected valid=true, got %v", body)
	}
	user := body["user"].(map[string]any)
	if user["username"] != "admin" || user["role"] != "admin" {
		t.Fatalf("unexpected user claims %v", user)
	}

	status, body = doJSON(t, app, http.MethodPost, "/auth/verify", "", nil)
	if status != http.StatusUnauthorized || body["valid"] != false {
		t.Fatalf("expected 401 valid=false without token, got %d %v", status, body)
	}
	if _, ok := body["error"].(string); !ok {
		t.Fatalf("expected error string, got %v", body)
	}

	status, body = doJSON(t, app, http.MethodPost, "/auth/verify", "garbage", nil)
	if status != http.StatusUnauthorized || body["valid"] != false {
		t.Fatalf("expected 401 valid=false for bad token, got %d %v", status, body)
	}
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/nope", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	msg, ok := body["error"].(string)
	if !ok || msg == "" {
		t.Fatalf("expected human-readable error, got %v", body)
	}
}

func TestListEmptyRepositoryIsEmptyArray(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/posts", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	posts, ok := body["posts"].([]any)
	if !ok {
		t.Fatalf("expected posts array, got %v", body)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty array, got %v", posts)
	}
}
