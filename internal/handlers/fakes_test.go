package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/Voluto75/tapetag/internal/middleware"
	"github.com/Voluto75/tapetag/internal/models"
	"github.com/Voluto75/tapetag/internal/repositories"
	"github.com/Voluto75/tapetag/validators"
	"github.com/labstack/echo/v4"
)

// fakePostRepo is an in-memory PostRepository for handler tests.
type fakePostRepo struct {
	posts        map[string]*models.Post
	feed         []models.Post
	created      []*models.Post
	createErr    error
	incrementErr error
	lastFilter   repositories.FeedFilter
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (r *fakePostRepo) add(p *models.Post) {
	r.posts[p.ID] = p
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, post)
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) GetActivePostByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok || post.Status != models.PostStatusActive {
		return nil, repositories.ErrPostNotFound
	}
	return post, nil
}

func (r *fakePostRepo) QueryFeed(_ context.Context, filter repositories.FeedFilter) ([]models.Post, error) {
	r.lastFilter = filter
	return r.feed, nil
}

func (r *fakePostRepo) GetRepliesByParentID(_ context.Context, parentID string) ([]models.Post, error) {
	var replies []models.Post
	for _, p := range r.posts {
		if p.ParentPostID != nil && *p.ParentPostID == parentID && p.Status == models.PostStatusActive {
			replies = append(replies, *p)
		}
	}
	return replies, nil
}

func (r *fakePostRepo) IncrementListenCount(_ context.Context, id string) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	post, ok := r.posts[id]
	if !ok {
		return repositories.ErrPostNotFound
	}
	post.ListenCount++
	return nil
}

func (r *fakePostRepo) GetTrendingTags(_ context.Context) ([]models.TagCount, error) {
	counts := make(map[string]int)
	for _, p := range r.posts {
		if p.Status == models.PostStatusActive {
			counts[p.Hashtag]++
		}
	}
	var items []models.TagCount
	for tag, count := range counts {
		items = append(items, models.TagCount{Hashtag: tag, Count: count})
	}
	return items, nil
}

// fakeLikeRepo is an in-memory LikeRepository keyed by (post, visitor).
type fakeLikeRepo struct {
	likes map[string]map[string]bool // postID -> visitorID -> liked
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[string]map[string]bool)}
}

func (r *fakeLikeRepo) ToggleLike(_ context.Context, postID, visitorID string) (bool, error) {
	if r.likes[postID] == nil {
		r.likes[postID] = make(map[string]bool)
	}
	if r.likes[postID][visitorID] {
		delete(r.likes[postID], visitorID)
		return false, nil
	}
	r.likes[postID][visitorID] = true
	return true, nil
}

func (r *fakeLikeRepo) GetLikesCountByPostID(_ context.Context, postID string) (int64, error) {
	return int64(len(r.likes[postID])), nil
}

func (r *fakeLikeRepo) GetLikesByPostIDs(_ context.Context, postIDs []string) ([]models.Like, error) {
	var out []models.Like
	for _, id := range postIDs {
		for visitor := range r.likes[id] {
			out = append(out, models.Like{PostID: id, VisitorID: visitor})
		}
	}
	return out, nil
}

// fakeObjectStore records uploads and serves canned signed URLs.
type fakeObjectStore struct {
	uploads   map[string]string // objectPath -> contentType
	uploadErr error
	signedURL string
	signErr   error
	signedFor []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		uploads:   make(map[string]string),
		signedURL: "https://storage.example.com/signed",
	}
}

func (s *fakeObjectStore) Upload(_ context.Context, objectPath, contentType string, r io.Reader) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	if _, err := io.ReadAll(r); err != nil {
		return err
	}
	s.uploads[objectPath] = contentType
	return nil
}

func (s *fakeObjectStore) SignedURL(objectPath string, _ time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	s.signedFor = append(s.signedFor, objectPath)
	return s.signedURL, nil
}

var errDownstream = errors.New("downstream failure")

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

// newTestContext builds an echo context with the visitor identity resolved,
// the way the VisitorIdentity middleware leaves it.
func newTestContext(e *echo.Echo, req *http.Request, visitorID string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if visitorID != "" {
		c.Set(middleware.VisitorContextKey, visitorID)
	}
	return c, rec
}

func activePost(id, hashtag string) *models.Post {
	return &models.Post{
		ID:              id,
		Pseudonym:       "anon",
		Hashtag:         hashtag,
		Theme:           "nature",
		AudioPath:       id + ".webm",
		DurationSeconds: 12,
		Status:          models.PostStatusActive,
		CreatedAt:       time.Now(),
	}
}
