package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Voluto75/tapetag/internal/models"
	"github.com/Voluto75/tapetag/internal/passcode"
	"github.com/Voluto75/tapetag/internal/repositories"
	"github.com/Voluto75/tapetag/pkg/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// signedURLTTL is the validity window of issued playback URLs.
const signedURLTTL = 10 * time.Minute

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	likeRepository repositories.LikeRepository
	objectStore    storage.ObjectStore
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, likeRepo repositories.LikeRepository, store storage.ObjectStore) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		likeRepository: likeRepo,
		objectStore:    store,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/:id/replies", h.GetReplies)
	g.POST("/posts/:id/unlock", h.UnlockPost)
}

// CreatePost creates a new voice post from a multipart form
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("audio")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing audio")
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "audio/") {
		return echo.NewHTTPError(http.StatusBadRequest, "Audio file required")
	}

	hashtag, err := models.NormalizeHashtag(req.Hashtag)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	passcodeHash, err := passcode.Hash(req.Passcode)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer src.Close()

	audioPath := uuid.NewString() + "." + audioExtension(file.Filename)
	if err := h.objectStore.Upload(c.Request().Context(), audioPath, contentType, src); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	post := &models.Post{
		ID:              uuid.NewString(),
		Pseudonym:       req.Pseudonym,
		Hashtag:         hashtag,
		Theme:           req.Theme,
		Title:           optionalString(req.Title),
		Caption:         optionalString(req.Caption),
		AudioPath:       audioPath,
		DurationSeconds: req.Duration,
		Status:          models.PostStatusActive,
		PasscodeHash:    passcodeHash,
		ParentPostID:    optionalString(req.ParentID),
		CreatedAt:       time.Now(),
	}

	// An orphaned audio object is left behind if this insert fails.
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": post.ID})
}

// GetPost retrieves a single active post with engagement aggregates
func (h *PostHandler) GetPost(c echo.Context) error {
	postID := c.Param("id")

	post, err := h.postRepository.GetActivePostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views, err := annotatePosts(c, h.likeRepository, []models.Post{*post})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, views[0])
}

// GetReplies retrieves the active replies to a post, oldest first
func (h *PostHandler) GetReplies(c echo.Context) error {
	postID := c.Param("id")

	if _, err := h.postRepository.GetActivePostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	replies, err := h.postRepository.GetRepliesByParentID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views, err := annotatePosts(c, h.likeRepository, replies)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"items": views})
}

// UnlockPost verifies the passcode gate for a post and issues a time-limited
// signed playback URL. Order matters: a failed gate check performs no side
// effects, while a listen already counted is not rolled back when URL
// issuance fails afterwards.
func (h *PostHandler) UnlockPost(c echo.Context) error {
	postID := c.Param("id")

	var req models.UnlockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	post, err := h.postRepository.GetActivePostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !passcode.Verify(req.Passcode, post.PasscodeHash) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect passcode")
	}

	if err := h.postRepository.IncrementListenCount(c.Request().Context(), postID); err != nil {
		// The post can be deactivated between the fetch and the increment.
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	url, err := h.objectStore.SignedURL(post.AudioPath, signedURLTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

// audioExtension extracts the file extension from an uploaded filename,
// defaulting to webm (what browser recorders produce).
func audioExtension(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 && idx < len(filename)-1 {
		return filename[idx+1:]
	}
	return "webm"
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
