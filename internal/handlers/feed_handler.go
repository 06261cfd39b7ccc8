package handlers

import (
	"net/http"
	"strings"

	"github.com/Voluto75/tapetag/internal/models"
	"github.com/Voluto75/tapetag/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository repositories.PostRepository
	likeRepository repositories.LikeRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, likeRepo repositories.LikeRepository) *FeedHandler {
	return &FeedHandler{
		postRepository: postRepo,
		likeRepository: likeRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/trending-tags", h.GetTrendingTags)
}

// GetFeed returns active posts matching the optional tag/theme/search
// filters, with engagement aggregates merged in
func (h *FeedHandler) GetFeed(c echo.Context) error {
	filter := repositories.FeedFilter{
		Theme: c.QueryParam("theme"),
		Query: c.QueryParam("q"),
		Mode:  c.QueryParam("mode"),
		Sort:  c.QueryParam("sort"),
	}
	if rawTag := c.QueryParam("tag"); rawTag != "" {
		filter.Hashtag = normalizeTagFilter(rawTag)
	}
	if filter.Mode == "" {
		filter.Mode = repositories.ModePseudonym
	}
	if filter.Sort == "" {
		filter.Sort = repositories.SortTop
	}

	posts, err := h.postRepository.QueryFeed(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views, err := annotatePosts(c, h.likeRepository, posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusOK, echo.Map{"items": views})
}

// GetTrendingTags returns the most used hashtags across recent active posts
func (h *FeedHandler) GetTrendingTags(c echo.Context) error {
	items, err := h.postRepository.GetTrendingTags(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// annotatePosts merges like aggregates into a page of posts with a single
// bulk fetch of like rows, avoiding one count query per post
func annotatePosts(c echo.Context, likeRepo repositories.LikeRepository, posts []models.Post) ([]models.PostView, error) {
	visitorID := getVisitorIDFromContext(c)

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	likes, err := likeRepo.GetLikesByPostIDs(c.Request().Context(), postIDs)
	if err != nil {
		return nil, err
	}

	likeCounts := make(map[string]int64)
	likedByMe := make(map[string]bool)
	for _, l := range likes {
		likeCounts[l.PostID]++
		if visitorID != "" && l.VisitorID == visitorID {
			likedByMe[l.PostID] = true
		}
	}

	views := make([]models.PostView, len(posts))
	for i, p := range posts {
		views[i] = models.PostView{
			Post:      p,
			Locked:    p.Locked(),
			LikeCount: likeCounts[p.ID],
			LikedByMe: likedByMe[p.ID],
		}
	}
	return views, nil
}

// normalizeTagFilter lowercases a tag filter and ensures the leading "#".
// Unlike creation-time normalization it never rejects; a tag that matches
// nothing simply yields an empty page.
func normalizeTagFilter(input string) string {
	h := strings.TrimSpace(input)
	if !strings.HasPrefix(h, "#") {
		h = "#" + h
	}
	return strings.ToLower(h)
}
