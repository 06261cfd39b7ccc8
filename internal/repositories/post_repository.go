package repositories

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Voluto75/tapetag/internal/models"
	"gorm.io/gorm"
)

// ErrPostNotFound is returned when a post does not exist or is not active.
var ErrPostNotFound = errors.New("post not found")

// Feed sort orders
const (
	SortTop    = "top"
	SortRecent = "recent"
)

// Query modes for free-text feed search
const (
	ModePseudonym = "pseudonym"
	ModeHashtag   = "hashtag"
)

// FeedLimit is the hard cap on feed page size.
const FeedLimit = 50

// TrendingScanLimit bounds how many active posts the trending computation reads.
const TrendingScanLimit = 2000

// TrendingTagsLimit is the number of tags returned by the trending listing.
const TrendingTagsLimit = 40

// FeedFilter describes an optional, composable feed query.
type FeedFilter struct {
	Hashtag string // exact match, already normalized
	Theme   string
	Query   string // free text
	Mode    string // ModePseudonym (default) or ModeHashtag
	Sort    string // SortTop (default) or SortRecent
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetActivePostByID(ctx context.Context, id string) (*models.Post, error)
	QueryFeed(ctx context.Context, filter FeedFilter) ([]models.Post, error)
	GetRepliesByParentID(ctx context.Context, parentID string) ([]models.Post, error)
	IncrementListenCount(ctx context.Context, id string) error
	GetTrendingTags(ctx context.Context) ([]models.TagCount, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post in PostgreSQL
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetActivePostByID retrieves an active post by ID. Missing and inactive
// posts are indistinguishable to callers: both yield ErrPostNotFound.
func (r *PostgresPostRepository) GetActivePostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.PostStatusActive).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// QueryFeed retrieves active posts matching the filter, capped at FeedLimit
func (r *PostgresPostRepository) QueryFeed(ctx context.Context, filter FeedFilter) ([]models.Post, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("status = ?", models.PostStatusActive)

	if filter.Hashtag != "" {
		q = q.Where("hashtag = ?", filter.Hashtag)
	}
	if filter.Theme != "" {
		q = q.Where("theme = ?", filter.Theme)
	}

	if text := strings.TrimSpace(filter.Query); text != "" {
		if filter.Mode == ModeHashtag || strings.HasPrefix(text, "#") {
			prefix := strings.ToLower(text)
			if !strings.HasPrefix(prefix, "#") {
				prefix = "#" + prefix
			}
			q = q.Where("hashtag LIKE ?", escapeLikePattern(prefix)+"%")
		} else {
			q = q.Where("pseudonym ILIKE ?", "%"+escapeLikePattern(text)+"%")
		}
	}

	switch filter.Sort {
	case SortRecent:
		q = q.Order("created_at DESC")
	default:
		q = q.Order("listen_count DESC").Order("created_at DESC")
	}

	var posts []models.Post
	if err := q.Limit(FeedLimit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetRepliesByParentID retrieves active replies to a post, oldest first
func (r *PostgresPostRepository) GetRepliesByParentID(ctx context.Context, parentID string) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("parent_post_id = ? AND status = ?", parentID, models.PostStatusActive).
		Order("created_at ASC").
		Limit(FeedLimit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// IncrementListenCount bumps a post's listen count by one as a single
// atomic update, so concurrent unlocks never lose an increment.
func (r *PostgresPostRepository) IncrementListenCount(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("listen_count", gorm.Expr("listen_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// GetTrendingTags scans up to TrendingScanLimit active posts and returns the
// TrendingTagsLimit most used hashtags
func (r *PostgresPostRepository) GetTrendingTags(ctx context.Context) ([]models.TagCount, error) {
	var hashtags []string
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("status = ?", models.PostStatusActive).
		Limit(TrendingScanLimit).
		Pluck("hashtag", &hashtags).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, tag := range hashtags {
		if tag == "" {
			continue
		}
		counts[tag]++
	}

	items := make([]models.TagCount, 0, len(counts))
	for tag, count := range counts {
		items = append(items, models.TagCount{Hashtag: tag, Count: count})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Hashtag < items[j].Hashtag
	})
	if len(items) > TrendingTagsLimit {
		items = items[:TrendingTagsLimit]
	}
	return items, nil
}

// escapeLikePattern escapes characters meaningful to SQL LIKE/ILIKE so that
// user input is matched literally.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
