package repositories

import (
	"context"

	"github.com/Voluto75/tapetag/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	ToggleLike(ctx context.Context, postID, visitorID string) (bool, error)
	GetLikesCountByPostID(ctx context.Context, postID string) (int64, error)
	GetLikesByPostIDs(ctx context.Context, postIDs []string) ([]models.Like, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// ToggleLike flips the like relation for a (post, visitor) pair and reports
// the resulting state. Delete-then-insert keeps each step a single
// statement; the unique index on (post_id, visitor_id) absorbs concurrent
// duplicate inserts via ON CONFLICT DO NOTHING.
func (r *PostgresLikeRepository) ToggleLike(ctx context.Context, postID, visitorID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND visitor_id = ?", postID, visitorID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := &models.Like{PostID: postID, VisitorID: visitorID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "visitor_id"}},
			DoNothing: true,
		}).
		Create(like).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetLikesCountByPostID retrieves the exact count of likes for a post
func (r *PostgresLikeRepository) GetLikesCountByPostID(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetLikesByPostIDs retrieves all like rows for a set of posts in one query
func (r *PostgresLikeRepository) GetLikesByPostIDs(ctx context.Context, postIDs []string) ([]models.Like, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}
