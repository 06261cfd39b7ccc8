package models

import "time"

// Like represents an anonymous visitor's like on a post.
// The combination of PostID and VisitorID must be unique.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"type:uuid;not null;uniqueIndex:idx_post_visitor"`
	VisitorID string    `json:"visitor_id" gorm:"type:uuid;not null;uniqueIndex:idx_post_visitor"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleLikeRequest defines the request body for toggling a like
type ToggleLikeRequest struct {
	PostID string `json:"post_id" validate:"required,uuid"`
}
