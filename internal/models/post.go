package models

import "time"

// PostStatusActive is the only status visible to clients.
const PostStatusActive = "active"

// Post represents a voice post. AudioPath and PasscodeHash are never
// serialized to clients; playback goes through the unlock endpoint.
type Post struct {
	ID              string    `json:"id" gorm:"type:uuid;primaryKey"`
	Pseudonym       string    `json:"pseudonym" gorm:"not null"`
	Hashtag         string    `json:"hashtag" gorm:"not null;index"`
	Theme           string    `json:"theme" gorm:"not null;index"`
	Title           *string   `json:"title,omitempty"`
	Caption         *string   `json:"caption,omitempty"`
	AudioPath       string    `json:"-" gorm:"not null"`
	DurationSeconds int       `json:"duration_seconds" gorm:"not null"`
	Status          string    `json:"-" gorm:"not null;default:active;index"`
	PasscodeHash    *string   `json:"-"`
	ListenCount     int64     `json:"listen_count" gorm:"not null;default:0"`
	ParentPostID    *string   `json:"parent_post_id,omitempty" gorm:"type:uuid;index"`
	CreatedAt       time.Time `json:"created_at"`
}

// Locked reports whether playback requires a passcode.
func (p *Post) Locked() bool {
	return p.PasscodeHash != nil
}

// CreatePostRequest defines the multipart form fields for creating a post
type CreatePostRequest struct {
	Pseudonym string `form:"pseudonym" validate:"required,min=1,max=40"`
	Hashtag   string `form:"hashtag" validate:"required,min=1,max=40"`
	Theme     string `form:"theme" validate:"required,oneof=politique foot sex nourriture business autre-sport jeux-video informatique nature"`
	ParentID  string `form:"parent_id" validate:"omitempty,uuid"`
	Title     string `form:"title" validate:"omitempty,max=80"`
	Caption   string `form:"caption" validate:"omitempty,max=280"`
	Passcode  string `form:"passcode" validate:"omitempty,max=64"`
	Duration  int    `form:"duration" validate:"required,min=1,max=30"`
}

// UnlockRequest defines the request body for unlocking a post's audio
type UnlockRequest struct {
	Passcode string `json:"passcode"`
}

// PostView is a post as rendered in feed responses, with engagement
// aggregates merged in.
type PostView struct {
	Post
	Locked    bool  `json:"locked"`
	LikeCount int64 `json:"like_count"`
	LikedByMe bool  `json:"liked_by_me"`
}

// TagCount is one entry of the trending tags listing
type TagCount struct {
	Hashtag string `json:"hashtag"`
	Count   int    `json:"count"`
}
