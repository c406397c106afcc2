package model

import "time"

type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	AuthorID  string    `gorm:"size:36;not null;index:idx_posts_author_published" json:"author_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURL  *string   `gorm:"size:512" json:"image_url"`
	Published bool      `gorm:"not null;default:false;index:idx_posts_author_published" json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *PostAuthor `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

// PostAuthor is the slice of the users table that may travel with a post.
// The password hash and email never pass through this join.
type PostAuthor struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `json:"name"`
}

func (PostAuthor) TableName() string { return "users" }
