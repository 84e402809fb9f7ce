package models

import "time"

type Category struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Slug          string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description   string    `json:"description"`
	FeaturedImage string    `json:"featuredImage"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CategoryInput struct {
	Name          string `json:"name" binding:"required,max=100"`
	Description   string `json:"description" binding:"max=500"`
	FeaturedImage string `json:"featuredImage" binding:"max=500"`
}

// CategoryFacet is a per-category count of published posts.
type CategoryFacet struct {
	ID    uint   `json:"id,omitempty"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int64  `json:"count"`
}

// AuthorFacet counts matched posts per author in search results.
type AuthorFacet struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Count    int64  `json:"count"`
}

// TagCount is a tag name with the number of posts carrying it.
type TagCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
