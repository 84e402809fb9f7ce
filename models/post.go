package models

import (
	"time"

	"gorm.io/gorm"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// ParseStatus maps anything that is not a known status to draft.
func ParseStatus(s string) PostStatus {
	if PostStatus(s) == StatusPublished {
		return StatusPublished
	}
	return StatusDraft
}

type PostMeta struct {
	Views     int64  `json:"views" gorm:"column:views;not null;default:0"`
	LikeCount int64  `json:"likeCount" gorm:"column:like_count;not null;default:0"`
	Likes     []uint `json:"likes" gorm:"-"`
}

type PostSEO struct {
	Title       string   `json:"title" gorm:"column:title"`
	Description string   `json:"description" gorm:"column:description"`
	Keywords    []string `json:"keywords" gorm:"column:keywords;serializer:json"`
}

type Post struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Title         string     `json:"title" gorm:"not null"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content" gorm:"type:text;not null"`
	ContentHTML   string     `json:"contentHtml,omitempty" gorm:"-"`
	AuthorID      uint       `json:"authorId" gorm:"not null;index"`
	Author        *Author    `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Status        PostStatus `json:"status" gorm:"size:20;not null;index;default:draft"`
	FeaturedImage string     `json:"featuredImage"`
	ContentType   string     `json:"contentType" gorm:"size:50;not null;default:article;index"`
	Featured      bool       `json:"featured" gorm:"not null;default:false"`
	ReadTime      string     `json:"readTime"`
	ReadMinutes   int        `json:"readMinutes" gorm:"not null;default:1"`
	Meta          PostMeta   `json:"meta" gorm:"embedded;embeddedPrefix:meta_"`
	SEO           PostSEO    `json:"seo" gorm:"embedded;embeddedPrefix:seo_"`
	Categories    []Category `json:"categories" gorm:"many2many:post_categories"`
	Tags          []string   `json:"tags" gorm:"-"`
	TagRows       []PostTag  `json:"-" gorm:"foreignKey:PostID"`
	LikeRows      []PostLike `json:"-" gorm:"foreignKey:PostID"`
	PublishedAt   *time.Time `json:"publishedAt" gorm:"index"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// AfterFind flattens preloaded tag and like rows into their API shapes.
func (p *Post) AfterFind(tx *gorm.DB) error {
	if p.TagRows != nil {
		p.Tags = make([]string, 0, len(p.TagRows))
		for _, t := range p.TagRows {
			p.Tags = append(p.Tags, t.Name)
		}
	}
	if p.LikeRows != nil {
		p.Meta.Likes = make([]uint, 0, len(p.LikeRows))
		for _, l := range p.LikeRows {
			p.Meta.Likes = append(p.Meta.Likes, l.UserID)
		}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Meta.Likes == nil {
		p.Meta.Likes = []uint{}
	}
	if p.Categories == nil {
		p.Categories = []Category{}
	}
	return nil
}

func (p *Post) IsOwnedBy(u *User) bool {
	return u != nil && u.ID == p.AuthorID
}

// Author is the public projection of a user attached to posts.
type Author struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
}

func (Author) TableName() string { return "users" }

// PostTag is one tag string on one post. Tags have no table of their own.
type PostTag struct {
	PostID uint   `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Name   string `json:"name" gorm:"primaryKey;size:100;index"`
}

type PostLike struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostInput is the create/update payload for posts. Derived fields
// (readTime, seo, publishedAt, authorId) are never accepted from clients.
type PostInput struct {
	Title         string   `json:"title" binding:"required,max=200"`
	Content       string   `json:"content" binding:"required"`
	Excerpt       string   `json:"excerpt" binding:"max=500"`
	Categories    []uint   `json:"categories" binding:"max=10"`
	Tags          []string `json:"tags" binding:"max=20,dive,max=100"`
	FeaturedImage string   `json:"featuredImage" binding:"max=500"`
	ContentType   string   `json:"contentType" binding:"max=50"`
	Featured      bool     `json:"featured"`
	Status        string   `json:"status"`
}
