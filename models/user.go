package models

import (
	"math"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type SocialLinks struct {
	Twitter string `json:"twitter" gorm:"column:twitter"`
	Github  string `json:"github" gorm:"column:github"`
	Website string `json:"website" gorm:"column:website"`
}

type User struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Email       string      `json:"email" gorm:"uniqueIndex;not null"`
	Username    string      `json:"username" gorm:"uniqueIndex;not null"`
	Password    string      `json:"-" gorm:"not null"`
	Role        Role        `json:"role" gorm:"size:20;not null;default:user"`
	Bio         string      `json:"bio"`
	Avatar      string      `json:"avatar"`
	SocialLinks SocialLinks `json:"socialLinks" gorm:"embedded;embeddedPrefix:social_"`
	IsLocked    bool        `json:"isLocked" gorm:"default:false"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the self-service edit payload. It has no role field.
type UpdateProfileRequest struct {
	Username    *string      `json:"username" binding:"omitempty,min=3,max=30"`
	Bio         *string      `json:"bio" binding:"omitempty,max=500"`
	Avatar      *string      `json:"avatar" binding:"omitempty,max=500"`
	SocialLinks *SocialLinks `json:"socialLinks"`
}

// AdminUpdateUserRequest is what an admin may change on any account.
// Role is deliberately absent.
type AdminUpdateUserRequest struct {
	Username    *string      `json:"username" binding:"omitempty,min=3,max=30"`
	Email       *string      `json:"email" binding:"omitempty,email,max=254"`
	Bio         *string      `json:"bio" binding:"omitempty,max=500"`
	Avatar      *string      `json:"avatar" binding:"omitempty,max=500"`
	SocialLinks *SocialLinks `json:"socialLinks"`
	IsLocked    *bool        `json:"isLocked"`
}

// Profile returns the subset of fields shared with the self-service payload.
func (r *AdminUpdateUserRequest) Profile() *UpdateProfileRequest {
	return &UpdateProfileRequest{
		Username:    r.Username,
		Bio:         r.Bio,
		Avatar:      r.Avatar,
		SocialLinks: r.SocialLinks,
	}
}

func (u *User) HashPassword() error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// ProfileCompletion is the rounded percentage of filled profile fields.
func (u *User) ProfileCompletion() int {
	fields := []string{
		u.Username,
		u.Email,
		u.Bio,
		u.Avatar,
		u.SocialLinks.Twitter,
		u.SocialLinks.Github,
		u.SocialLinks.Website,
	}
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	return int(math.Round(float64(filled) / float64(len(fields)) * 100))
}
