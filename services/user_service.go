package services

import (
	"context"
	"errors"
	"strings"

	"inkwell/models"
	"inkwell/utils"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUser registers a principal with the given role. Email and username
// uniqueness is checked up front so the caller gets a readable message.
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest, role models.Role) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, utils.InvalidInput("Validation failed", "username: is required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error; err != nil {
		return nil, utils.Internal(err)
	}
	if count > 0 {
		return nil, utils.InvalidInput("User with this email or username already exists")
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Password: req.Password,
		Role:     role,
	}

	if err := user.HashPassword(); err != nil {
		return nil, utils.Internal(err)
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, utils.Internal(err)
	}

	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if utils.KindOf(err) == utils.KindNotFound {
			return nil, utils.Unauthenticated("Invalid credentials")
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, utils.Unauthenticated("Invalid credentials")
	}
	if user.IsLocked {
		return nil, utils.Forbidden("This account is locked")
	}
	return user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return users, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, utils.Internal(err)
	}
	return &user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, utils.Internal(err)
	}
	return &user, nil
}

// UserDetail is the admin view of one account.
type UserDetail struct {
	User              *models.User  `json:"user"`
	Posts             []models.Post `json:"posts"`
	ProfileCompletion int           `json:"profileCompletion"`
}

func (s *UserService) GetUserDetail(ctx context.Context, id uint) (*UserDetail, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	posts := []models.Post{}
	if err := s.db.WithContext(ctx).
		Preload("Categories").
		Preload("TagRows").
		Where("author_id = ?", id).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, utils.Internal(err)
	}

	return &UserDetail{
		User:              user,
		Posts:             posts,
		ProfileCompletion: user.ProfileCompletion(),
	}, nil
}

// UpdateProfile applies the self-service fields. Role is never touched here.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProfile(ctx, user, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return user, nil
}

// AdminUpdateUser applies profile fields plus email and lock state.
func (s *UserService) AdminUpdateUser(ctx context.Context, id uint, req *models.AdminUpdateUserRequest) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProfile(ctx, user, req.Profile()); err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if err := s.ensureFree(ctx, "email", email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.IsLocked != nil {
		user.IsLocked = *req.IsLocked
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return user, nil
}

func (s *UserService) applyProfile(ctx context.Context, user *models.User, req *models.UpdateProfileRequest) error {
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return utils.InvalidInput("Validation failed", "username: is required")
		}
		if username != user.Username {
			if err := s.ensureFree(ctx, "username", username, user.ID); err != nil {
				return err
			}
			user.Username = username
		}
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Avatar != nil {
		user.Avatar = strings.TrimSpace(*req.Avatar)
	}
	if req.SocialLinks != nil {
		user.SocialLinks = models.SocialLinks{
			Twitter: strings.TrimSpace(req.SocialLinks.Twitter),
			Github:  strings.TrimSpace(req.SocialLinks.Github),
			Website: strings.TrimSpace(req.SocialLinks.Website),
		}
	}
	return nil
}

func (s *UserService) ensureFree(ctx context.Context, column, value string, self uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where(column+" = ? AND id <> ?", value, self).
		Count(&count).Error; err != nil {
		return utils.Internal(err)
	}
	if count > 0 {
		return utils.InvalidInput("Validation failed", column+": is already taken")
	}
	return nil
}

// DeleteUser removes a non-admin account together with its posts.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return utils.Forbidden("Admin users cannot be deleted")
	}

	db := s.db.WithContext(ctx)
	postIDs := db.Model(&models.Post{}).Select("id").Where("author_id = ?", id)
	if err := db.Where("post_id IN (?)", postIDs).Delete(&models.PostTag{}).Error; err != nil {
		return utils.Internal(err)
	}
	if err := db.Where("post_id IN (?)", postIDs).Delete(&models.PostLike{}).Error; err != nil {
		return utils.Internal(err)
	}
	if err := db.Exec("DELETE FROM post_categories WHERE post_id IN (?)", postIDs).Error; err != nil {
		return utils.Internal(err)
	}
	if err := db.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
		return utils.Internal(err)
	}
	if err := db.Delete(&models.User{}, id).Error; err != nil {
		return utils.Internal(err)
	}
	return nil
}
