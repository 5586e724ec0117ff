package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rentaspace/rentals_backend/config"
	"github.com/rentaspace/rentals_backend/utils"
	"gorm.io/gorm"
)

// User is a landlord account. Every domain row is scoped by user_id.
type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Email     string    `gorm:"size:100;not null;unique" json:"email" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Password  string    `gorm:"size:255;not null" json:"password"`
	IsActive  *bool     `gorm:"not null" json:"is_active"`
	Role      UserRole  `gorm:"type:enum('A', 'L');default:L" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

type LoginInfo struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (result *User) PrepareGive() {
	result.Password = ""
}

func RegisterUser(ctx context.Context, input *NewUser) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !utils.IsValidEmail(email) {
		return nil, errors.New("invalid email")
	}
	if len(input.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, errors.New("invalid phone number")
		}
	}

	if err := utils.ValidateUnique[User](ctx, 0, "email", email, 0); err != nil {
		return nil, err
	}

	db := config.GetDB()
	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Email:    email,
		Name:     input.Name,
		Phone:    input.Phone,
		Password: string(hashed),
		IsActive: utils.NewTrue(),
		Role:     UserRoleLandlord,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	user.PrepareGive()
	return &user, nil
}

func Login(ctx context.Context, email string, password string) (*LoginInfo, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("invalid email or password")
		}
		return nil, err
	}
	if user.IsActive == nil || !*user.IsActive {
		return nil, errors.New("account is disabled")
	}
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	role := "Landlord"
	if user.Role == UserRoleAdmin {
		role = "Admin"
	}
	token, err := utils.JwtGenerate(user.ID, role)
	if err != nil {
		return nil, err
	}
	// the middleware only honors tokens that still have a redis session entry
	if err := config.SetRedisValue("Token:"+token, email, utils.TokenLifespan()); err != nil {
		config.LogError(config.GetLogger(), "user.go", "Login", "SetRedisValue", email, err)
	}
	// per-account token set for logout-everywhere
	if err := config.AddRedisSet("Tokens:"+email, token); err != nil {
		config.LogError(config.GetLogger(), "user.go", "Login", "AddRedisSet", email, err)
	}

	return &LoginInfo{
		Token: token,
		Name:  user.Name,
		Role:  role,
	}, nil
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return false, errors.New("user not found")
	}
	user, err := utils.FetchSingleModel[User](ctx, userId)
	if err != nil {
		return false, err
	}
	if err := config.RemoveRedisSetMember("Tokens:"+user.Email, token); err != nil {
		return false, err
	}
	if err := config.RemoveRedisKey("Token:" + token); err != nil {
		return false, err
	}
	return true, nil
}

// LogoutAll revokes every session the account has ever opened by dropping
// all of its redis session entries.
func LogoutAll(ctx context.Context) (int, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return 0, errors.New("user not found")
	}
	user, err := utils.FetchSingleModel[User](ctx, userId)
	if err != nil {
		return 0, err
	}
	tokens, err := config.GetRedisSetMembers("Tokens:" + user.Email)
	if err != nil {
		return 0, err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, "Token:"+t)
	}
	keys = append(keys, "Tokens:"+user.Email)
	if err := config.RemoveRedisKey(keys...); err != nil {
		return 0, err
	}
	return len(tokens), nil
}

func GetMe(ctx context.Context) (*User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	user, err := utils.FetchSingleModel[User](ctx, userId)
	if err != nil {
		return nil, err
	}
	user.PrepareGive()
	return user, nil
}
