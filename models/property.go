package models

import (
	"context"
	"errors"
	"time"

	"github.com/rentaspace/rentals_backend/config"
	"github.com/rentaspace/rentals_backend/utils"
)

type Property struct {
	ID        int       `gorm:"primary_key" json:"id"`
	UserId    int       `gorm:"index;not null" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Address   string    `gorm:"size:255" json:"address"`
	City      string    `gorm:"size:100" json:"city"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProperty struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
	Note    string `json:"note"`
}

func CreateProperty(ctx context.Context, input *NewProperty) (*Property, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	property := Property{
		UserId:  userId,
		Name:    input.Name,
		Address: input.Address,
		City:    input.City,
		Note:    input.Note,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func UpdateProperty(ctx context.Context, id int, input *NewProperty) (*Property, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	property, err := utils.FetchModel[Property](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	property.Name = input.Name
	property.Address = input.Address
	property.City = input.City
	property.Note = input.Note

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

func DeleteProperty(ctx context.Context, id int) (*Property, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	property, err := utils.FetchModel[Property](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	// units still referencing the property block the delete
	count, err := utils.ResourceCountWhere[Unit](ctx, userId, "property_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("property has units; delete them first")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

func GetProperty(ctx context.Context, id int) (*Property, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	return utils.FetchModel[Property](ctx, userId, id)
}

func ListProperties(ctx context.Context) ([]*Property, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	return utils.FetchAllModels[Property](ctx, userId)
}
