package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rentaspace/rentals_backend/config"
	"github.com/rentaspace/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

type Unit struct {
	ID         int             `gorm:"primary_key" json:"id"`
	UserId     int             `gorm:"index;not null" json:"user_id"`
	PropertyId int             `gorm:"index;not null" json:"property_id" binding:"required"`
	Label      string          `gorm:"size:100;not null" json:"label" binding:"required"`
	Floor      int             `json:"floor"`
	SizeM2     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"size_m2"`
	Note       string          `gorm:"type:text" json:"note"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUnit struct {
	PropertyId int             `json:"property_id" binding:"required"`
	Label      string          `json:"label" binding:"required"`
	Floor      int             `json:"floor"`
	SizeM2     decimal.Decimal `json:"size_m2"`
	Note       string          `json:"note"`
}

func (input *NewUnit) validate(ctx context.Context, userId int) error {
	if err := utils.ValidateResourceId[Property](ctx, userId, input.PropertyId); err != nil {
		return fmt.Errorf("property not found: %w", err)
	}
	return nil
}

func CreateUnit(ctx context.Context, input *NewUnit) (*Unit, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}

	unit := Unit{
		UserId:     userId,
		PropertyId: input.PropertyId,
		Label:      input.Label,
		Floor:      input.Floor,
		SizeM2:     input.SizeM2,
		Note:       input.Note,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func UpdateUnit(ctx context.Context, id int, input *NewUnit) (*Unit, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	unit, err := utils.FetchModel[Unit](ctx, userId, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}

	unit.PropertyId = input.PropertyId
	unit.Label = input.Label
	unit.Floor = input.Floor
	unit.SizeM2 = input.SizeM2
	unit.Note = input.Note

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(unit).Error; err != nil {
		return nil, err
	}
	return unit, nil
}

func DeleteUnit(ctx context.Context, id int) (*Unit, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	unit, err := utils.FetchModel[Unit](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Lease](ctx, userId, "unit_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("unit has leases; delete them first")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(unit).Error; err != nil {
		return nil, err
	}
	return unit, nil
}

func GetUnit(ctx context.Context, id int) (*Unit, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	return utils.FetchModel[Unit](ctx, userId, id)
}

func ListUnits(ctx context.Context, propertyId int) ([]*Unit, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("user_id = ?", userId)
	if propertyId > 0 {
		dbCtx = dbCtx.Where("property_id = ?", propertyId)
	}
	var units []*Unit
	if err := dbCtx.Order("label asc").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}
