package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rentaspace/rentals_backend/config"
	"github.com/rentaspace/rentals_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatementOverride corrects one (month, charge) cell during statement
// reconciliation. A row with a NULL override_val means the charge is
// explicitly zeroed for the period and excluded from the charged baseline,
// which is distinct from no row existing at all.
type StatementOverride struct {
	ID          int              `gorm:"primary_key" json:"id"`
	UserId      int              `gorm:"index;not null" json:"user_id"`
	LeaseId     int              `gorm:"not null;uniqueIndex:idx_override_cell,priority:1" json:"lease_id"`
	Year        int              `gorm:"not null;uniqueIndex:idx_override_cell,priority:2" json:"year"`
	Month       int              `gorm:"not null;uniqueIndex:idx_override_cell,priority:3" json:"month"`
	ChargeId    string           `gorm:"size:100;not null;uniqueIndex:idx_override_cell,priority:4" json:"charge_id"`
	OverrideVal *decimal.Decimal `gorm:"type:decimal(20,4)" json:"override_val"`
	Note        string           `gorm:"type:text" json:"note"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewStatementOverride struct {
	LeaseId     int              `json:"lease_id" binding:"required"`
	Year        int              `json:"year" binding:"required"`
	Month       int              `json:"month" binding:"required"`
	ChargeId    string           `json:"charge_id" binding:"required"`
	OverrideVal *decimal.Decimal `json:"override_val"`
	Note        string           `json:"note"`
}

// UpsertStatementOverride creates or replaces the override cell keyed by
// (lease_id, year, month, charge_id).
func UpsertStatementOverride(ctx context.Context, input *NewStatementOverride) (*StatementOverride, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	if input.Month < 1 || input.Month > 12 {
		return nil, errors.New("month must be between 1 and 12")
	}
	if err := utils.ValidateResourceId[Lease](ctx, userId, input.LeaseId); err != nil {
		return nil, fmt.Errorf("lease not found: %w", err)
	}

	db := config.GetDB()
	var override StatementOverride
	err := db.WithContext(ctx).
		Where("lease_id = ? AND year = ? AND month = ? AND charge_id = ?",
			input.LeaseId, input.Year, input.Month, input.ChargeId).
		First(&override).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if err == gorm.ErrRecordNotFound {
		override = StatementOverride{
			UserId:      userId,
			LeaseId:     input.LeaseId,
			Year:        input.Year,
			Month:       input.Month,
			ChargeId:    input.ChargeId,
			OverrideVal: input.OverrideVal,
			Note:        input.Note,
		}
		if err := db.WithContext(ctx).Create(&override).Error; err != nil {
			return nil, err
		}
		return &override, nil
	}

	err = db.WithContext(ctx).Model(&override).Updates(map[string]interface{}{
		"OverrideVal": input.OverrideVal,
		"Note":        input.Note,
	}).Error
	if err != nil {
		return nil, err
	}
	override.OverrideVal = input.OverrideVal
	override.Note = input.Note
	return &override, nil
}

func DeleteStatementOverride(ctx context.Context, id int) (*StatementOverride, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	override, err := utils.FetchModel[StatementOverride](ctx, userId, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(override).Error; err != nil {
		return nil, err
	}
	return override, nil
}

func ListStatementOverrides(ctx context.Context, leaseId int) ([]*StatementOverride, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	db := config.GetDB()
	var overrides []*StatementOverride
	err := db.WithContext(ctx).
		Where("user_id = ? AND lease_id = ?", userId, leaseId).
		Order("year asc, month asc, charge_id asc").
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}
