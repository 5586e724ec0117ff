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

// Payment is a record of money received against a lease, optionally applied
// to one monthly obligation. paid_amount/debt on the obligation are derived
// aggregates: every write path here recomputes them in the same transaction
// so a concurrent payment cannot leave the obligation stale.
type Payment struct {
	ID                  int              `gorm:"primary_key" json:"id"`
	UserId              int              `gorm:"index;not null" json:"user_id"`
	LeaseId             int              `gorm:"index;not null" json:"lease_id" binding:"required"`
	MonthlyObligationId *int             `gorm:"index" json:"monthly_obligation_id"`
	Amount              *decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount" binding:"required"`
	PaymentDate         *time.Time       `gorm:"not null" json:"payment_date" binding:"required"`
	PaymentType         PaymentType      `gorm:"size:50" json:"payment_type"`
	Note                string           `gorm:"type:text" json:"note"`
	VariableSymbol      string           `gorm:"size:50" json:"variable_symbol"`
	PaymentMonth        string           `gorm:"size:7" json:"payment_month"`
	CreatedAt           time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPayment struct {
	LeaseId             int              `json:"lease_id" binding:"required"`
	MonthlyObligationId *int             `json:"monthly_obligation_id"`
	Amount              *decimal.Decimal `json:"amount"`
	PaymentDate         *time.Time       `json:"payment_date"`
	PaymentType         PaymentType      `json:"payment_type"`
	Note                string           `json:"note"`
	VariableSymbol      string           `json:"variable_symbol"`
	PaymentMonth        string           `json:"payment_month"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewPayment) validate(ctx context.Context, userId int, _ int) error {
	if input.Amount == nil {
		return errors.New("amount is required")
	}
	if input.PaymentDate == nil {
		return errors.New("payment date is required")
	}
	if err := input.PaymentType.Validate(); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Lease](ctx, userId, input.LeaseId); err != nil {
		return fmt.Errorf("lease not found: %w", err)
	}
	if input.MonthlyObligationId != nil {
		count, err := utils.ResourceCountWhere[MonthlyObligation](ctx, userId,
			"id = ? AND lease_id = ?", *input.MonthlyObligationId, input.LeaseId)
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("monthly obligation not found: %w", utils.ErrorRecordNotFound)
		}
	}
	if input.PaymentMonth != "" {
		if _, err := utils.ParseYearMonth(input.PaymentMonth); err != nil {
			return err
		}
	}
	return nil
}

// applyPaymentTotals recomputes paid_amount and debt on an obligation by
// summing its linked payments, inside the caller's transaction.
func applyPaymentTotals(tx *gorm.DB, ctx context.Context, obligationId int) error {
	var obligation MonthlyObligation
	if err := tx.WithContext(ctx).First(&obligation, obligationId).Error; err != nil {
		return err
	}

	var paid decimal.Decimal
	err := tx.WithContext(ctx).Model(&Payment{}).
		Where("monthly_obligation_id = ?", obligationId).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paid).Error
	if err != nil {
		return err
	}

	return tx.WithContext(ctx).Model(&obligation).Updates(map[string]interface{}{
		"PaidAmount": paid,
		"Debt":       obligation.TotalDue.Sub(paid),
	}).Error
}

func CreatePayment(ctx context.Context, input *NewPayment) (*Payment, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	if err := input.validate(ctx, userId, 0); err != nil {
		return nil, err
	}

	payment := Payment{
		UserId:              userId,
		LeaseId:             input.LeaseId,
		MonthlyObligationId: input.MonthlyObligationId,
		Amount:              input.Amount,
		PaymentDate:         input.PaymentDate,
		PaymentType:         input.PaymentType,
		Note:                input.Note,
		VariableSymbol:      input.VariableSymbol,
		PaymentMonth:        input.PaymentMonth,
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&payment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if payment.MonthlyObligationId != nil {
		if err := applyPaymentTotals(tx, ctx, *payment.MonthlyObligationId); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func UpdatePayment(ctx context.Context, id int, input *NewPayment) (*Payment, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	existing, err := utils.FetchModel[Payment](ctx, userId, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, userId, id); err != nil {
		return nil, err
	}

	update := Payment{
		ID:                  id,
		UserId:              userId,
		LeaseId:             input.LeaseId,
		MonthlyObligationId: input.MonthlyObligationId,
		Amount:              input.Amount,
		PaymentDate:         input.PaymentDate,
		PaymentType:         input.PaymentType,
		Note:                input.Note,
		VariableSymbol:      input.VariableSymbol,
		PaymentMonth:        input.PaymentMonth,
	}

	db := config.GetDB()
	tx := db.Begin()
	err = tx.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"LeaseId":             update.LeaseId,
		"MonthlyObligationId": update.MonthlyObligationId,
		"Amount":              update.Amount,
		"PaymentDate":         update.PaymentDate,
		"PaymentType":         update.PaymentType,
		"Note":                update.Note,
		"VariableSymbol":      update.VariableSymbol,
		"PaymentMonth":        update.PaymentMonth,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	// both the old and the new obligation need fresh totals when the link moves
	if existing.MonthlyObligationId != nil {
		if err := applyPaymentTotals(tx, ctx, *existing.MonthlyObligationId); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if update.MonthlyObligationId != nil &&
		utils.DereferencePtr(existing.MonthlyObligationId) != *update.MonthlyObligationId {
		if err := applyPaymentTotals(tx, ctx, *update.MonthlyObligationId); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &update, nil
}

func DeletePayment(ctx context.Context, id int) (*Payment, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	payment, err := utils.FetchModel[Payment](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Delete(payment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if payment.MonthlyObligationId != nil {
		if err := applyPaymentTotals(tx, ctx, *payment.MonthlyObligationId); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func GetPayment(ctx context.Context, id int) (*Payment, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	return utils.FetchModel[Payment](ctx, userId, id)
}

// ListPayments filters by lease and/or obligation; zero means no filter.
func ListPayments(ctx context.Context, leaseId int, obligationId int) ([]*Payment, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("user_id = ?", userId)
	if leaseId > 0 {
		dbCtx = dbCtx.Where("lease_id = ?", leaseId)
	}
	if obligationId > 0 {
		dbCtx = dbCtx.Where("monthly_obligation_id = ?", obligationId)
	}
	var payments []*Payment
	if err := dbCtx.Order("payment_date desc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
