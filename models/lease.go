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

// Lease ties a unit and a tenant together over an active date range and
// carries the recurring charge configuration. Editing the configuration
// never touches already generated monthly obligations; those change only
// through an explicit UpdateObligations call.
type Lease struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	UserId             int             `gorm:"index;not null" json:"user_id"`
	UnitId             int             `gorm:"index;not null" json:"unit_id" binding:"required"`
	TenantId           int             `gorm:"index;not null" json:"tenant_id" binding:"required"`
	StartDate          time.Time       `gorm:"not null" json:"start_date" binding:"required"`
	EndDate            *time.Time      `json:"end_date"`
	DueDay             int             `gorm:"default:1" json:"due_day"`
	RentAmount         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"rent_amount"`
	MonthlyWater       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"monthly_water"`
	MonthlyGas         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"monthly_gas"`
	MonthlyElectricity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"monthly_electricity"`
	MonthlyServices    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"monthly_services"`
	RepairFund         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"repair_fund"`
	ChargeFlags        ChargeFlags     `gorm:"type:json" json:"charge_flags"`
	CustomCharges      CustomCharges   `gorm:"type:json" json:"custom_charges"`
	TotalBillableRent  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_billable_rent"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewLease struct {
	UnitId             int             `json:"unit_id" binding:"required"`
	TenantId           int             `json:"tenant_id" binding:"required"`
	StartDate          time.Time       `json:"start_date" binding:"required"`
	EndDate            *time.Time      `json:"end_date"`
	DueDay             int             `json:"due_day"`
	RentAmount         decimal.Decimal `json:"rent_amount"`
	MonthlyWater       decimal.Decimal `json:"monthly_water"`
	MonthlyGas         decimal.Decimal `json:"monthly_gas"`
	MonthlyElectricity decimal.Decimal `json:"monthly_electricity"`
	MonthlyServices    decimal.Decimal `json:"monthly_services"`
	RepairFund         decimal.Decimal `json:"repair_fund"`
	ChargeFlags        ChargeFlags     `json:"charge_flags"`
	CustomCharges      CustomCharges   `json:"custom_charges"`
}

// ChargeAmount returns the configured amount for a standard charge type,
// gated by its flag: disabled types bill as zero.
func (l *Lease) ChargeAmount(key ChargeKey) decimal.Decimal {
	if !l.ChargeFlags.Enabled(key) {
		return decimal.Zero
	}
	switch key {
	case ChargeKeyRent:
		return l.RentAmount
	case ChargeKeyWater:
		return l.MonthlyWater
	case ChargeKeyGas:
		return l.MonthlyGas
	case ChargeKeyElectricity:
		return l.MonthlyElectricity
	case ChargeKeyServices:
		return l.MonthlyServices
	case ChargeKeyRepairFund:
		return l.RepairFund
	}
	return decimal.Zero
}

// BillableTotal derives the monthly total from flag-enabled standard amounts
// plus enabled custom charges. total_billable_rent on the row is always this
// value; it is never accepted from input.
func (l *Lease) BillableTotal() decimal.Decimal {
	total := decimal.Zero
	for _, key := range StandardChargeKeys {
		total = total.Add(l.ChargeAmount(key))
	}
	return total.Add(l.CustomCharges.Total())
}

// ActiveIn reports whether the lease is active at any point in the month:
// start_date falls before the next month begins AND (no end_date OR
// end_date >= first day). Comparing against the next month's first day keeps
// a start timestamp late on the last day inside the month.
func (l *Lease) ActiveIn(year int, month int) bool {
	if !l.StartDate.Before(utils.FirstOfNextMonth(year, month)) {
		return false
	}
	if l.EndDate != nil && l.EndDate.Before(utils.FirstOfMonth(year, month)) {
		return false
	}
	return true
}

// validate input for both create & update. (id = 0 for create)
func (input *NewLease) validate(ctx context.Context, userId int, id int) error {
	if err := utils.ValidateResourceId[Unit](ctx, userId, input.UnitId); err != nil {
		return fmt.Errorf("unit not found: %w", err)
	}
	if err := utils.ValidateResourceId[Tenant](ctx, userId, input.TenantId); err != nil {
		return fmt.Errorf("tenant not found: %w", err)
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return errors.New("end date cannot precede start date")
	}
	if input.DueDay < 0 || input.DueDay > 28 {
		return errors.New("due day must be between 1 and 28")
	}
	if err := input.ChargeFlags.Validate(); err != nil {
		return err
	}
	if err := input.CustomCharges.Validate(); err != nil {
		return err
	}
	return nil
}

func (input *NewLease) toLease(userId int) Lease {
	flags := input.ChargeFlags
	if flags == nil {
		flags = DefaultChargeFlags()
	}
	lease := Lease{
		UserId:             userId,
		UnitId:             input.UnitId,
		TenantId:           input.TenantId,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		DueDay:             input.DueDay,
		RentAmount:         input.RentAmount,
		MonthlyWater:       input.MonthlyWater,
		MonthlyGas:         input.MonthlyGas,
		MonthlyElectricity: input.MonthlyElectricity,
		MonthlyServices:    input.MonthlyServices,
		RepairFund:         input.RepairFund,
		ChargeFlags:        flags,
		CustomCharges:      input.CustomCharges,
	}
	if lease.DueDay == 0 {
		lease.DueDay = 1
	}
	lease.TotalBillableRent = lease.BillableTotal()
	return lease
}

func CreateLease(ctx context.Context, input *NewLease) (*Lease, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	if err := input.validate(ctx, userId, 0); err != nil {
		return nil, err
	}

	lease := input.toLease(userId)
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&lease).Error; err != nil {
		return nil, err
	}
	return &lease, nil
}

func UpdateLease(ctx context.Context, id int, input *NewLease) (*Lease, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	existing, err := utils.FetchModel[Lease](ctx, userId, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, userId, id); err != nil {
		return nil, err
	}

	update := input.toLease(userId)
	update.ID = existing.ID
	update.CreatedAt = existing.CreatedAt

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"UnitId":             update.UnitId,
		"TenantId":           update.TenantId,
		"StartDate":          update.StartDate,
		"EndDate":            update.EndDate,
		"DueDay":             update.DueDay,
		"RentAmount":         update.RentAmount,
		"MonthlyWater":       update.MonthlyWater,
		"MonthlyGas":         update.MonthlyGas,
		"MonthlyElectricity": update.MonthlyElectricity,
		"MonthlyServices":    update.MonthlyServices,
		"RepairFund":         update.RepairFund,
		"ChargeFlags":        update.ChargeFlags,
		"CustomCharges":      update.CustomCharges,
		"TotalBillableRent":  update.TotalBillableRent,
	}).Error
	if err != nil {
		return nil, err
	}
	return &update, nil
}

func DeleteLease(ctx context.Context, id int) (*Lease, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	lease, err := utils.FetchModel[Lease](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("lease_id = ?", id).Delete(&Payment{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("lease_id = ?", id).Delete(&MonthlyObligation{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("lease_id = ?", id).Delete(&StatementOverride{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(lease).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return lease, nil
}

func GetLease(ctx context.Context, id int) (*Lease, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	return utils.FetchModel[Lease](ctx, userId, id)
}

func ListLeases(ctx context.Context, unitId int, tenantId int) ([]*Lease, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("user_id = ?", userId)
	if unitId > 0 {
		dbCtx = dbCtx.Where("unit_id = ?", unitId)
	}
	if tenantId > 0 {
		dbCtx = dbCtx.Where("tenant_id = ?", tenantId)
	}
	var leases []*Lease
	if err := dbCtx.Order("start_date desc").Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

// leaseForUnitInRange resolves the lease covering the unit whose active range
// intersects [from, to]. May return RecordNotFound.
func leaseForUnitInRange(ctx context.Context, userId int, unitId int, from utils.YearMonth, to utils.YearMonth) (*Lease, error) {
	db := config.GetDB()
	var lease Lease
	err := db.WithContext(ctx).
		Where("user_id = ? AND unit_id = ?", userId, unitId).
		Where("start_date < ?", utils.FirstOfNextMonth(to.Year, to.Month)).
		Where("(end_date IS NULL OR end_date >= ?)", utils.FirstOfMonth(from.Year, from.Month)).
		Order("start_date desc").
		First(&lease).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &lease, nil
}
