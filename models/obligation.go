package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rentaspace/rentals_backend/config"
	"github.com/rentaspace/rentals_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MonthlyObligation is a per-(lease, year, month) snapshot of the charge
// configuration as it was when generated. Later lease edits do not change it;
// only UpdateObligations recomputes existing rows. The unique index keeps the
// at-most-one-per-period invariant even under concurrent generation.
type MonthlyObligation struct {
	ID            int             `gorm:"primary_key" json:"id"`
	UserId        int             `gorm:"index;not null" json:"user_id"`
	LeaseId       int             `gorm:"not null;uniqueIndex:idx_obligation_period,priority:1" json:"lease_id"`
	Year          int             `gorm:"not null;uniqueIndex:idx_obligation_period,priority:2" json:"year"`
	Month         int             `gorm:"not null;uniqueIndex:idx_obligation_period,priority:3" json:"month"`
	Rent          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"rent"`
	Water         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"water"`
	Gas           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gas"`
	Electricity   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"electricity"`
	Services      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"services"`
	RepairFund    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"repair_fund"`
	CustomCharges CustomCharges   `gorm:"type:json" json:"custom_charges"`
	ChargeFlags   ChargeFlags     `gorm:"type:json" json:"charge_flags"`
	TotalDue      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_due"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	Debt          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"debt"`
	Note          string          `gorm:"type:text" json:"note"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ChargeAmount returns the snapshotted amount for a standard charge type,
// gated by the snapshot's own flags.
func (o *MonthlyObligation) ChargeAmount(key ChargeKey) decimal.Decimal {
	if !o.ChargeFlags.Enabled(key) {
		return decimal.Zero
	}
	switch key {
	case ChargeKeyRent:
		return o.Rent
	case ChargeKeyWater:
		return o.Water
	case ChargeKeyGas:
		return o.Gas
	case ChargeKeyElectricity:
		return o.Electricity
	case ChargeKeyServices:
		return o.Services
	case ChargeKeyRepairFund:
		return o.RepairFund
	}
	return decimal.Zero
}

// snapshotObligation derives a fresh snapshot from the lease's current
// configuration: flag-gated standard amounts, enabled custom charges only,
// and deep copies of both JSON structures.
func snapshotObligation(lease *Lease, year int, month int) MonthlyObligation {
	obligation := MonthlyObligation{
		UserId:        lease.UserId,
		LeaseId:       lease.ID,
		Year:          year,
		Month:         month,
		Rent:          lease.ChargeAmount(ChargeKeyRent),
		Water:         lease.ChargeAmount(ChargeKeyWater),
		Gas:           lease.ChargeAmount(ChargeKeyGas),
		Electricity:   lease.ChargeAmount(ChargeKeyElectricity),
		Services:      lease.ChargeAmount(ChargeKeyServices),
		RepairFund:    lease.ChargeAmount(ChargeKeyRepairFund),
		CustomCharges: lease.CustomCharges.EnabledOnly(),
		ChargeFlags:   lease.ChargeFlags.Copy(),
		PaidAmount:    decimal.Zero,
	}
	obligation.TotalDue = obligation.Rent.
		Add(obligation.Water).
		Add(obligation.Gas).
		Add(obligation.Electricity).
		Add(obligation.Services).
		Add(obligation.RepairFund).
		Add(obligation.CustomCharges.Total())
	obligation.Debt = obligation.TotalDue
	return obligation
}

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// GenerateObligation produces the monthly obligation for (leaseId, year, month).
// Idempotent: an existing snapshot is returned unchanged. Two concurrent calls
// may both pass the existence check; the losing insert hits the unique index
// and is treated as "already exists, fetch and return".
func GenerateObligation(ctx context.Context, leaseId int, year int, month int) (*MonthlyObligation, error) {
	if month < 1 || month > 12 {
		return nil, errors.New("month must be between 1 and 12")
	}

	db := config.GetDB()
	var lease Lease
	if err := db.WithContext(ctx).First(&lease, leaseId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	var existing MonthlyObligation
	err := db.WithContext(ctx).
		Where("lease_id = ? AND year = ? AND month = ?", leaseId, year, month).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	obligation := snapshotObligation(&lease, year, month)
	if err := db.WithContext(ctx).Create(&obligation).Error; err != nil {
		if isDuplicateKeyError(err) {
			// lost the race; the winner's snapshot is authoritative
			if ferr := db.WithContext(ctx).
				Where("lease_id = ? AND year = ? AND month = ?", leaseId, year, month).
				First(&existing).Error; ferr != nil {
				return nil, ferr
			}
			return &existing, nil
		}
		return nil, err
	}
	return &obligation, nil
}

// UpdateObligations re-derives obligations for a lease from its current
// configuration. Scope 'future' touches only the current period onward;
// 'all' touches every period. Recompute happens in place: paid_amount and
// note survive, debt becomes total_due - paid_amount. Obligations are never
// deleted and regenerated here, so payment history is preserved.
func UpdateObligations(ctx context.Context, leaseId int, scope ObligationScope) ([]*MonthlyObligation, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	lease, err := utils.FetchModel[Lease](ctx, userId, leaseId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("lease_id = ?", leaseId)
	if scope == ObligationScopeFuture {
		now := utils.CurrentYearMonth()
		dbCtx = dbCtx.Where("(year > ? OR (year = ? AND month >= ?))", now.Year, now.Year, now.Month)
	}
	var obligations []*MonthlyObligation
	if err := dbCtx.Order("year asc, month asc").Find(&obligations).Error; err != nil {
		return nil, err
	}

	tx := db.Begin()
	for _, obligation := range obligations {
		fresh := snapshotObligation(lease, obligation.Year, obligation.Month)
		obligation.Rent = fresh.Rent
		obligation.Water = fresh.Water
		obligation.Gas = fresh.Gas
		obligation.Electricity = fresh.Electricity
		obligation.Services = fresh.Services
		obligation.RepairFund = fresh.RepairFund
		obligation.CustomCharges = fresh.CustomCharges
		obligation.ChargeFlags = fresh.ChargeFlags
		obligation.TotalDue = fresh.TotalDue
		obligation.Debt = fresh.TotalDue.Sub(obligation.PaidAmount)

		if err := tx.WithContext(ctx).Save(obligation).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return obligations, nil
}

func GetObligation(ctx context.Context, id int) (*MonthlyObligation, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	return utils.FetchModel[MonthlyObligation](ctx, userId, id)
}

func ListObligations(ctx context.Context, leaseId int) ([]*MonthlyObligation, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	if err := utils.ValidateResourceId[Lease](ctx, userId, leaseId); err != nil {
		return nil, fmt.Errorf("lease not found: %w", err)
	}
	db := config.GetDB()
	var obligations []*MonthlyObligation
	err := db.WithContext(ctx).
		Where("user_id = ? AND lease_id = ?", userId, leaseId).
		Order("year asc, month asc").
		Find(&obligations).Error
	if err != nil {
		return nil, err
	}
	return obligations, nil
}

// UpdateObligationNote replaces the free-form note on a snapshot. Amounts are
// not editable through this path.
func UpdateObligationNote(ctx context.Context, id int, note string) (*MonthlyObligation, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	obligation, err := utils.FetchModel[MonthlyObligation](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(obligation).Update("note", note).Error; err != nil {
		return nil, err
	}
	obligation.Note = note
	return obligation, nil
}

func DeleteObligation(ctx context.Context, id int) (*MonthlyObligation, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	obligation, err := utils.FetchModel[MonthlyObligation](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	// detach payments instead of deleting financial history
	if err := tx.WithContext(ctx).Model(&Payment{}).
		Where("monthly_obligation_id = ?", id).
		Update("monthly_obligation_id", nil).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(obligation).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return obligation, nil
}

// loadObligationsInRange fetches a lease's snapshots inside [from, to].
func loadObligationsInRange(ctx context.Context, leaseId int, from utils.YearMonth, to utils.YearMonth) ([]*MonthlyObligation, error) {
	db := config.GetDB()
	var obligations []*MonthlyObligation
	err := db.WithContext(ctx).
		Where("lease_id = ?", leaseId).
		Where("(year > ? OR (year = ? AND month >= ?))", from.Year, from.Year, from.Month).
		Where("(year < ? OR (year = ? AND month <= ?))", to.Year, to.Year, to.Month).
		Order("year asc, month asc").
		Find(&obligations).Error
	if err != nil {
		return nil, err
	}
	return obligations, nil
}
