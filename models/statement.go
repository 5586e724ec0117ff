package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rentaspace/rentals_backend/config"
	"github.com/rentaspace/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

// Statement is a saved, reconciled report over a date range comparing
// computed charges against declared actual consumption. The matrix and the
// summary are stored as JSON payloads, frozen at save time.
type Statement struct {
	ID                int             `gorm:"primary_key" json:"id"`
	UserId            int             `gorm:"index;not null" json:"user_id"`
	UnitId            int             `gorm:"index;not null" json:"unit_id"`
	LeaseId           int             `gorm:"index;not null" json:"lease_id"`
	Title             string          `gorm:"size:255;not null" json:"title"`
	PeriodFrom        string          `gorm:"size:7;not null" json:"period_from"`
	PeriodTo          string          `gorm:"size:7;not null" json:"period_to"`
	Status            StatementStatus `gorm:"size:50" json:"status"`
	DataJSON          json.RawMessage `gorm:"type:json" json:"data"`
	AnnualSummaryJSON json.RawMessage `gorm:"type:json" json:"annual_summary"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Statement) Data() (*StatementData, error) {
	var data StatementData
	if err := json.Unmarshal(s.DataJSON, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *Statement) AnnualSummary() (*AnnualSummary, error) {
	var summary AnnualSummary
	if err := json.Unmarshal(s.AnnualSummaryJSON, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// buildStatementForUnit resolves the covering lease and reconciles the range.
func buildStatementForUnit(ctx context.Context, userId int, unitId int, from utils.YearMonth, to utils.YearMonth, actuals map[string]decimal.Decimal) (*Lease, *StatementData, *AnnualSummary, error) {
	if to.Before(from) {
		return nil, nil, nil, errors.New("period_to cannot precede period_from")
	}
	if err := utils.ValidateResourceId[Unit](ctx, userId, unitId); err != nil {
		return nil, nil, nil, fmt.Errorf("unit not found: %w", err)
	}
	lease, err := leaseForUnitInRange(ctx, userId, unitId, from, to)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("no lease covers the requested period: %w", err)
	}

	obligations, err := loadObligationsInRange(ctx, lease.ID, from, to)
	if err != nil {
		return nil, nil, nil, err
	}
	overrides, err := ListStatementOverrides(ctx, lease.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	months := utils.MonthsInRange(from, to)
	data, summary := Reconcile(months, obligations, overrides, actuals)
	return lease, data, summary, nil
}

// PreviewStatement computes the reconciliation matrix without saving it.
func PreviewStatement(ctx context.Context, unitId int, from utils.YearMonth, to utils.YearMonth, actuals map[string]decimal.Decimal) (*StatementData, *AnnualSummary, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, nil, errors.New("user id is required")
	}
	_, data, summary, err := buildStatementForUnit(ctx, userId, unitId, from, to, actuals)
	if err != nil {
		return nil, nil, err
	}
	return data, summary, nil
}

// BuildStatement reconciles the range and persists the result as a new
// saved statement with an auto-generated title.
func BuildStatement(ctx context.Context, unitId int, from utils.YearMonth, to utils.YearMonth, actuals map[string]decimal.Decimal) (*Statement, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	lease, data, summary, err := buildStatementForUnit(ctx, userId, unitId, from, to, actuals)
	if err != nil {
		return nil, err
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	statement := Statement{
		UserId:            userId,
		UnitId:            unitId,
		LeaseId:           lease.ID,
		Title:             StatementTitle(from, to),
		PeriodFrom:        from.String(),
		PeriodTo:          to.String(),
		Status:            summary.Status,
		DataJSON:          dataJSON,
		AnnualSummaryJSON: summaryJSON,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&statement).Error; err != nil {
		return nil, err
	}
	return &statement, nil
}

// StatementListItem is the listing shape: status and amount are re-derived
// from the stored summary's balance rather than trusted from the row.
type StatementListItem struct {
	ID         int             `json:"id"`
	UnitId     int             `json:"unit_id"`
	LeaseId    int             `json:"lease_id"`
	Title      string          `json:"title"`
	PeriodFrom string          `json:"period_from"`
	PeriodTo   string          `json:"period_to"`
	Status     StatementStatus `json:"status"`
	TotalDue   decimal.Decimal `json:"total_due"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"created_at"`
}

func ListStatements(ctx context.Context, unitId int) ([]*StatementListItem, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("user_id = ?", userId)
	if unitId > 0 {
		dbCtx = dbCtx.Where("unit_id = ?", unitId)
	}
	var statements []*Statement
	if err := dbCtx.Order("created_at desc").Find(&statements).Error; err != nil {
		return nil, err
	}

	items := make([]*StatementListItem, 0, len(statements))
	for _, statement := range statements {
		item := &StatementListItem{
			ID:         statement.ID,
			UnitId:     statement.UnitId,
			LeaseId:    statement.LeaseId,
			Title:      statement.Title,
			PeriodFrom: statement.PeriodFrom,
			PeriodTo:   statement.PeriodTo,
			CreatedAt:  statement.CreatedAt,
		}
		summary, err := statement.AnnualSummary()
		if err != nil {
			config.LogError(config.GetLogger(), "statement.go", "ListStatements", "AnnualSummary", statement.ID, err)
			item.Status = StatementStatusSettled
		} else {
			item.Balance = summary.Balance
			item.Status, item.TotalDue = StatusForBalance(summary.Balance)
		}
		items = append(items, item)
	}
	return items, nil
}

func GetStatement(ctx context.Context, id int) (*Statement, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	return utils.FetchModel[Statement](ctx, userId, id)
}

type UpdateStatementInput struct {
	Status StatementStatus     `json:"status"`
	Items  []AnnualSummaryItem `json:"items"`
}

// UpdateStatement replaces the statement's status and, when items are given,
// the summary's per-item breakdown. Totals and balance are recomputed from
// the replacement items so the summary stays internally consistent.
func UpdateStatement(ctx context.Context, id int, input *UpdateStatementInput) (*Statement, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	statement, err := utils.FetchModel[Statement](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Status != "" {
		statement.Status = input.Status
		updates["Status"] = input.Status
	}
	if len(input.Items) > 0 {
		summary, err := statement.AnnualSummary()
		if err != nil {
			return nil, err
		}
		summary.Items = input.Items
		summary.TotalCosts = decimal.Zero
		summary.TotalActual = decimal.Zero
		for i := range summary.Items {
			summary.Items[i].Diff = summary.Items[i].Actual.Sub(summary.Items[i].Charged)
			summary.TotalCosts = summary.TotalCosts.Add(summary.Items[i].Charged)
			summary.TotalActual = summary.TotalActual.Add(summary.Items[i].Actual)
		}
		summary.Balance = summary.TotalActual.Sub(summary.TotalCosts)
		summary.Status, summary.TotalDue = StatusForBalance(summary.Balance)

		summaryJSON, err := json.Marshal(summary)
		if err != nil {
			return nil, err
		}
		statement.AnnualSummaryJSON = summaryJSON
		updates["AnnualSummaryJSON"] = summaryJSON
	}
	if len(updates) == 0 {
		return statement, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(statement).Updates(updates).Error; err != nil {
		return nil, err
	}
	return statement, nil
}

func DeleteStatement(ctx context.Context, id int) (*Statement, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	statement, err := utils.FetchModel[Statement](ctx, userId, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(statement).Error; err != nil {
		return nil, err
	}
	return statement, nil
}
