package models

import "errors"

type UserRole string

const (
	UserRoleAdmin    UserRole = "A"
	UserRoleLandlord UserRole = "L"
)

// ChargeKey identifies one of the six standard charge types. The same keys
// are used in charge flag maps, statement matrix rows and override cells.
type ChargeKey string

const (
	ChargeKeyRent        ChargeKey = "rent"
	ChargeKeyWater       ChargeKey = "water"
	ChargeKeyGas         ChargeKey = "gas"
	ChargeKeyElectricity ChargeKey = "electricity"
	ChargeKeyServices    ChargeKey = "services"
	ChargeKeyRepairFund  ChargeKey = "repair_fund"
)

// StandardChargeKeys lists the six standard charge types in display order.
var StandardChargeKeys = []ChargeKey{
	ChargeKeyRent,
	ChargeKeyWater,
	ChargeKeyGas,
	ChargeKeyElectricity,
	ChargeKeyServices,
	ChargeKeyRepairFund,
}

// ChargeName maps a charge key to its display label.
var ChargeName = map[ChargeKey]string{
	ChargeKeyRent:        "Nájem",
	ChargeKeyWater:       "Voda",
	ChargeKeyGas:         "Plyn",
	ChargeKeyElectricity: "Elektřina",
	ChargeKeyServices:    "Služby",
	ChargeKeyRepairFund:  "Fond oprav",
}

type PaymentType string

const (
	PaymentTypeBankTransfer PaymentType = "BankTransfer"
	PaymentTypeCash         PaymentType = "Cash"
	PaymentTypeStandinOrder PaymentType = "StandingOrder"
	PaymentTypeOther        PaymentType = "Other"
)

func (t PaymentType) Validate() error {
	switch t {
	case PaymentTypeBankTransfer, PaymentTypeCash, PaymentTypeStandinOrder, PaymentTypeOther, "":
		return nil
	}
	return errors.New("invalid payment type")
}

// StatementStatus is the settlement outcome of a statement balance.
// Doplatek: the tenant owes more. Přeplatek: the tenant overpaid.
// Vyrovnáno: settled.
type StatementStatus string

const (
	StatementStatusUnderpaid StatementStatus = "Doplatek"
	StatementStatusOverpaid  StatementStatus = "Přeplatek"
	StatementStatusSettled   StatementStatus = "Vyrovnáno"
)

// ObligationScope selects which periods an obligation recompute touches.
type ObligationScope string

const (
	ObligationScopeAll    ObligationScope = "all"
	ObligationScopeFuture ObligationScope = "future"
)

func (s ObligationScope) Validate() error {
	switch s {
	case ObligationScopeAll, ObligationScopeFuture:
		return nil
	}
	return errors.New("scope must be 'all' or 'future'")
}
