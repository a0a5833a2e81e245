package models

import (
	"github.com/finadvisor/backend/internal/types"
	"github.com/shopspring/decimal"
)

// BudgetItem is the persisted form of one budget line. Scope, cadence
// and category are stored in canonical form only, never raw input.
type BudgetItem struct {
	DefaultModel
	Owner    string          `json:"-" gorm:"index"`
	Name     string          `json:"name"`
	Scope    types.Scope     `json:"scope" gorm:"type:TEXT"`
	Cadence  types.Cadence   `json:"cadence"`
	Category types.Category  `json:"category"`
	Amount   decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	Note     string          `json:"note,omitempty"`
}

// Summary kinds. The annual row is a derived rollup of the two
// monthly-kind buckets of the same year and is never edited directly.
const (
	SummaryKindMonthly = "monthly"
	SummaryKindAnnual  = "annual"
)

// PeriodSummary is a derived, write-through summary row for one
// (owner, year, kind, isMonthly) bucket.
//
// It is a cache over BudgetItem and rebuildable from the items alone
// at any time. The totals always equal the sum of the constituent
// items' contributions; mutations recompute them in the same
// transaction as the item write.
type PeriodSummary struct {
	DefaultModel
	Owner        string          `json:"-" gorm:"index;uniqueIndex:summary_bucket"`
	Year         int             `json:"year" gorm:"uniqueIndex:summary_bucket"`
	Month        *int            `json:"month"`
	Kind         string          `json:"kind" gorm:"uniqueIndex:summary_bucket"`
	IsMonthly    bool            `json:"isMonthly" gorm:"uniqueIndex:summary_bucket"`
	TotalIncome  decimal.Decimal `json:"totalIncome" gorm:"type:DECIMAL(20,8)"`
	TotalExpense decimal.Decimal `json:"totalExpense" gorm:"type:DECIMAL(20,8)"`
	SavingsGoal  decimal.Decimal `json:"savingsGoal" gorm:"type:DECIMAL(20,8)"` // floored at zero
}
