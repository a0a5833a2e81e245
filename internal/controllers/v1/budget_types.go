package v1

import (
	"github.com/finadvisor/backend/internal/budget"
	"github.com/shopspring/decimal"
)

// ItemEditable are the fields of a budget item that clients set.
// Scope, cadence and category accept the bilingual synonyms and are
// stored canonically.
type ItemEditable struct {
	Name     string           `json:"name"`
	Scope    string           `json:"scope"`
	Cadence  string           `json:"cadence"`
	Category string           `json:"category"`
	Amount   *decimal.Decimal `json:"amount"`
	Note     string           `json:"note"`
}

func (e ItemEditable) draft() budget.Draft {
	return budget.Draft{
		Name:     e.Name,
		Scope:    e.Scope,
		Cadence:  e.Cadence,
		Category: e.Category,
		Amount:   e.Amount,
		Note:     e.Note,
	}
}

// ItemUpdate is the PATCH body, absent fields stay untouched.
type ItemUpdate struct {
	Name     *string          `json:"name"`
	Scope    *string          `json:"scope"`
	Cadence  *string          `json:"cadence"`
	Category *string          `json:"category"`
	Amount   *decimal.Decimal `json:"amount"`
	Note     *string          `json:"note"`
}

func (u ItemUpdate) update() budget.Update {
	return budget.Update{
		Name:     u.Name,
		Scope:    u.Scope,
		Cadence:  u.Cadence,
		Category: u.Category,
		Amount:   u.Amount,
		Note:     u.Note,
	}
}

type ItemResponse struct {
	Data budget.Item `json:"data"`
}

type DashboardResponse struct {
	Data budget.AggregateResult `json:"data"`
}

type InfoResponse struct {
	Data budget.Info `json:"data"`
}

type MonthItemsResponse struct {
	Data budget.MonthItems `json:"data"`
}
