// Package budget implements the budget aggregation core: item
// validation, the period aggregator and the facade serving dashboard
// reads. Storage is behind the Repository interface, the relational
// and the flat-file backend both satisfy it and must produce
// identical results.
package budget

import (
	"fmt"
	"strings"
	"time"

	"github.com/finadvisor/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one user-declared income or expense line.
//
// Scope, cadence and category are always canonical here, raw bilingual
// input never makes it past the Draft/Update validation.
type Item struct {
	ID        uuid.UUID       `json:"id"`
	Owner     string          `json:"-"`
	Name      string          `json:"name"`
	Scope     types.Scope     `json:"scope"`
	Cadence   types.Cadence   `json:"cadence"`
	Category  types.Category  `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Draft is the input for creating an item. All fields except Note are
// required.
type Draft struct {
	Name     string
	Scope    string
	Cadence  string
	Category string
	Amount   *decimal.Decimal
	Note     string
}

// item validates and normalizes the draft into an Item owned by owner.
func (d Draft) item(owner string) (Item, error) {
	if strings.TrimSpace(d.Name) == "" {
		return Item{}, ErrNameRequired
	}

	if strings.TrimSpace(d.Scope) == "" {
		return Item{}, ErrScopeRequired
	}

	if d.Cadence == "" {
		return Item{}, ErrCadenceRequired
	}

	if d.Category == "" {
		return Item{}, ErrCategoryRequired
	}

	cadence, err := types.ParseCadence(d.Cadence)
	if err != nil {
		return Item{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	category, err := types.ParseCategory(d.Category)
	if err != nil {
		return Item{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if d.Amount == nil {
		return Item{}, ErrAmountRequired
	}

	if d.Amount.IsNegative() {
		return Item{}, ErrAmountNegative
	}

	now := time.Now().In(time.UTC)
	item := Item{
		ID:        uuid.New(),
		Owner:     owner,
		Name:      strings.TrimSpace(d.Name),
		Scope:     types.ParseScope(d.Scope),
		Cadence:   cadence,
		Category:  category,
		Amount:    *d.Amount,
		Note:      strings.TrimSpace(d.Note),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := item.check(); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Update is a partial update for an item. Nil fields are left
// untouched, there is no implicit reset to defaults.
type Update struct {
	Name     *string
	Scope    *string
	Cadence  *string
	Category *string
	Amount   *decimal.Decimal
	Note     *string
}

// apply validates the supplied fields and sets them on the item.
func (u Update) apply(item *Item) error {
	if u.Name != nil {
		if strings.TrimSpace(*u.Name) == "" {
			return ErrNameRequired
		}
		item.Name = strings.TrimSpace(*u.Name)
	}

	if u.Scope != nil {
		if strings.TrimSpace(*u.Scope) == "" {
			return ErrScopeRequired
		}
		item.Scope = types.ParseScope(*u.Scope)
	}

	if u.Cadence != nil {
		cadence, err := types.ParseCadence(*u.Cadence)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
		item.Cadence = cadence
	}

	if u.Category != nil {
		category, err := types.ParseCategory(*u.Category)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
		item.Category = category
	}

	if u.Amount != nil {
		if u.Amount.IsNegative() {
			return ErrAmountNegative
		}
		item.Amount = *u.Amount
	}

	if u.Note != nil {
		item.Note = strings.TrimSpace(*u.Note)
	}

	item.UpdatedAt = time.Now().In(time.UTC)

	return item.check()
}

// check enforces cross-field rules.
//
// A one-time item with a permanent scope has no single period to
// contribute to. Such items are rejected on write; rows that predate
// this rule are still read and counted into every queried year, which
// is how they have always been reported.
func (i Item) check() error {
	if i.Cadence == types.CadenceOneTime && i.Scope.Kind == types.ScopePermanent {
		return ErrScopePermanentOneTime
	}

	return nil
}
