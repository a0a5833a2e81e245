// Package sqlstore implements the relational budget.Repository with
// write-through period summaries.
//
// Every mutation writes the item row and recomputes the summary rows
// of all touched years inside a single transaction. Either both
// succeed or both roll back, readers never see an item set and a
// summary that disagree.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/finadvisor/backend/internal/budget"
	"github.com/finadvisor/backend/internal/models"
	"github.com/finadvisor/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the gorm-backed repository.
type Store struct {
	db *gorm.DB
}

// New returns a Store using the given database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func row(item budget.Item) models.BudgetItem {
	return models.BudgetItem{
		DefaultModel: models.DefaultModel{
			ID: item.ID,
			Timestamps: models.Timestamps{
				CreatedAt: item.CreatedAt,
				UpdatedAt: item.UpdatedAt,
			},
		},
		Owner:    item.Owner,
		Name:     item.Name,
		Scope:    item.Scope,
		Cadence:  item.Cadence,
		Category: item.Category,
		Amount:   item.Amount,
		Note:     item.Note,
	}
}

func item(r models.BudgetItem) budget.Item {
	return budget.Item{
		ID:        r.ID,
		Owner:     r.Owner,
		Name:      r.Name,
		Scope:     r.Scope,
		Cadence:   r.Cadence,
		Category:  r.Category,
		Amount:    r.Amount,
		Note:      r.Note,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// storageError classifies database errors for the core.
func storageError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, models.ErrResourceNotFound) {
		return budget.ErrNotFound
	}

	return fmt.Errorf("%w: %v", budget.ErrStorage, err)
}

// Create persists a new item and recomputes the touched years.
func (s *Store) Create(ctx context.Context, it budget.Item) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := row(it)
		if err := tx.Create(&r).Error; err != nil {
			return storageError(err)
		}

		return recompute(tx, it.Owner, it.Scope)
	})
}

// Get returns an owner's item. Items of other owners are reported as
// absent.
func (s *Store) Get(ctx context.Context, owner string, id uuid.UUID) (budget.Item, error) {
	var r models.BudgetItem
	err := s.db.WithContext(ctx).Where("owner = ?", owner).First(&r, "id = ?", id).Error
	if err != nil {
		return budget.Item{}, storageError(err)
	}

	return item(r), nil
}

// Save replaces an existing item and recomputes the years of both its
// previous and its new state, a scope change can move an item between
// years.
func (s *Store) Save(ctx context.Context, it budget.Item) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before models.BudgetItem
		err := tx.Where("owner = ?", it.Owner).First(&before, "id = ?", it.ID).Error
		if err != nil {
			return storageError(err)
		}

		// Updates writes the new values back into before, so the
		// pre-update scope has to be kept aside for the recompute.
		beforeScope := before.Scope

		r := row(it)
		r.CreatedAt = before.CreatedAt
		if err := tx.Model(&before).Select("*").Omit("created_at").Updates(&r).Error; err != nil {
			return storageError(err)
		}

		return recompute(tx, it.Owner, beforeScope, it.Scope)
	})
}

// Delete removes an item and recomputes the years it contributed to.
// A year losing its last item keeps its summary rows, zeroed.
func (s *Store) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before models.BudgetItem
		err := tx.Where("owner = ?", owner).First(&before, "id = ?", id).Error
		if err != nil {
			return storageError(err)
		}

		if err := tx.Delete(&before).Error; err != nil {
			return storageError(err)
		}

		return recompute(tx, owner, before.Scope)
	})
}

// ForOwner returns all items of an owner in insertion order.
func (s *Store) ForOwner(ctx context.Context, owner string) ([]budget.Item, error) {
	items, err := ownerItems(s.db.WithContext(ctx), owner)
	if err != nil {
		return nil, storageError(err)
	}

	return items, nil
}

func ownerItems(tx *gorm.DB, owner string) ([]budget.Item, error) {
	var rows []models.BudgetItem
	err := tx.Where("owner = ?", owner).Order("created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]budget.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, item(r))
	}

	return items, nil
}

// Dashboard serves the persisted summary rows. A year that never had a
// contribution has no rows and is aggregated live, which yields the
// identical all-zero result for an empty year.
func (s *Store) Dashboard(ctx context.Context, owner string, year int) (budget.AggregateResult, error) {
	db := s.db.WithContext(ctx)

	var summaries []models.PeriodSummary
	err := db.Where("owner = ? AND year = ?", owner, year).Find(&summaries).Error
	if err != nil {
		return budget.AggregateResult{}, storageError(err)
	}

	if len(summaries) == 0 {
		items, err := ownerItems(db, owner)
		if err != nil {
			return budget.AggregateResult{}, storageError(err)
		}

		return budget.Aggregate(items, year), nil
	}

	result := budget.AggregateResult{Year: year}
	for _, summary := range summaries {
		switch {
		case summary.Kind == models.SummaryKindMonthly && summary.IsMonthly:
			result.MonthlyIncome = summary.TotalIncome
			result.MonthlyExpense = summary.TotalExpense
		case summary.Kind == models.SummaryKindMonthly:
			result.OneTimeIncome = summary.TotalIncome
			result.OneTimeExpense = summary.TotalExpense
		case summary.Kind == models.SummaryKindAnnual:
			result.TotalIncome = summary.TotalIncome
			result.TotalExpense = summary.TotalExpense
		}
	}
	result.Surplus = result.TotalIncome.Sub(result.TotalExpense)

	return result, nil
}

// recompute rebuilds the summary rows for every year the given scopes
// touch. A permanent scope touches all years the owner is known for:
// the years of any item plus the years with an existing summary row.
//
// Failures here abort the surrounding transaction and surface as an
// internal error, a summary must never drift from the items.
func recompute(tx *gorm.DB, owner string, scopes ...types.Scope) error {
	items, err := ownerItems(tx, owner)
	if err != nil {
		return fmt.Errorf("%w: summary recompute failed: %v", budget.ErrInternal, err)
	}

	years := make(map[int]bool)
	permanent := false
	for _, scope := range scopes {
		switch scope.Kind {
		case types.ScopeYear, types.ScopeYearMonth:
			years[scope.Year] = true
		case types.ScopePermanent:
			permanent = true
		}
	}

	if permanent {
		for _, it := range items {
			if it.Scope.Kind == types.ScopeYear || it.Scope.Kind == types.ScopeYearMonth {
				years[it.Scope.Year] = true
			}
		}

		var summaryYears []int
		err := tx.Model(&models.PeriodSummary{}).Where("owner = ?", owner).Distinct().Pluck("year", &summaryYears).Error
		if err != nil {
			return fmt.Errorf("%w: summary recompute failed: %v", budget.ErrInternal, err)
		}
		for _, year := range summaryYears {
			years[year] = true
		}
	}

	for year := range years {
		if err := recomputeYear(tx, owner, year, items); err != nil {
			return fmt.Errorf("%w: summary recompute failed: %v", budget.ErrInternal, err)
		}
	}

	return nil
}

// recomputeYear persists the three summary rows of one year: the
// monthly bucket, the one-time bucket and the annual rollup
// (monthly*12 + one-time).
func recomputeYear(tx *gorm.DB, owner string, year int, items []budget.Item) error {
	result := budget.Aggregate(items, year)

	buckets := []models.PeriodSummary{
		{
			Owner:        owner,
			Year:         year,
			Kind:         models.SummaryKindMonthly,
			IsMonthly:    true,
			TotalIncome:  result.MonthlyIncome,
			TotalExpense: result.MonthlyExpense,
			SavingsGoal:  budget.SavingsGoal(result.MonthlyIncome, result.MonthlyExpense),
		},
		{
			Owner:        owner,
			Year:         year,
			Kind:         models.SummaryKindMonthly,
			IsMonthly:    false,
			TotalIncome:  result.OneTimeIncome,
			TotalExpense: result.OneTimeExpense,
			SavingsGoal:  budget.SavingsGoal(result.OneTimeIncome, result.OneTimeExpense),
		},
		{
			Owner:        owner,
			Year:         year,
			Kind:         models.SummaryKindAnnual,
			IsMonthly:    false,
			TotalIncome:  result.TotalIncome,
			TotalExpense: result.TotalExpense,
			SavingsGoal:  budget.SavingsGoal(result.TotalIncome, result.TotalExpense),
		},
	}

	for _, bucket := range buckets {
		var existing models.PeriodSummary
		err := tx.Where("owner = ? AND year = ? AND kind = ? AND is_monthly = ?",
			owner, year, bucket.Kind, bucket.IsMonthly).First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, models.ErrResourceNotFound) {
			if err := tx.Create(&bucket).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		err = tx.Model(&existing).Select("total_income", "total_expense", "savings_goal").Updates(&bucket).Error
		if err != nil {
			return err
		}
	}

	return nil
}
