package budget

import (
	"slices"
	"time"

	"github.com/finadvisor/backend/internal/types"
	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// AggregateResult are the derived totals for one year.
//
// Years are fully independent: a permanent monthly item contributes
// identically to every year ever queried, there is no pro-rating by
// creation date. The month component of a monthly item's scope only
// selects which years it participates in, it does not restrict the
// item to a single calendar month.
type AggregateResult struct {
	Year           int             `json:"year"`
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpense   decimal.Decimal `json:"totalExpense"`
	Surplus        decimal.Decimal `json:"surplus"` // income - expense, deliberately not floored at zero
	MonthlyIncome  decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpense decimal.Decimal `json:"monthlyExpense"`
	OneTimeIncome  decimal.Decimal `json:"oneTimeIncome"`
	OneTimeExpense decimal.Decimal `json:"oneTimeExpense"`
}

// ItemsForYear returns the items participating in the given year:
// permanent items always, scoped items when their year matches.
// Literal scopes never match a specific year.
func ItemsForYear(items []Item, year int) []Item {
	matching := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Scope.CoversYear(year) {
			matching = append(matching, item)
		}
	}

	return matching
}

// Aggregate computes the totals for one year from the full item set.
//
// The annual totals are defined as monthly*12 + oneTime, this identity
// holds exactly for every input.
func Aggregate(items []Item, year int) AggregateResult {
	result := AggregateResult{Year: year}

	for _, item := range ItemsForYear(items, year) {
		switch {
		case item.Cadence == types.CadenceMonthly && item.Category == types.CategoryIncome:
			result.MonthlyIncome = result.MonthlyIncome.Add(item.Amount)
		case item.Cadence == types.CadenceMonthly && item.Category == types.CategoryExpense:
			result.MonthlyExpense = result.MonthlyExpense.Add(item.Amount)
		case item.Category == types.CategoryIncome:
			result.OneTimeIncome = result.OneTimeIncome.Add(item.Amount)
		default:
			result.OneTimeExpense = result.OneTimeExpense.Add(item.Amount)
		}
	}

	result.TotalIncome = result.MonthlyIncome.Mul(twelve).Add(result.OneTimeIncome)
	result.TotalExpense = result.MonthlyExpense.Mul(twelve).Add(result.OneTimeExpense)
	result.Surplus = result.TotalIncome.Sub(result.TotalExpense)

	return result
}

// AvailableYears returns the sorted distinct years the items cover.
// Permanent items contribute the current year so that an owner with
// only permanent items still has a year to show.
func AvailableYears(items []Item) []int {
	seen := make(map[int]bool)
	for _, item := range items {
		switch item.Scope.Kind {
		case types.ScopeYear, types.ScopeYearMonth:
			seen[item.Scope.Year] = true
		case types.ScopePermanent:
			seen[time.Now().Year()] = true
		}
	}

	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	slices.Sort(years)

	return years
}

// MonthItems are the items of a year split by category, optionally
// filtered to a set of months.
type MonthItems struct {
	IncomeItems  []Item `json:"incomeItems"`
	ExpenseItems []Item `json:"expenseItems"`
}

// FilterMonths applies the month filter to a year's items.
//
// Monthly items recur every month and are always included. One-time
// items are included when no filter is given, when their scope month
// is in the filter, or when their scope has no month component at all.
// The lenient fallback mirrors the scope parser: never silently drop
// an item just because its month could not be determined.
func FilterMonths(items []Item, months []int) MonthItems {
	result := MonthItems{
		IncomeItems:  []Item{},
		ExpenseItems: []Item{},
	}

	for _, item := range items {
		if item.Cadence != types.CadenceMonthly && months != nil {
			if month, ok := item.Scope.MonthNumber(); ok && !slices.Contains(months, month) {
				continue
			}
		}

		if item.Category == types.CategoryIncome {
			result.IncomeItems = append(result.IncomeItems, item)
		} else {
			result.ExpenseItems = append(result.ExpenseItems, item)
		}
	}

	return result
}

// PeriodSnapshot is one flattened period for consumption as LLM
// context. SavingsGoal is floored at zero here, the unfloored surplus
// only exists on the dashboard aggregate.
type PeriodSnapshot struct {
	Type         string          `json:"type"` // "monthly" or "annual"
	Year         int             `json:"year"`
	Month        *int            `json:"month"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	SavingsGoal  decimal.Decimal `json:"savingsGoal"`
	Items        []Item          `json:"items"`
}

// SavingsGoal floors income minus expense at zero.
func SavingsGoal(income, expense decimal.Decimal) decimal.Decimal {
	goal := income.Sub(expense)
	if goal.IsNegative() {
		return decimal.Zero
	}

	return goal
}

// Snapshots flattens all of an owner's periods into the list the chat
// subsystem injects into the model context.
func Snapshots(items []Item) []PeriodSnapshot {
	snapshots := []PeriodSnapshot{}

	for _, year := range AvailableYears(items) {
		yearItems := ItemsForYear(items, year)
		result := Aggregate(items, year)

		monthly := []Item{}
		for _, item := range yearItems {
			if item.Cadence == types.CadenceMonthly {
				monthly = append(monthly, item)
			}
		}

		snapshots = append(snapshots,
			PeriodSnapshot{
				Type:         "monthly",
				Year:         year,
				TotalIncome:  result.MonthlyIncome,
				TotalExpense: result.MonthlyExpense,
				SavingsGoal:  SavingsGoal(result.MonthlyIncome, result.MonthlyExpense),
				Items:        monthly,
			},
			PeriodSnapshot{
				Type:         "annual",
				Year:         year,
				TotalIncome:  result.TotalIncome,
				TotalExpense: result.TotalExpense,
				SavingsGoal:  SavingsGoal(result.TotalIncome, result.TotalExpense),
				Items:        yearItems,
			},
		)
	}

	return snapshots
}
