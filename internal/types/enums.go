package types

import "errors"

// Category says whether a budget item is money coming in or going out.
type Category string

const (
	CategoryIncome  Category = "income"
	CategoryExpense Category = "expense"
)

// Cadence says whether a budget item recurs every month or applies
// exactly once.
type Cadence string

const (
	CadenceMonthly Cadence = "monthly"
	CadenceOneTime Cadence = "one-time"
)

var (
	ErrInvalidCategory = errors.New("category must be one of 'Income'/'收入' or 'Expense'/'支出'")
	ErrInvalidCadence  = errors.New("cadence must be one of 'Monthly'/'月度' or 'One-time'/'非月度'")
)

// Exact-match synonym tables. Unknown input is an error here, unlike
// scope parsing which passes unknown input through.
var categorySynonyms = map[string]Category{
	"income":  CategoryIncome,
	"Income":  CategoryIncome,
	"收入":      CategoryIncome,
	"expense": CategoryExpense,
	"Expense": CategoryExpense,
	"支出":      CategoryExpense,
}

var cadenceSynonyms = map[string]Cadence{
	"monthly":  CadenceMonthly,
	"Monthly":  CadenceMonthly,
	"月度":       CadenceMonthly,
	"one-time": CadenceOneTime,
	"One-time": CadenceOneTime,
	"onetime":  CadenceOneTime,
	"OneTime":  CadenceOneTime,
	"非月度":      CadenceOneTime,
}

// ParseCategory resolves a bilingual category synonym into its
// canonical value.
func ParseCategory(raw string) (Category, error) {
	category, ok := categorySynonyms[raw]
	if !ok {
		return "", ErrInvalidCategory
	}

	return category, nil
}

// ParseCadence resolves a bilingual cadence synonym into its
// canonical value.
func ParseCadence(raw string) (Cadence, error) {
	cadence, ok := cadenceSynonyms[raw]
	if !ok {
		return "", ErrInvalidCadence
	}

	return cadence, nil
}
