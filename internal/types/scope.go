// Package types implements special types for the finance assistant.
package types

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ScopeKind enumerates the variants a Scope can take.
type ScopeKind uint8

const (
	// ScopePermanent applies to every year.
	ScopePermanent ScopeKind = iota
	// ScopeYear applies to a single year.
	ScopeYear
	// ScopeYearMonth applies to a single month of a single year.
	ScopeYearMonth
	// ScopeLiteral is an unparseable scope kept verbatim.
	ScopeLiteral
)

// Scope is the time window a budget item applies to.
//
// Raw user input is parsed exactly once, by ParseScope. Everything
// downstream works with the tagged value and never re-inspects strings.
type Scope struct {
	Kind    ScopeKind
	Year    int
	Month   int
	Literal string
}

// PermanentScope returns the Scope that applies to every year.
func PermanentScope() Scope {
	return Scope{Kind: ScopePermanent}
}

// YearScope returns the Scope for a single year.
func YearScope(year int) Scope {
	return Scope{Kind: ScopeYear, Year: year}
}

// YearMonthScope returns the Scope for a single month of a year.
func YearMonthScope(year, month int) Scope {
	return Scope{Kind: ScopeYearMonth, Year: year, Month: month}
}

// LiteralScope returns a pass-through Scope for input that could not
// be parsed.
func LiteralScope(raw string) Scope {
	return Scope{Kind: ScopeLiteral, Literal: raw}
}

var (
	yearPattern        = regexp.MustCompile(`\d{4}`)
	monthBeforeMarker  = regexp.MustCompile(`(\d{1,2})\s*(?:月|[Mm]onth)`)
	monthAfterMarker   = regexp.MustCompile(`[Mm]onth\s*(\d{1,2})`)
	canonicalYear      = regexp.MustCompile(`^(\d{4})$`)
	canonicalYearMonth = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
)

// permanentTokens are the accepted spellings for a permanent scope.
var permanentTokens = []string{"permanent", "Permanent", "永久"}

// ParseScope parses a free-form scope label into a Scope.
//
// Accepted forms are the permanent tokens, "2025年", "2025年12月",
// English variants like "2025 Year 12 Month" or "Month 12 2025 Year",
// and the canonical "2025" / "2025-12" forms produced by String.
// Anything else is kept as a literal scope; leniency here is
// deliberate, only category and cadence input is strict.
func ParseScope(raw string) Scope {
	s := strings.TrimSpace(raw)

	for _, token := range permanentTokens {
		if s == token {
			return PermanentScope()
		}
	}

	if match := canonicalYear.FindStringSubmatch(s); match != nil {
		year, _ := strconv.Atoi(match[1])
		return YearScope(year)
	}

	if match := canonicalYearMonth.FindStringSubmatch(s); match != nil {
		year, _ := strconv.Atoi(match[1])
		month, _ := strconv.Atoi(match[2])
		if month >= 1 && month <= 12 {
			return YearMonthScope(year, month)
		}
		return YearScope(year)
	}

	// Year and month markers in either language. The year is any
	// 4-digit sequence, the month is a 1-2 digit number next to a
	// month marker, in either ordering.
	if strings.Contains(s, "年") || strings.Contains(strings.ToLower(s), "year") {
		yearMatch := yearPattern.FindString(s)
		if yearMatch != "" {
			year, _ := strconv.Atoi(yearMatch)

			if month, ok := findMonth(s); ok {
				return YearMonthScope(year, month)
			}
			return YearScope(year)
		}
	}

	return LiteralScope(s)
}

func findMonth(s string) (int, bool) {
	candidates := [][]string{
		monthBeforeMarker.FindStringSubmatch(s),
		monthAfterMarker.FindStringSubmatch(s),
	}

	for _, match := range candidates {
		if match == nil {
			continue
		}

		month, err := strconv.Atoi(match[1])
		if err == nil && month >= 1 && month <= 12 {
			return month, true
		}
	}

	return 0, false
}

// String returns the canonical form: "permanent", "2025", "2025-12" or
// the literal.
func (s Scope) String() string {
	switch s.Kind {
	case ScopePermanent:
		return "permanent"
	case ScopeYear:
		return strconv.Itoa(s.Year)
	case ScopeYearMonth:
		return fmt.Sprintf("%04d-%02d", s.Year, s.Month)
	default:
		return s.Literal
	}
}

// CoversYear reports whether the scope includes the given year.
// Literal scopes cover no specific year.
func (s Scope) CoversYear(year int) bool {
	switch s.Kind {
	case ScopePermanent:
		return true
	case ScopeYear, ScopeYearMonth:
		return s.Year == year
	default:
		return false
	}
}

// MonthNumber returns the month component, if the scope has one.
func (s Scope) MonthNumber() (int, bool) {
	if s.Kind == ScopeYearMonth {
		return s.Month, true
	}
	return 0, false
}

// MarshalJSON implements the json.Marshaler interface.
func (s Scope) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *Scope) UnmarshalJSON(data []byte) error {
	value, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("scope must be a string: %w", err)
	}

	*s = ParseScope(value)
	return nil
}

// Scan reads the value from the database.
func (s *Scope) Scan(value any) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into a scope", value)
	}

	*s = ParseScope(str)
	return nil
}

// Value returns the value for the SQL driver to write to the database.
func (s Scope) Value() (driver.Value, error) {
	return s.String(), nil
}
