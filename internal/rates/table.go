package rates

import (
	"sort"
	"time"
)

// Table is an immutable, code-sorted snapshot of exchange rates.
// A refresh builds a new Table; existing ones are never modified.
type Table struct {
	entries   []ExchangeRate
	updatedAt time.Time
}

// NewTable builds a table from rates keyed by currency code.
func NewTable(byCode map[string]ExchangeRate, updatedAt time.Time) *Table {
	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	entries := make([]ExchangeRate, 0, len(codes))
	for _, code := range codes {
		e := byCode[code]
		e.Code = code
		entries = append(entries, e)
	}
	return &Table{entries: entries, updatedAt: updatedAt}
}

// Len returns the number of rates.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// UpdatedAt is the time the table was published.
func (t *Table) UpdatedAt() time.Time { return t.updatedAt }

// Get returns the rate stored under code.
func (t *Table) Get(code string) (ExchangeRate, bool) {
	if t == nil || code == "" {
		return ExchangeRate{}, false
	}
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].Code >= code })
	if i < len(t.entries) && t.entries[i].Code == code {
		return t.entries[i], true
	}
	return ExchangeRate{}, false
}

// Entries returns a copy of all rates in code order.
func (t *Table) Entries() []ExchangeRate {
	if t == nil {
		return nil
	}
	out := make([]ExchangeRate, len(t.entries))
	copy(out, t.entries)
	return out
}
