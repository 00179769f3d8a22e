// Package query answers lookups against one rate table snapshot.
package query

import (
	"strings"

	"github.com/leekchan/accounting"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"ratesprovider/internal/rates"
)

// Resolver is the fallback chain used when an exact code is not in the table.
type Resolver struct {
	Preferred     string // caller's configured currency
	Locale        string // BCP 47 tag, e.g. de-CH
	SystemDefault string // default: USD
}

// Chain returns the codes tried for code, in order, without blanks or repeats.
func (r Resolver) Chain(code string) []string {
	system := r.SystemDefault
	if system == "" {
		system = "USD"
	}
	local, _ := LocaleCurrency(r.Locale)

	out := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	for _, c := range []string{code, r.Preferred, local, system} {
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// LocaleCurrency returns the default currency of the region of a locale tag.
func LocaleCurrency(tag string) (string, bool) {
	if tag == "" {
		return "", false
	}
	t, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	unit, conf := currency.FromTag(t)
	if conf == language.No {
		return "", false
	}
	return unit.String(), true
}

// Exact returns the entry for code, or for the first code of the resolver's
// chain that is present. An empty code starts at the preferred currency.
func Exact(t *rates.Table, code string, r Resolver) (rates.ExchangeRate, bool) {
	for _, c := range r.Chain(code) {
		if e, ok := t.Get(c); ok {
			return e, true
		}
	}
	return rates.ExchangeRate{}, false
}

// Fuzzy returns, in table order, every entry whose code or currency symbol
// contains q, ignoring case. An empty q matches everything.
func Fuzzy(t *rates.Table, q string) []rates.ExchangeRate {
	needle := strings.ToLower(q)
	out := make([]rates.ExchangeRate, 0)
	for _, e := range t.Entries() {
		if strings.Contains(strings.ToLower(e.Code), needle) {
			out = append(out, e)
			continue
		}
		if sym := Symbol(e.Code); sym != "" && strings.Contains(strings.ToLower(sym), needle) {
			out = append(out, e)
		}
	}
	return out
}

// All returns every entry in table order.
func All(t *rates.Table) []rates.ExchangeRate {
	out := t.Entries()
	if out == nil {
		return []rates.ExchangeRate{}
	}
	return out
}

// cryptoSymbols covers codes the fiat locale table does not know.
var cryptoSymbols = map[string]string{
	"BTC":     "฿",
	"mBTC":    "m฿",
	"SATOSHI": "sat",
	"LTC":     "Ł",
	"DOGE":    "Ð",
}

// Symbol returns the display symbol of a currency code, or "" if unknown.
func Symbol(code string) string {
	if s, ok := cryptoSymbols[code]; ok {
		return s
	}
	if l, ok := accounting.LocaleInfo[code]; ok {
		return l.ComSymbol
	}
	return ""
}
