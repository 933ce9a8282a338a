package nbrb

import (
	"fmt"
)

// CurrencyMap resolves currency abbreviations to NBRB currency IDs.
// NBRB keeps retired IDs in the list, so for a repeated abbreviation the
// record that comes last wins. BYN is never present. Lookups are exact:
// "usd" is not "USD".
type CurrencyMap map[string]int

func NewCurrencyMap(currencies []Currency) CurrencyMap {
	m := make(CurrencyMap, len(currencies))
	for _, cur := range currencies {
		m[cur.Abbreviation] = cur.ID
	}
	return m
}

func (m CurrencyMap) Lookup(code string) (int, error) {
	id, ok := m[code]
	if !ok {
		return 0, fmt.Errorf("%w: no data for %q is available", ErrUnknownCurrency, code)
	}
	return id, nil
}

func (m CurrencyMap) Has(code string) bool {
	_, ok := m[code]
	return ok
}
