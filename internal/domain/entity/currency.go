package entity

import (
	"encoding/json"
	"sort"
)

// Currency is one entry of the currency catalog
type Currency struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CurrencyCatalog maps currency codes to display names. It is built once from
// a remote response and never mutated afterwards.
type CurrencyCatalog struct {
	names map[string]string
}

// NewCurrencyCatalog copies names into a new catalog
func NewCurrencyCatalog(names map[string]string) CurrencyCatalog {
	c := CurrencyCatalog{names: make(map[string]string, len(names))}
	for code, name := range names {
		c.names[code] = name
	}
	return c
}

// Len returns the number of currencies
func (c CurrencyCatalog) Len() int {
	return len(c.names)
}

// Name returns the display name of code
func (c CurrencyCatalog) Name(code string) (string, bool) {
	name, ok := c.names[code]
	return name, ok
}

// Codes returns all currency codes in ascending order
func (c CurrencyCatalog) Codes() []string {
	codes := make([]string, 0, len(c.names))
	for code := range c.names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Currencies returns the catalog entries sorted by code
func (c CurrencyCatalog) Currencies() []Currency {
	out := make([]Currency, 0, len(c.names))
	for _, code := range c.Codes() {
		out = append(out, Currency{Code: code, Name: c.names[code]})
	}
	return out
}

// MarshalJSON encodes the catalog as a code→name object
func (c CurrencyCatalog) MarshalJSON() ([]byte, error) {
	if c.names == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.names)
}

// UnmarshalJSON decodes a code→name object
func (c *CurrencyCatalog) UnmarshalJSON(data []byte) error {
	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*c = NewCurrencyCatalog(names)
	return nil
}

// IsCurrencyCode reports whether code looks like an ISO 4217 code (three upper-case letters)
func IsCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
