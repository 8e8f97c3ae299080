package match

import (
	"strings"

	"golang.org/x/text/currency"
)

// Converter normalizes award amounts to a reference currency using a static
// rate table. Normalization is best-effort: an unknown rate or a non-ISO code
// makes the award non-comparable and the ranker treats the pair as equal.
type Converter struct {
	reference string
	rates     map[string]float64 // units of reference per unit of currency
}

// NewConverter builds a converter. The reference currency always has rate 1.
func NewConverter(reference string, rates map[string]float64) *Converter {
	ref := strings.ToUpper(strings.TrimSpace(reference))
	normalized := make(map[string]float64, len(rates)+1)
	for code, rate := range rates {
		if rate > 0 {
			normalized[strings.ToUpper(strings.TrimSpace(code))] = rate
		}
	}
	if ref != "" {
		normalized[ref] = 1
	}
	return &Converter{reference: ref, rates: normalized}
}

// Normalize converts amount (minor units) to reference-currency units.
// ok is false when the code is not a valid ISO 4217 unit or no rate is known.
func (c *Converter) Normalize(amount int64, code string) (float64, bool) {
	if c == nil {
		return 0, false
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, err := currency.ParseISO(code); err != nil {
		return 0, false
	}
	rate, ok := c.rates[code]
	if !ok {
		return 0, false
	}
	return float64(amount) * rate, true
}
