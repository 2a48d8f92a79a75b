package rates

import (
	"context"
	"fmt"
	"strings"
)

// StaticProvider serves rates from a fixed table keyed by "FROM/TO".
type StaticProvider struct {
	rates map[string]float64
}

// NewStaticProvider copies rates into a provider. Keys are case-insensitive.
func NewStaticProvider(rates map[string]float64) *StaticProvider {
	table := make(map[string]float64, len(rates))
	for k, v := range rates {
		table[strings.ToUpper(k)] = v
	}
	return &StaticProvider{rates: table}
}

// LookupRate returns the table entry for from/to, or an error if there is none.
func (p *StaticProvider) LookupRate(_ context.Context, from, to string) (float64, error) {
	rate, ok := p.rates[strings.ToUpper(from+"/"+to)]
	if !ok {
		return 0, fmt.Errorf("no rate for %s/%s", from, to)
	}
	return rate, nil
}
