// Package domainage holds the domain registration age capability. The
// shipped provider always reports unknown; RDAP/WHOIS backed providers can
// be plugged in behind the same interface.
package domainage

import (
	"context"
)

// NullProvider is the default DomainAgeProvider: it always reports unknown
type NullProvider struct{}

// NewNullProvider creates the always-unknown provider
func NewNullProvider() *NullProvider {
	return &NullProvider{}
}

// AgeDays always returns nil (unknown)
func (p *NullProvider) AgeDays(ctx context.Context, domain string) *int {
	return nil
}
