package statement

import (
	"github.com/dvloznov/statement-ingest/internal/domain"
)

// Registry selects a dialect for a file. Dialects are tried in order and the
// generic dialect is used when none matches.
type Registry struct {
	dialects []Dialect
	fallback Dialect
}

// NewRegistry returns a registry with the built-in dialects.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		dialects: []Dialect{
			NewMBank(opts),
			NewPKO(opts),
			NewRevolut(opts),
			NewZen(opts),
		},
		fallback: NewGeneric(opts),
	}
}

// Select returns the first dialect whose Detect matches content.
func (r *Registry) Select(content string) Dialect {
	for _, d := range r.dialects {
		if d.Detect(content) {
			return d
		}
	}
	return r.fallback
}

// Detect returns the bank of the selected dialect.
func (r *Registry) Detect(content string) domain.Bank {
	return r.Select(content).Bank()
}

// Parse detects the dialect and parses content with it.
func (r *Registry) Parse(content string) *domain.ParseResult {
	return r.Select(content).Parse(content)
}
