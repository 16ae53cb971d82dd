package merchant

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed aliases.yaml
var defaultAliasesYAML []byte

// AliasTable resolves extracted merchant names to canonical display names.
// It is immutable after construction and safe for concurrent use.
type AliasTable struct {
	aliases map[string]string
}

// NewAliasTable builds a table from a lowercase-key mapping. Keys are
// normalized so lookups are case-insensitive.
func NewAliasTable(m map[string]string) *AliasTable {
	aliases := make(map[string]string, len(m))
	for k, v := range m {
		aliases[normalizeKey(k)] = v
	}
	return &AliasTable{aliases: aliases}
}

// LoadAliases parses a YAML document of `alias: Display Name` pairs.
func LoadAliases(data []byte) (*AliasTable, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("LoadAliases: unmarshal yaml: %w", err)
	}
	return NewAliasTable(raw), nil
}

// DefaultAliases returns the alias table compiled into the binary.
// It panics if the embedded document is malformed.
func DefaultAliases() *AliasTable {
	t, err := LoadAliases(defaultAliasesYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve returns the canonical name for name, or name unchanged when the
// table has no entry for it.
func (t *AliasTable) Resolve(name string) string {
	if canonical, ok := t.Lookup(name); ok {
		return canonical
	}
	return name
}

// Lookup returns the canonical name for name and whether one exists.
func (t *AliasTable) Lookup(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	canonical, ok := t.aliases[normalizeKey(name)]
	return canonical, ok
}

// Len reports the number of aliases.
func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.aliases)
}

func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
