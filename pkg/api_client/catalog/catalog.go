// Package catalog holds the closed vocabulary of analyzer error codes.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/invopop/yaml"

	"github.com/biotools-linter/linter-api/pkg/api_client/models"
)

//go:embed codes.yaml
var codesYAML []byte

// Catalog is an ordered, read-only set of error codes.
type Catalog struct {
	codes []models.ErrorCode
	index map[string]int
}

// Parse reads a catalogue document.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Codes []models.ErrorCode `json:"codes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse error code catalogue: %w", err)
	}
	c := &Catalog{index: make(map[string]int, len(doc.Codes))}
	for _, code := range doc.Codes {
		if code.Code == "" {
			return nil, fmt.Errorf("parse error code catalogue: entry without code")
		}
		if _, dup := c.index[code.Code]; dup {
			return nil, fmt.Errorf("parse error code catalogue: duplicate code %s", code.Code)
		}
		c.index[code.Code] = len(c.codes)
		c.codes = append(c.codes, code)
	}
	return c, nil
}

// Default returns the embedded catalogue.
func Default() *Catalog {
	c, err := Parse(codesYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Codes returns a copy of every entry in catalogue order.
func (c *Catalog) Codes() []models.ErrorCode {
	out := make([]models.ErrorCode, len(c.codes))
	copy(out, c.codes)
	return out
}

// Names returns the code tokens in catalogue order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.codes))
	for _, code := range c.codes {
		out = append(out, code.Code)
	}
	return out
}

// Lookup finds a code.
func (c *Catalog) Lookup(code string) (models.ErrorCode, bool) {
	i, ok := c.index[code]
	if !ok {
		return models.ErrorCode{}, false
	}
	return c.codes[i], true
}
