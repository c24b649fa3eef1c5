package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/woodspider/internal/model"
)

// CatalogFile is the YAML layout of a keyword catalog:
//
//	keywords:
//	  - {id: 1, keyword: glulam}
//	  - {id: 200, keyword: building}
//	exclusion_sites: [facebook.com]
//	exclusion_keywords: [casino]
//
// Identifiers below 200 are domain keywords, the rest general keywords.
type CatalogFile struct {
	Keywords []struct {
		ID      int    `yaml:"id"`
		Keyword string `yaml:"keyword"`
	} `yaml:"keywords"`
	ExclusionSites    []string `yaml:"exclusion_sites"`
	ExclusionKeywords []string `yaml:"exclusion_keywords"`
}

// LoadCatalogFile reads a catalog file. Keyword identifiers must be
// non-negative and unique.
func LoadCatalogFile(path string) (*model.CatalogEntries, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided catalog path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	entries := &model.CatalogEntries{
		Keywords:          make([]model.KeywordEntry, 0, len(cf.Keywords)),
		ExclusionSites:    cf.ExclusionSites,
		ExclusionKeywords: cf.ExclusionKeywords,
	}
	seen := make(map[int]struct{}, len(cf.Keywords))
	for _, k := range cf.Keywords {
		if k.ID < 0 {
			return nil, fmt.Errorf("keyword %q has negative id %d", k.Keyword, k.ID)
		}
		if _, dup := seen[k.ID]; dup {
			return nil, fmt.Errorf("duplicate keyword id %d", k.ID)
		}
		seen[k.ID] = struct{}{}
		entries.Keywords = append(entries.Keywords, model.KeywordEntry{Keyword: k.Keyword, ID: k.ID})
	}
	return entries, nil
}
