// Package catalog filters, facets and paginates an asset list for display.
// It never mutates its input; every result is a fresh slice.
package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MrSnakeDoc/artcrate/internal/models"
	"github.com/MrSnakeDoc/artcrate/internal/utils"
)

// Filter narrows an asset list. Zero value matches everything.
type Filter struct {
	Query string
	Types []string
	Packs []string
	Tags  []string
	Regex bool
}

// Search returns the assets matching f, in input order.
func Search(assets []models.Asset, f Filter) ([]models.Asset, error) {
	match, err := queryMatcher(f)
	if err != nil {
		return nil, err
	}

	types := utils.LowerSet(f.Types)
	packs := utils.LowerSet(f.Packs)
	tags := utils.LowerSet(f.Tags)

	return utils.Filter(assets, func(a models.Asset) bool {
		return inSet(types, a.Type) &&
			inSet(packs, a.AssetPack) &&
			hasAllTags(a, tags) &&
			match(a)
	}), nil
}

func queryMatcher(f Filter) (func(models.Asset) bool, error) {
	query := strings.TrimSpace(f.Query)
	if query == "" {
		return func(models.Asset) bool { return true }, nil
	}
	if f.Regex {
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			return nil, fmt.Errorf("invalid regex: %w", err)
		}
		return func(a models.Asset) bool { return matchRegex(a, re) }, nil
	}
	q := strings.ToLower(query)
	return func(a models.Asset) bool { return matchSubstring(a, q) }, nil
}

func searchable(a models.Asset) []string {
	return []string{a.Name, a.Type, a.AssetPack}
}

func matchRegex(a models.Asset, re *regexp.Regexp) bool {
	return utils.Some(searchable(a), re.MatchString)
}

func matchSubstring(a models.Asset, q string) bool {
	return utils.Some(searchable(a), func(v string) bool {
		return strings.Contains(strings.ToLower(v), q)
	})
}

// inSet reports membership; an empty set admits every value.
func inSet(set map[string]struct{}, v string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[strings.ToLower(v)]
	return ok
}

func hasAllTags(a models.Asset, want map[string]struct{}) bool {
	if len(want) == 0 {
		return true
	}
	have := utils.LowerSet(a.Tags)
	for t := range want {
		if _, ok := have[t]; !ok {
			return false
		}
	}
	return true
}

// Types lists the distinct asset types, sorted.
func Types(assets []models.Asset) []string {
	return utils.DistinctSorted(assets, func(a models.Asset) string { return a.Type })
}

// Packs lists the distinct asset packs, sorted.
func Packs(assets []models.Asset) []string {
	return utils.DistinctSorted(assets, func(a models.Asset) string { return a.AssetPack })
}
