// Package tsv turns the spreadsheet's tab-separated export into assets.
package tsv

import (
	"errors"
	"strings"

	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/models"
)

// ErrNoData is returned when the feed has no data rows.
var ErrNoData = errors.New("no data found in TSV response")

// columns holds the resolved position of every known field, -1 when absent.
type columns struct {
	Name int
	Type int
	Pack int
	Link int
	Tags int
}

// missing lists the scalar fields that could not be located.
func (c columns) missing() []string {
	var out []string
	for _, f := range []struct {
		name string
		idx  int
	}{
		{"name", c.Name},
		{"type", c.Type},
		{"pack", c.Pack},
		{"link", c.Link},
	} {
		if f.idx < 0 {
			out = append(out, f.name)
		}
	}
	return out
}

// resolveColumns locates fields by case-insensitive substring match on the
// header cells. The first matching cell wins.
func resolveColumns(header []string) columns {
	find := func(needles ...string) int {
		for i, h := range header {
			lh := strings.ToLower(h)
			for _, n := range needles {
				if strings.Contains(lh, n) {
					return i
				}
			}
		}
		return -1
	}

	return columns{
		Name: find("name"),
		Type: find("type"),
		Pack: find("pack"),
		Link: find("link", "url"),
		Tags: find("tags"),
	}
}

// Parse converts raw TSV text into assets. Missing columns degrade to
// placeholder values instead of failing the parse.
func Parse(data string) ([]models.Asset, error) {
	lines := strings.Split(data, "\n")
	if len(lines) <= 1 {
		return nil, ErrNoData
	}

	cols := resolveColumns(splitRow(lines[0]))
	logger.Debug("tsv columns: name=%d type=%d pack=%d link=%d tags=%d",
		cols.Name, cols.Type, cols.Pack, cols.Link, cols.Tags)

	if missing := cols.missing(); len(missing) > 0 {
		logger.Warn("feed header is missing columns: %s", strings.Join(missing, ", "))
	}

	assets := make([]models.Asset, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		assets = append(assets, parseRow(splitRow(line), cols))
	}
	if len(assets) == 0 {
		return nil, ErrNoData
	}

	logger.Debug("parsed %d assets from TSV data", len(assets))
	return assets, nil
}

func splitRow(line string) []string {
	return strings.Split(strings.TrimSuffix(line, "\r"), "\t")
}

func parseRow(values []string, cols columns) models.Asset {
	return models.Asset{
		Name:      cell(values, cols.Name, models.UnknownValue),
		Type:      cell(values, cols.Type, models.UnknownValue),
		AssetPack: cell(values, cols.Pack, models.UnknownValue),
		Link:      cell(values, cols.Link, models.UnknownLink),
		Tags:      splitTags(cell(values, cols.Tags, "")),
	}
}

func cell(values []string, idx int, fallback string) string {
	if idx < 0 || idx >= len(values) || values[idx] == "" {
		return fallback
	}
	return values[idx]
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
