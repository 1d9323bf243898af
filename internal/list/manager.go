package list

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/MrSnakeDoc/artcrate/internal/catalog"
	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/models"
	"github.com/MrSnakeDoc/artcrate/internal/printer"
	"github.com/MrSnakeDoc/artcrate/internal/utils"
	"github.com/olekukonko/tablewriter"
)

// Facet selects the asset attribute being listed.
type Facet string

const (
	FacetType Facet = "type"
	FacetPack Facet = "pack"
)

// row is a view model for rendering.
type row struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type AssetSource interface {
	FetchAssets(ctx context.Context, forceRefresh bool) ([]models.Asset, error)
}

type Lister struct {
	Source AssetSource
	Out    io.Writer
	Color  bool
}

func New(src AssetSource, out io.Writer, color bool) *Lister {
	if out == nil {
		out = os.Stdout
	}
	return &Lister{Source: src, Out: out, Color: color}
}

// Execute renders the distinct values of facet with their asset counts,
// sorted by value.
func (l *Lister) Execute(ctx context.Context, facet Facet, jsonOut bool) error {
	assets, err := l.Source.FetchAssets(ctx, false)
	if err != nil {
		return err
	}

	key, header, err := facetKey(facet)
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, a := range assets {
		counts[key(a)]++
	}

	var values []string
	switch facet {
	case FacetType:
		values = catalog.Types(assets)
	default:
		values = catalog.Packs(assets)
	}

	rows := utils.Map(values, func(v string) row {
		return row{Value: v, Count: counts[v]}
	})

	if jsonOut {
		enc := json.NewEncoder(l.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	p := printer.NewColorPrinter(l.Color)
	table := logger.CreateTable(l.Out, []string{header, "Assets"})
	for _, r := range rows {
		if err := renderRow(table, prettyValue(p, r.Value), strconv.Itoa(r.Count)); err != nil {
			return fmt.Errorf("an error occurred while appending to the table: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("an error occurred while rendering the table: %w", err)
	}
	return nil
}

func facetKey(f Facet) (func(models.Asset) string, string, error) {
	switch f {
	case FacetType:
		return func(a models.Asset) string { return a.Type }, "Type", nil
	case FacetPack:
		return func(a models.Asset) string { return a.AssetPack }, "Pack", nil
	default:
		return nil, "", fmt.Errorf("unknown facet %q", f)
	}
}

func renderRow(table *tablewriter.Table, value, count string) error {
	return table.Append([]string{value, count})
}

// prettyValue dims the placeholder used for missing cells.
func prettyValue(p *printer.ColorPrinter, v string) string {
	if v == models.UnknownValue {
		return p.Warning(v)
	}
	return v
}
