package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/artcrate/internal/catalog"
	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/models"
	"github.com/MrSnakeDoc/artcrate/internal/printer"
	"github.com/MrSnakeDoc/artcrate/internal/utils"
)

// AssetSource is satisfied by the fetch coordinator.
type AssetSource interface {
	FetchAssets(ctx context.Context, forceRefresh bool) ([]models.Asset, error)
}

type Searcher struct {
	source AssetSource
	out    io.Writer
	color  bool
}

func New(src AssetSource, out io.Writer, color bool) *Searcher {
	if out == nil {
		out = os.Stdout
	}
	return &Searcher{source: src, out: out, color: color}
}

// ---- Options structs ----

type Options struct {
	Filter  catalog.Filter
	Page    int
	PerPage int
	Refresh bool
	JSON    bool
}

// ---- Orchestrator ----

func (s *Searcher) Execute(ctx context.Context, opts Options) error {
	assets, err := s.source.FetchAssets(ctx, opts.Refresh)
	if err != nil {
		return err
	}

	matched, err := catalog.Search(assets, opts.Filter)
	if err != nil {
		return err
	}
	page := catalog.Paginate(matched, opts.Page, opts.PerPage)
	logger.Debug("search: %d of %d assets match", len(matched), len(assets))

	if opts.JSON {
		return s.outputJSON(page)
	}
	return s.outputTable(page)
}

func (s *Searcher) outputJSON(page catalog.Page) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}

type assetRow struct {
	Name, Type, Pack, Tags, Link string
}

func (s *Searcher) outputTable(page catalog.Page) error {
	if page.Total == 0 {
		logger.Warn("no assets match")
		return nil
	}

	p := printer.NewColorPrinter(s.color)
	table := logger.CreateTable(s.out, []string{"Name", "Type", "Pack", "Tags", "Link"})

	rows := utils.Map(page.Items, func(a models.Asset) assetRow {
		link := a.Link
		if link == models.UnknownLink {
			link = p.Warning("-")
		}
		return assetRow{
			Name: p.Accent("%s", a.Name),
			Type: a.Type,
			Pack: a.AssetPack,
			Tags: strings.Join(a.Tags, ", "),
			Link: link,
		}
	})

	for _, r := range rows {
		if err := table.Append([]string{r.Name, r.Type, r.Pack, r.Tags, r.Link}); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	_, err := fmt.Fprintln(s.out, footer(page))
	return err
}

// footer summarizes the page: "1-20 of 45 · page 1/3 [1] 2 3".
func footer(page catalog.Page) string {
	if page.PerPage == 0 {
		return fmt.Sprintf("all %d", page.Total)
	}
	summary := fmt.Sprintf("%d-%d of %d · page %d/%d", page.Start, page.End, page.Total, page.Page, page.TotalPages)
	if page.TotalPages == 1 {
		return summary
	}

	nav := utils.Map(catalog.PageWindow(page.Page, page.TotalPages, catalog.DefaultWindow), func(n int) string {
		switch n {
		case catalog.Gap:
			return "…"
		case page.Page:
			return "[" + strconv.Itoa(n) + "]"
		default:
			return strconv.Itoa(n)
		}
	})
	return summary + " " + strings.Join(nav, " ")
}
