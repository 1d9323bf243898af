package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/artcrate/internal/catalog"
	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/models"
)

/*
---------------------------------
  Test harness
---------------------------------
*/

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

type stubSource struct {
	assets  []models.Asset
	err     error
	refresh []bool
}

func (s *stubSource) FetchAssets(_ context.Context, force bool) ([]models.Asset, error) {
	s.refresh = append(s.refresh, force)
	return s.assets, s.err
}

var items = []models.Asset{
	{Name: "Knight", Type: "Character", AssetPack: "Heroes", Link: "https://x/k", Tags: []string{"melee"}},
	{Name: "Archer", Type: "Character", AssetPack: "Heroes", Link: "#", Tags: []string{}},
	{Name: "Slime", Type: "Enemy", AssetPack: "Monsters", Link: "#", Tags: []string{}},
}

type structDef struct {
	name          string
	opts          Options
	expectError   string
	expectJSONLen int
	expectNames   []string
}

var searchTestCases = []structDef{
	{
		name:          "no query returns all",
		opts:          Options{JSON: true, Page: 1, PerPage: 20},
		expectJSONLen: 3,
	},
	{
		name:          "query matches name",
		opts:          Options{Filter: catalog.Filter{Query: "kni"}, JSON: true, Page: 1, PerPage: 20},
		expectJSONLen: 1,
		expectNames:   []string{"Knight"},
	},
	{
		name:          "type filter and paging",
		opts:          Options{Filter: catalog.Filter{Types: []string{"character"}}, JSON: true, Page: 2, PerPage: 1},
		expectJSONLen: 1,
		expectNames:   []string{"Archer"},
	},
	{
		name:          "regex",
		opts:          Options{Filter: catalog.Filter{Query: "^s", Regex: true}, JSON: true, Page: 1},
		expectJSONLen: 1,
		expectNames:   []string{"Slime"},
	},
	{
		name:        "invalid regex",
		opts:        Options{Filter: catalog.Filter{Query: "[", Regex: true}, JSON: true},
		expectError: "invalid regex",
	},
}

func TestSearcher_Execute(t *testing.T) {
	for _, tc := range searchTestCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			err := New(&stubSource{assets: items}, &out, false).Execute(context.Background(), tc.opts)

			if tc.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectError)
				return
			}
			require.NoError(t, err)

			var page catalog.Page
			require.NoError(t, json.Unmarshal(out.Bytes(), &page))
			assert.Len(t, page.Items, tc.expectJSONLen)
			for i, n := range tc.expectNames {
				assert.Equal(t, n, page.Items[i].Name)
			}
		})
	}
}

func TestSearcher_PassesRefresh(t *testing.T) {
	src := &stubSource{assets: items}
	require.NoError(t, New(src, &bytes.Buffer{}, false).Execute(context.Background(), Options{Refresh: true, JSON: true}))
	assert.Equal(t, []bool{true}, src.refresh)
}

func TestSearcher_FetchError(t *testing.T) {
	src := &stubSource{err: errors.New("failed to fetch asset data: offline")}
	err := New(src, &bytes.Buffer{}, false).Execute(context.Background(), Options{})
	assert.EqualError(t, err, "failed to fetch asset data: offline")
}

func TestSearcher_Table(t *testing.T) {
	var out bytes.Buffer
	err := New(&stubSource{assets: items}, &out, false).Execute(context.Background(), Options{Page: 1, PerPage: 2})
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Knight")
	assert.Contains(t, s, "https://x/k")
	assert.NotContains(t, s, "Slime")
	assert.Contains(t, s, "1-2 of 3 · page 1/2 [1] 2")
}

func TestFooter(t *testing.T) {
	assert.Equal(t, "all 7", footer(catalog.Page{Total: 7, PerPage: 0}))
	assert.Equal(t, "1-5 of 5 · page 1/1", footer(catalog.Page{Start: 1, End: 5, Total: 5, Page: 1, PerPage: 10, TotalPages: 1}))
	assert.Equal(t, "41-50 of 100 · page 5/10 1 … 4 [5] 6 … 10",
		footer(catalog.Page{Start: 41, End: 50, Total: 100, Page: 5, PerPage: 10, TotalPages: 10}))
}
