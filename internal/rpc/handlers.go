package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/artcrate/internal/catalog"
	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/models"
)

const errInternal = "internal server error"

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) getAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.svc.FetchAssets(r.Context(), false)
	if err != nil {
		logger.LogError("get assets: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

func (s *Server) getCacheInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.CacheInfo(r.Context()))
}

func (s *Server) refetch(w http.ResponseWriter, r *http.Request) {
	assets, err := s.svc.ClearAndRefetch(r.Context())
	if err != nil {
		logger.LogError("clear cache: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

func (s *Server) openCache(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.OpenCacheLocation(r.Context()); err != nil {
		logger.LogError("open cache location: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) searchAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("page: %v", err))
		return
	}
	perPage, err := intParam(q.Get("per_page"), catalog.DefaultPerPage)
	if err != nil || perPage < 0 {
		writeError(w, http.StatusBadRequest, "per_page must be a non-negative integer")
		return
	}

	filter := catalog.Filter{
		Query: q.Get("q"),
		Types: q["type"],
		Packs: q["pack"],
		Tags:  q["tag"],
		Regex: strings.EqualFold(q.Get("regex"), "true"),
	}

	assets, err := s.svc.FetchAssets(r.Context(), false)
	if err != nil {
		logger.LogError("search assets: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	matched, err := catalog.Search(assets, filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, catalog.Paginate(matched, page, perPage))
}

type facets struct {
	Types []string `json:"types"`
	Packs []string `json:"packs"`
}

func (s *Server) getFacets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.svc.FetchAssets(r.Context(), false)
	if err != nil {
		logger.LogError("facets: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, facetsOf(assets))
}

func facetsOf(assets []models.Asset) facets {
	return facets{Types: catalog.Types(assets), Packs: catalog.Packs(assets)}
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

var errNotInteger = errors.New("must be an integer")

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errNotInteger
	}
	return n, nil
}
