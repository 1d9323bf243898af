package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/MrSnakeDoc/artcrate/internal/models"
)

var errIncompleteRecord = errors.New("record has no assets or timestamp")

// CacheKey is the single record holding the cached feed.
const CacheKey = "cacheData"

// LoadCachedData returns the cached feed. It returns (nil, ErrNotFound) when
// nothing is cached and a *Error with Op "decode" when the record is corrupt
// or lacks its assets or timestamp.
func LoadCachedData(ctx context.Context, s Store) (*models.CachedData, error) {
	raw, err := s.Get(ctx, CacheKey)
	if err != nil {
		return nil, err
	}

	var d models.CachedData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, &Error{Op: "decode", Key: CacheKey, Err: err}
	}
	if d.Assets == nil || d.Timestamp <= 0 {
		return nil, &Error{Op: "decode", Key: CacheKey, Err: errIncompleteRecord}
	}
	for i := range d.Assets {
		if d.Assets[i].Tags == nil {
			d.Assets[i].Tags = []string{}
		}
	}
	return &d, nil
}

func SaveCachedData(ctx context.Context, s Store, d models.CachedData) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return &Error{Op: "encode", Key: CacheKey, Err: err}
	}
	return s.Set(ctx, CacheKey, raw)
}

func DeleteCachedData(ctx context.Context, s Store) error {
	return s.Delete(ctx, CacheKey)
}
