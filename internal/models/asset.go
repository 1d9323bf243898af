package models

// Placeholder values used when the feed lacks a column or a cell.
const (
	UnknownValue = "Unknown"
	UnknownLink  = "#"
)

// Asset is one catalog entry taken from a row of the spreadsheet feed.
type Asset struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	AssetPack string   `json:"assetPack"`
	Link      string   `json:"link"`
	Tags      []string `json:"tags"`
}

// CachedData is the record persisted under the cache key.
// Timestamp is in epoch milliseconds.
type CachedData struct {
	Assets       []Asset `json:"assets"`
	ETag         string  `json:"etag"`
	LastModified string  `json:"lastModified"`
	Timestamp    int64   `json:"timestamp"`
}

// CacheInfo is derived from CachedData on every query.
type CacheInfo struct {
	Exists     bool   `json:"exists"`
	Timestamp  *int64 `json:"timestamp"`
	AssetCount *int   `json:"assetCount"`
}

// NewCacheInfo builds the info view of d; a nil d yields the "absent" value.
func NewCacheInfo(d *CachedData) CacheInfo {
	if d == nil {
		return CacheInfo{}
	}
	ts := d.Timestamp
	n := len(d.Assets)
	return CacheInfo{Exists: true, Timestamp: &ts, AssetCount: &n}
}
