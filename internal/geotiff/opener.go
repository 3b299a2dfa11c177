package geotiff

import (
	"time"

	"github.com/karlseguin/ccache/v3"
	"golang.org/x/sync/singleflight"
)

const datasetTTL = time.Hour

// Opener opens GeoTIFF datasets with an LRU metadata cache. Concurrent
// opens of the same path are deduplicated with singleflight so a tile
// referenced by many workers is parsed once.
type Opener struct {
	cache    *ccache.Cache[*Dataset]
	inflight singleflight.Group
}

// NewOpener builds an opener caching up to maxEntries dataset records.
func NewOpener(maxEntries int64) *Opener {
	return &Opener{
		cache: ccache.New(ccache.Configure[*Dataset]().MaxSize(maxEntries)),
	}
}

// Open returns the dataset metadata for path, from cache when possible.
func (o *Opener) Open(path string) (*Dataset, error) {
	if item := o.cache.Get(path); item != nil && !item.Expired() {
		return item.Value(), nil
	}
	v, err, _ := o.inflight.Do(path, func() (any, error) {
		ds, err := Open(path)
		if err != nil {
			return nil, err
		}
		o.cache.Set(path, ds, datasetTTL)
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}
