package resolution

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/lapsecam/lapsecam"
)

// Fetcher retrieves a catalog from a remote source.
type Fetcher interface {
	Fetch(ctx context.Context) (Catalog, error)
}

// Loader loads a catalog from a Fetcher, with a fallback to a local cache.
type Loader struct {
	Fetcher   Fetcher // Remote source. If nil, only the cache is used.
	CachePath string  // Local cache, DefaultCachePath if empty.

	// Fallback is used when the cache file does not exist, eg
	// DefaultCatalog(). A cache file that exists but cannot be parsed is
	// still an error.
	Fallback Catalog

	Verbose bool
}

func (l *Loader) cachePath() string {
	if l.CachePath == "" {
		return DefaultCachePath
	}
	return l.CachePath
}

// Load returns the remote catalog if allowNetwork is set and fetching works,
// and the cached catalog otherwise. If no catalog can be loaded, the error
// wraps lapsecam.ErrCatalogUnavailable.
func (l *Loader) Load(ctx context.Context, allowNetwork bool) (Catalog, error) {
	var fetchErr error
	if allowNetwork && l.Fetcher != nil {
		if l.Verbose {
			log.Printf("attempting to download list of common resolutions...")
		}
		c, err := l.Fetcher.Fetch(ctx)
		if err == nil && len(c) == 0 {
			err = errors.New("no resolutions in remote table")
		}
		if err == nil {
			if l.Verbose {
				log.Printf("found %d resolutions", len(c))
			}
			return c, nil
		}
		fetchErr = err
		log.Printf("download failed, loading cached resolutions: %v", err)
	}

	c, err := ReadCache(l.cachePath())
	if errors.Is(err, os.ErrNotExist) && len(l.Fallback) > 0 {
		if l.Verbose {
			log.Printf("no resolution cache %s, using %d built-in resolutions", l.cachePath(), len(l.Fallback))
		}
		return append(Catalog{}, l.Fallback...), nil
	}
	if err != nil {
		if fetchErr != nil {
			return nil, fmt.Errorf("%w: download: %v; cache: %v", lapsecam.ErrCatalogUnavailable, fetchErr, err)
		}
		return nil, fmt.Errorf("%w: %v", lapsecam.ErrCatalogUnavailable, err)
	}
	if l.Verbose {
		log.Printf("loaded %d resolutions from cache", len(c))
	}
	return c, nil
}
