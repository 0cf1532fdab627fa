// Package resolution finds the frame sizes a camera supports. It loads a
// catalog of common resolutions, from Wikipedia or a local cache, checks
// which of them a camera accepts, and lets a user pick one.
package resolution

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/lapsecam/lapsecam"
)

// DefaultCachePath is the file name of the local resolution cache.
const DefaultCachePath = "common_resolutions.json"

//go:embed common_resolutions.json
var defaultCatalog []byte

// DefaultCatalog returns the catalog shipped with the program, for when no
// cache file exists yet.
func DefaultCatalog() Catalog {
	var c Catalog
	if err := json.Unmarshal(defaultCatalog, &c); err != nil {
		panic(fmt.Sprintf("parsing embedded resolution catalog: %v", err))
	}
	return c
}

// Catalog is an ordered list of candidate resolutions.
type Catalog []lapsecam.Resolution

// cacheFile is the JSON form of a catalog: parallel arrays, the same index
// in both is one resolution.
type cacheFile struct {
	Widths  []int `json:"widths"`
	Heights []int `json:"heights"`
}

// MarshalJSON encodes the catalog as {"widths":[...],"heights":[...]}.
func (c Catalog) MarshalJSON() ([]byte, error) {
	cf := cacheFile{Widths: []int{}, Heights: []int{}}
	for _, r := range c {
		cf.Widths = append(cf.Widths, r.Width)
		cf.Heights = append(cf.Heights, r.Height)
	}
	return json.Marshal(cf)
}

// UnmarshalJSON decodes the parallel array form. The arrays must be of equal
// length, and all values positive.
func (c *Catalog) UnmarshalJSON(buf []byte) error {
	var cf cacheFile
	if err := json.Unmarshal(buf, &cf); err != nil {
		return err
	}
	if len(cf.Widths) != len(cf.Heights) {
		return fmt.Errorf("%d widths, but %d heights", len(cf.Widths), len(cf.Heights))
	}
	r := make(Catalog, len(cf.Widths))
	for i := range cf.Widths {
		r[i] = lapsecam.Resolution{Width: cf.Widths[i], Height: cf.Heights[i]}
		if !r[i].Valid() {
			return fmt.Errorf("invalid resolution %s at index %d", r[i], i)
		}
	}
	*c = r
	return nil
}

// ReadCache reads a catalog from a JSON cache file.
func ReadCache(path string) (Catalog, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resolution cache: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(buf, &c); err != nil {
		return nil, fmt.Errorf("parsing resolution cache %s: %v", path, err)
	}
	return c, nil
}

// WriteCache writes the catalog to a JSON cache file.
func WriteCache(path string, c Catalog) error {
	buf, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal catalog: %v", err)
	}
	if err := ioutil.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("writing resolution cache: %v", err)
	}
	return nil
}
