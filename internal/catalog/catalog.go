// Package catalog holds the static star table used to anchor catalog
// constellations. A Catalog is immutable once loaded.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
	"seehuhn.de/go/geom/vec"
)

//go:embed catalog.yaml
var defaultYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid catalog")

// Entry is a named star position in degrees.
type Entry struct {
	Name string  `yaml:"name"`
	RA   float64 `yaml:"ra"`
	Dec  float64 `yaml:"dec"`
}

// Pair connects two entries by index.
type Pair [2]int

// SegmentList is a named group of connections.
type SegmentList struct {
	Name  string
	Pairs []Pair
}

// Catalog is a read-only table of entries and segment lists.
type Catalog struct {
	entries []Entry
	lists   []SegmentList
}

type fileFormat struct {
	Stars    []Entry `yaml:"stars"`
	Segments []struct {
		Name  string  `yaml:"name"`
		Pairs [][]int `yaml:"pairs"`
	} `yaml:"segments"`
}

// Load parses a YAML catalog. Pairs that point outside the star list are kept;
// consumers skip them.
func Load(r io.Reader) (*Catalog, error) {
	var f fileFormat
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	c := &Catalog{entries: make([]Entry, 0, len(f.Stars))}
	for i, e := range f.Stars {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog: star %d has no name: %w", i, ErrInvalid)
		}
		if math.IsNaN(e.RA) || math.IsInf(e.RA, 0) {
			return nil, fmt.Errorf("catalog: star %q: right ascension %v: %w", e.Name, e.RA, ErrInvalid)
		}
		if !(e.Dec >= -90 && e.Dec <= 90) {
			return nil, fmt.Errorf("catalog: star %q: declination %v out of range: %w", e.Name, e.Dec, ErrInvalid)
		}
		c.entries = append(c.entries, e)
	}
	for _, s := range f.Segments {
		list := SegmentList{Name: s.Name, Pairs: make([]Pair, 0, len(s.Pairs))}
		for _, p := range s.Pairs {
			if len(p) != 2 {
				return nil, fmt.Errorf("catalog: segment list %q: pair %v needs two indices: %w", s.Name, p, ErrInvalid)
			}
			list.Pairs = append(list.Pairs, Pair{p[0], p[1]})
		}
		c.lists = append(c.lists, list)
	}
	return c, nil
}

// LoadFile reads a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return Load(bytes.NewReader(data))
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog, parsed on first use.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(bytes.NewReader(defaultYAML))
		if err != nil {
			panic(err)
		}
		defaultCat = c
	})
	return defaultCat
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entry returns entry i and whether it exists.
func (c *Catalog) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(c.entries) {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Lists returns a copy of the segment lists.
func (c *Catalog) Lists() []SegmentList {
	out := make([]SegmentList, len(c.lists))
	for i, l := range c.lists {
		out[i] = SegmentList{Name: l.Name, Pairs: append([]Pair(nil), l.Pairs...)}
	}
	return out
}

// Anchor maps an entry into the unit square: u from right ascension, v from
// declination with north at the top.
func Anchor(e Entry) vec.Vec2 {
	ra := math.Mod(e.RA, 360)
	if ra < 0 {
		ra += 360
	}
	return vec.Vec2{X: ra / 360, Y: 1 - (e.Dec+90)/180}
}
