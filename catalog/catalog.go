// Package catalog gives human-readable names to tag identifiers. Names come
// from the standard tag set, from enum declarations in .proto files or from
// YAML files.
package catalog

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/anirudhraja/iltags/tags/standard"
)

// Catalog maps tag identifiers to names and back. The zero value is not
// usable; create one with New or Standard.
type Catalog struct {
	// ImportDirs lists the directories searched for .proto imports, after
	// the directory of the importing file.
	ImportDirs []string

	names map[uint64]string // id -> name
	ids   map[string]uint64 // name -> id
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		names: make(map[uint64]string),
		ids:   make(map[string]uint64),
	}
}

var standardNames = map[uint64]string{
	standard.NullTagID:        "null",
	standard.BoolTagID:        "bool",
	standard.Int8TagID:        "int8",
	standard.Uint8TagID:       "uint8",
	standard.Int16TagID:       "int16",
	standard.Uint16TagID:      "uint16",
	standard.Int32TagID:       "int32",
	standard.Uint32TagID:      "uint32",
	standard.Int64TagID:       "int64",
	standard.Uint64TagID:      "uint64",
	standard.ILIntTagID:       "ilint",
	standard.Binary32TagID:    "binary32",
	standard.Binary64TagID:    "binary64",
	standard.Binary128TagID:   "binary128",
	standard.SignedILIntTagID: "signed_ilint",
	standard.BytesTagID:       "bytes",
	standard.StringTagID:      "string",
	standard.BigIntTagID:      "bigint",
	standard.BigDecTagID:      "bigdec",
	standard.ILIntArrayTagID:  "ilint_array",
	standard.TagArrayTagID:    "tag_array",
	standard.TagSeqTagID:      "tag_seq",
	standard.RangeTagID:       "range",
	standard.VersionTagID:     "version",
	standard.OIDTagID:         "oid",
	standard.DictTagID:        "dict",
	standard.StringDictTagID:  "string_dict",
}

// Standard returns a catalog naming the standard tags.
func Standard() *Catalog {
	c := New()
	for id, name := range standardNames {
		c.names[id] = name
		c.ids[name] = id
	}
	return c
}

// Add names id. Giving an id a second, different name or reusing a name
// for another id is an error; repeating an existing pair is not.
func (c *Catalog) Add(id uint64, name string) error {
	if name == "" {
		return fmt.Errorf("empty name for tag %d", id)
	}
	if old, ok := c.names[id]; ok && old != name {
		return fmt.Errorf("tag %d already named %q, cannot rename to %q", id, old, name)
	}
	if old, ok := c.ids[name]; ok && old != id {
		return fmt.Errorf("name %q already used by tag %d", name, old)
	}
	c.names[id] = name
	c.ids[name] = id
	return nil
}

// Merge adds every pair of other to c and stops at the first conflict.
func (c *Catalog) Merge(other *Catalog) error {
	for _, id := range other.IDs() {
		if err := c.Add(id, other.names[id]); err != nil {
			return err
		}
	}
	return nil
}

// Name returns the name of id.
func (c *Catalog) Name(id uint64) (string, bool) {
	name, ok := c.names[id]
	return name, ok
}

// Lookup returns the id named name.
func (c *Catalog) Lookup(name string) (uint64, bool) {
	id, ok := c.ids[name]
	return id, ok
}

// Label returns the name of id, or "tag<id>" for unnamed ids.
func (c *Catalog) Label(id uint64) string {
	if name, ok := c.names[id]; ok {
		return name
	}
	return "tag" + strconv.FormatUint(id, 10)
}

// Resolve accepts a name or a decimal/hex identifier.
func (c *Catalog) Resolve(s string) (uint64, error) {
	if id, ok := c.ids[s]; ok {
		return id, nil
	}
	id, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("unknown tag name %q", s)
	}
	return id, nil
}

// IDs returns the named ids in ascending order.
func (c *Catalog) IDs() []uint64 {
	return slices.Sorted(maps.Keys(c.names))
}

// Len returns the number of named ids.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Load returns the standard catalog extended with the names in path, which
// may be a .proto file, a directory of .proto files or a YAML file.
func Load(path string) (*Catalog, error) {
	c := Standard()
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = c.LoadYAML(path)
	default:
		err = c.LoadProto(path)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
