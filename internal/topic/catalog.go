package topic

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Descriptor describes one selectable topic
type Descriptor struct {
	Shortcut    rune     // Single ASCII character used as the -<shortcut> flag
	Description string   // Shown in the generated help
	Topics      []string // Underlying stream names, e.g. /camera/image_raw
}

// Flag returns the flag name generated for this descriptor
func (d *Descriptor) Flag() string {
	return string(d.Shortcut)
}

// ConfigurationError reports a malformed catalog or grammar. It is raised
// while the catalog or grammar is built, never while parsing user input.
type ConfigurationError struct {
	Shortcut rune // Offending shortcut, zero if the problem is not shortcut related
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Shortcut != 0 {
		return fmt.Sprintf("configuration error: shortcut %q %s", e.Shortcut, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// Catalog is an ordered, immutable list of topic descriptors
type Catalog struct {
	descriptors []*Descriptor
	index       map[rune]int
}

// NewCatalog validates the descriptors and builds a catalog preserving
// their order. Shortcuts must be unique printable ASCII characters.
func NewCatalog(descriptors ...Descriptor) (*Catalog, error) {
	c := &Catalog{
		descriptors: make([]*Descriptor, 0, len(descriptors)),
		index:       make(map[rune]int, len(descriptors)),
	}

	for i := range descriptors {
		d := descriptors[i]
		if err := ValidateShortcut(d.Shortcut); err != nil {
			return nil, err
		}
		if prev, ok := c.index[d.Shortcut]; ok {
			return nil, &ConfigurationError{
				Shortcut: d.Shortcut,
				Reason:   fmt.Sprintf("is used by both %q and %q", c.descriptors[prev].Description, d.Description),
			}
		}

		d.Topics = append([]string(nil), d.Topics...)
		c.index[d.Shortcut] = len(c.descriptors)
		c.descriptors = append(c.descriptors, &d)
	}

	return c, nil
}

// ValidateShortcut checks that r can serve as a single-character flag
func ValidateShortcut(r rune) error {
	if r >= utf8.RuneSelf || r <= ' ' || r == 0x7f {
		return &ConfigurationError{Shortcut: r, Reason: "must be a printable ASCII character"}
	}
	if r == '-' || r == '=' {
		return &ConfigurationError{Shortcut: r, Reason: "cannot be used as a flag character"}
	}
	return nil
}

// ParseShortcut converts a configured shortcut string into a rune
func ParseShortcut(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, &ConfigurationError{Reason: fmt.Sprintf("shortcut %q must be exactly one character", s)}
	}
	r, _ := utf8.DecodeRuneInString(s)
	if err := ValidateShortcut(r); err != nil {
		return 0, err
	}
	return r, nil
}

// Len returns the number of descriptors
func (c *Catalog) Len() int {
	return len(c.descriptors)
}

// All returns every descriptor in catalog order
func (c *Catalog) All() []*Descriptor {
	return append([]*Descriptor(nil), c.descriptors...)
}

// Lookup finds the descriptor for a shortcut
func (c *Catalog) Lookup(shortcut rune) (*Descriptor, bool) {
	i, ok := c.index[shortcut]
	if !ok {
		return nil, false
	}
	return c.descriptors[i], true
}

// Index returns the catalog position of d, or -1 if d does not belong to
// this catalog.
func (c *Catalog) Index(d *Descriptor) int {
	if d == nil {
		return -1
	}
	i, ok := c.index[d.Shortcut]
	if !ok || c.descriptors[i] != d {
		return -1
	}
	return i
}

// Sort returns the catalog's own descriptors among ds, deduplicated and in
// catalog order. Descriptors from another catalog are dropped.
func (c *Catalog) Sort(ds []*Descriptor) []*Descriptor {
	seen := make(map[int]bool, len(ds))
	positions := make([]int, 0, len(ds))
	for _, d := range ds {
		i := c.Index(d)
		if i < 0 || seen[i] {
			continue
		}
		seen[i] = true
		positions = append(positions, i)
	}
	sort.Ints(positions)

	result := make([]*Descriptor, len(positions))
	for n, i := range positions {
		result[n] = c.descriptors[i]
	}
	return result
}
