// Package layout holds the fixed-width record layouts of the institutional
// reporting feed. A Layout is an ordered list of byte/character ranges keyed
// by a two-letter record-type code (e.g. "SB", "XF").
//
// Layouts are immutable once registered. A Registry is read-only after
// construction and safe for concurrent lookups.
package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-faster/errors"
)

// ErrUnknownLayout is returned by Lookup when no layout is registered for a
// record-type code.
var ErrUnknownLayout = errors.New("unknown layout")

// Mode selects how strictly a record type is decoded and loaded.
type Mode int

const (
	// Standard: a bad line aborts the file and rows missing required fields
	// are dropped before insert.
	Standard Mode = iota
	// Relaxed: bad lines and failing rows are logged and skipped, and
	// required-field validation is not applied.
	Relaxed
)

func (m Mode) String() string {
	switch m {
	case Relaxed:
		return "relaxed"
	default:
		return "standard"
	}
}

// ParseMode maps "standard"/"relaxed" (any case) to a Mode. Empty means
// Standard.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return Standard, nil
	case "relaxed":
		return Relaxed, nil
	}
	return Standard, errors.Errorf("layout: unknown mode %q", s)
}

// Field is one column of a fixed-width record: the half-open range
// [Start, End) of the line.
type Field struct {
	Name  string
	Start int
	End   int
	// Optional fields are never required, even in Standard mode.
	Optional bool
}

// IsFiller reports whether the field only pads the record.
func (f Field) IsFiller() bool {
	n := strings.ToUpper(f.Name)
	return n == "FILLER" || strings.HasSuffix(n, "_FILLER")
}

// Required reports whether a Standard-mode row must carry a value here.
func (f Field) Required() bool {
	return !f.Optional && !f.IsFiller()
}

// Layout is the fixed-width schema for one record type.
type Layout struct {
	Code   string
	Mode   Mode
	Fields []Field
}

// MaxWidth returns the largest End across all fields; every decoded line is
// padded or truncated to this width.
func (l Layout) MaxWidth() int {
	w := 0
	for _, f := range l.Fields {
		if f.End > w {
			w = f.End
		}
	}
	return w
}

// Columns returns the upper-cased field names in layout order.
func (l Layout) Columns() []string {
	out := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		out[i] = strings.ToUpper(f.Name)
	}
	return out
}

// RequiredColumns returns the upper-cased names of required fields.
func (l Layout) RequiredColumns() []string {
	var out []string
	for _, f := range l.Fields {
		if f.Required() {
			out = append(out, strings.ToUpper(f.Name))
		}
	}
	return out
}

// Validate checks that every field has a name and a non-empty,
// non-negative range.
func (l Layout) Validate() error {
	if !validCode(l.Code) {
		return errors.Errorf("layout %q: code must be two uppercase letters", l.Code)
	}
	if len(l.Fields) == 0 {
		return errors.Errorf("layout %s: no fields", l.Code)
	}
	seen := make(map[string]struct{}, len(l.Fields))
	for i, f := range l.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return errors.Errorf("layout %s: field %d has no name", l.Code, i)
		}
		if f.Start < 0 || f.End <= f.Start {
			return errors.Errorf("layout %s: field %s has invalid range [%d,%d)", l.Code, f.Name, f.Start, f.End)
		}
		key := strings.ToUpper(f.Name)
		if _, dup := seen[key]; dup {
			return errors.Errorf("layout %s: duplicate field %s", l.Code, f.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func validCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for i := 0; i < 2; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// Registry maps record-type codes to layouts.
type Registry struct {
	layouts map[string]Layout
	// pinned codes had their mode set explicitly by an override file.
	pinned map[string]bool
}

// NewRegistry builds a registry from the given layouts. Later entries with
// the same code replace earlier ones.
func NewRegistry(layouts ...Layout) (*Registry, error) {
	r := &Registry{layouts: make(map[string]Layout, len(layouts))}
	for _, l := range layouts {
		l.Code = strings.ToUpper(l.Code)
		if err := l.Validate(); err != nil {
			return nil, err
		}
		r.layouts[l.Code] = l
	}
	return r, nil
}

// Lookup returns the layout for code. Lookup is case-insensitive.
func (r *Registry) Lookup(code string) (Layout, error) {
	l, ok := r.layouts[strings.ToUpper(code)]
	if !ok {
		return Layout{}, errors.Wrap(ErrUnknownLayout, fmt.Sprintf("record type %q", code))
	}
	return l, nil
}

// Codes returns the registered codes in sorted order.
func (r *Registry) Codes() []string {
	out := make([]string, 0, len(r.layouts))
	for c := range r.layouts {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered layouts.
func (r *Registry) Len() int { return len(r.layouts) }

// WithModes returns a copy of r where the given codes run in Relaxed mode and
// every other code keeps its registered mode. Codes whose mode an override
// file pinned are left as they are (see Pinned). Unknown codes are reported.
func (r *Registry) WithModes(relaxed []string) (*Registry, error) {
	out := r.clone()
	for _, c := range relaxed {
		c = strings.ToUpper(strings.TrimSpace(c))
		l, ok := out.layouts[c]
		if !ok {
			return nil, errors.Wrap(ErrUnknownLayout, fmt.Sprintf("relaxed code %q", c))
		}
		if out.pinned[c] {
			continue
		}
		l.Mode = Relaxed
		out.layouts[c] = l
	}
	return out, nil
}

// Pinned reports whether an override file set the mode of code explicitly.
func (r *Registry) Pinned(code string) bool {
	return r.pinned[strings.ToUpper(strings.TrimSpace(code))]
}

func (r *Registry) clone() *Registry {
	out := &Registry{
		layouts: make(map[string]Layout, len(r.layouts)),
		pinned:  make(map[string]bool, len(r.pinned)),
	}
	for c, l := range r.layouts {
		out.layouts[c] = l
	}
	for c := range r.pinned {
		out.pinned[c] = true
	}
	return out
}
