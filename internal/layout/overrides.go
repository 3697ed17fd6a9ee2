package layout

import (
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

// overrideFile is the YAML shape of a layouts override file:
//
//	layouts:
//	  - code: SB
//	    mode: relaxed          # fields omitted: keep the registered fields
//	  - code: ZZ
//	    fields:
//	      - {name: GI90_RECORD_CODE, start: 0, end: 2}
//	      - {name: ZZ01_NOTE, start: 2, end: 40, optional: true}
type overrideFile struct {
	Layouts []overrideLayout `yaml:"layouts"`
}

type overrideLayout struct {
	Code   string          `yaml:"code"`
	Mode   string          `yaml:"mode"`
	Fields []overrideField `yaml:"fields"`
}

type overrideField struct {
	Name     string `yaml:"name"`
	Start    int    `yaml:"start"`
	End      int    `yaml:"end"`
	Optional bool   `yaml:"optional"`
}

// LoadOverrides reads a YAML override file and applies it on top of base.
func LoadOverrides(base *Registry, path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open layouts file")
	}
	defer f.Close()
	return ApplyOverrides(base, f)
}

// ApplyOverrides decodes YAML overrides from r and returns a new registry.
// An entry with fields replaces (or adds) the layout; an entry without fields
// only changes the mode of an already registered layout. An entry without a
// mode keeps the registered mode (Standard for new codes); an entry with one
// pins it, so later WithModes calls leave that code alone.
func ApplyOverrides(base *Registry, r io.Reader) (*Registry, error) {
	var of overrideFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&of); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode layouts yaml")
	}

	pinned := make(map[string]bool, len(base.pinned)+len(of.Layouts))
	for c := range base.pinned {
		pinned[c] = true
	}
	merged := make([]Layout, 0, base.Len()+len(of.Layouts))
	for _, c := range base.Codes() {
		l, _ := base.Lookup(c)
		merged = append(merged, l)
	}

	for i, ol := range of.Layouts {
		code := strings.ToUpper(strings.TrimSpace(ol.Code))
		mode, err := ParseMode(ol.Mode)
		if err != nil {
			return nil, errors.Wrapf(err, "layouts[%d]", i)
		}

		existing, lookupErr := base.Lookup(code)
		if ol.Mode != "" {
			pinned[code] = true
		} else if lookupErr == nil {
			mode = existing.Mode
		}

		if len(ol.Fields) == 0 {
			if lookupErr != nil {
				return nil, errors.Wrapf(lookupErr, "layouts[%d]: mode-only override", i)
			}
			existing.Mode = mode
			merged = append(merged, existing)
			continue
		}

		l := Layout{Code: code, Mode: mode, Fields: make([]Field, len(ol.Fields))}
		for j, f := range ol.Fields {
			l.Fields[j] = Field{Name: f.Name, Start: f.Start, End: f.End, Optional: f.Optional}
		}
		merged = append(merged, l)
	}

	out, err := NewRegistry(merged...)
	if err != nil {
		return nil, err
	}
	out.pinned = pinned
	return out, nil
}
