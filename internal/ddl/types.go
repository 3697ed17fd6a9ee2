package ddl

import "strings"

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: column name, already quoted for the target dialect
//   - SQLType: target SQL type (e.g., VARCHAR2(4000), TEXT)
//   - Nullable: whether NULL is allowed
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef holds the rendered table name (schema-qualified and quoted by the
// caller) and an ordered list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// DefaultWidth is the width of any column a TypeRule does not name.
const DefaultWidth = 4000

// TypeRule assigns a string width to each column by name. Column names are
// matched case-insensitively; unnamed columns get Default (DefaultWidth when
// zero).
type TypeRule struct {
	Widths  map[string]int
	Default int
}

// Width returns the configured width for col.
func (r TypeRule) Width(col string) int {
	if w, ok := r.Widths[strings.ToUpper(col)]; ok && w > 0 {
		return w
	}
	if r.Default > 0 {
		return r.Default
	}
	return DefaultWidth
}

// MISTypes is the column typing of the fixed-width feed: the record code is
// two characters, district and term ids three, the student id ten.
var MISTypes = TypeRule{Widths: map[string]int{
	"GI90_RECORD_CODE":         2,
	"GI01_DISTRICT_COLLEGE_ID": 3,
	"GI03_TERM_ID":             3,
	"SB00_STUDENT_ID":          10,
}}

// SCFFTypes is the column typing of the pipe-delimited sibling feed.
var SCFFTypes = TypeRule{Widths: map[string]int{
	"STUDENT_ID": 9,
	"ACYR":       4,
}}

// Columns builds nullable column definitions for names using rule. quote
// renders an identifier for the target dialect and typeFor a SQL type for a
// width.
func Columns(names []string, rule TypeRule, quote func(string) string, typeFor func(int) string) []ColumnDef {
	out := make([]ColumnDef, 0, len(names))
	for _, n := range names {
		out = append(out, ColumnDef{
			Name:     quote(n),
			SQLType:  typeFor(rule.Width(n)),
			Nullable: true,
		})
	}
	return out
}
