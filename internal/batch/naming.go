package batch

import (
	"strings"

	"github.com/go-faster/errors"
)

// ErrProductionTable is returned by Naming.Table when the derived table name
// does not carry the load suffix.
var ErrProductionTable = errors.New("refusing to load into a production table")

// Naming is the positional file naming convention of the feed:
// <prefix><partition><...><code><ext>, e.g. U86240SP.dat holds term 240 of
// record type SP.
type Naming struct {
	// Extension marks eligible files, compared case-insensitively.
	Extension string
	// PartitionStart and PartitionEnd slice the partition key out of the
	// file name.
	PartitionStart int
	PartitionEnd   int
	// Tables are named <TablePrefix>_<CODE>_<TableSuffix>.
	TablePrefix string
	TableSuffix string
}

// DefaultNaming is the MIS convention: .dat files, partition [3:6], tables
// MIS_<CODE>_IN.
func DefaultNaming() Naming {
	return Naming{
		Extension:      ".dat",
		PartitionStart: 3,
		PartitionEnd:   6,
		TablePrefix:    "MIS",
		TableSuffix:    "IN",
	}
}

// FileName is a parsed feed file name.
type FileName struct {
	Name      string
	Partition string
	Code      string
}

// Eligible reports whether name carries the feed extension.
func (n Naming) Eligible(name string) bool {
	return len(name) > len(n.Extension) &&
		strings.EqualFold(name[len(name)-len(n.Extension):], n.Extension)
}

// Parse slices the partition key and the record-type code out of name.
func (n Naming) Parse(name string) (FileName, error) {
	if !n.Eligible(name) {
		return FileName{}, errors.Errorf("%s: not a %s file", name, n.Extension)
	}
	base := name[:len(name)-len(n.Extension)]
	if len(base) < n.PartitionEnd || len(base) < 2 || n.PartitionStart < 0 || n.PartitionEnd < n.PartitionStart {
		return FileName{}, errors.Errorf("%s: name too short for partition [%d:%d]", name, n.PartitionStart, n.PartitionEnd)
	}
	return FileName{
		Name:      name,
		Partition: base[n.PartitionStart:n.PartitionEnd],
		Code:      strings.ToUpper(base[len(base)-2:]),
	}, nil
}

// Table returns the load table for a record-type code.
func (n Naming) Table(code string) (string, error) {
	suffix := strings.ToUpper(strings.TrimSpace(n.TableSuffix))
	if suffix == "" {
		return "", errors.Wrapf(ErrProductionTable, "record type %s has no table suffix", code)
	}
	parts := []string{strings.ToUpper(code), suffix}
	if p := strings.ToUpper(strings.TrimSpace(n.TablePrefix)); p != "" {
		parts = append([]string{p}, parts...)
	}
	return strings.Join(parts, "_"), nil
}
