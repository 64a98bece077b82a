// Package refdata loads geo units, feature records and farmer rosters from
// CSV, XLSX or YAML reference files.
package refdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/abeleng/shemeta/internal/domain"
)

// Table is a header-indexed set of string rows. Headers are matched loosely:
// case, spaces, dashes, underscores and a leading BOM are ignored.
type Table struct {
	Source string
	Rows   [][]string
	header map[string]int
}

// ReadTable reads path according to its extension.
func ReadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	case ".yaml", ".yml":
		return readYAML(path)
	}
	return nil, fmt.Errorf("%w: %s: %s", domain.ErrValidation, ErrMsgUnsupportedFormat, path)
}

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgOpenFile, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgBadRow, path, err)
	}
	return newTable(path, records)
}

// readXLSX reads the first sheet of the workbook.
func readXLSX(path string) (*Table, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgOpenFile, err)
	}
	defer x.Close()

	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrValidation, ErrMsgNoSheet, path)
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgBadRow, path, err)
	}
	return newTable(path, rows)
}

// readYAML reads a top-level list of mappings. Keys become columns in sorted order.
func readYAML(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgOpenFile, err)
	}
	var docs []map[string]interface{}
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrValidation, path, err)
	}

	keySet := make(map[string]bool)
	for _, d := range docs {
		for k := range d {
			keySet[k] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([][]string, 0, len(docs)+1)
	records = append(records, keys)
	for _, d := range docs {
		row := make([]string, len(keys))
		for i, k := range keys {
			row[i] = scalar(d[k])
		}
		records = append(records, row)
	}
	return newTable(path, records)
}

// scalar flattens a YAML value into the same text a spreadsheet cell would hold.
// Lists join with ";", mappings become "k:v" pairs.
func scalar(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case []interface{}:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = scalar(e)
		}
		return strings.Join(parts, PointSeparator)
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + YieldPairSep + scalar(t[k])
		}
		return strings.Join(parts, YieldSeparator)
	default:
		return fmt.Sprint(t)
	}
}

func newTable(source string, records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrValidation, ErrMsgReadHeader, source)
	}
	t := &Table{Source: source, header: make(map[string]int, len(records[0]))}
	for i, h := range records[0] {
		t.header[normalize(h)] = i
	}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// find returns the index of the first alias present, or -1
func (t *Table) find(aliases ...string) int {
	for _, a := range aliases {
		if idx, ok := t.header[normalize(a)]; ok {
			return idx
		}
	}
	return -1
}

// columns resolves every named column. Names listed in required must be present.
func (t *Table) columns(aliases map[string][]string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(aliases))
	for name, as := range aliases {
		idx[name] = t.find(append([]string{name}, as...)...)
	}
	var missing []string
	for _, name := range required {
		if idx[name] < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s %s: %s", domain.ErrValidation, ErrMsgMissingColumns, t.Source, strings.Join(missing, ", "))
	}
	return idx, nil
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// rowError locates a bad value by its 1-based data row.
func (t *Table) rowError(i int, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s %s row %d: %s", domain.ErrValidation, ErrMsgBadRow, t.Source, i+1, fmt.Sprintf(format, args...))
}
