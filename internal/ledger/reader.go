// Package ledger reads raw expense exports and prepares them for
// classification: row selection, expense id assignment, and unique-vendor
// extraction.
package ledger

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/MelanieRosenberg/Town/internal/common"
)

// Row is one spreadsheet row keyed by configured column name.
type Row map[string]string

// ReadWorkbook reads the first sheet of an xlsx export, skips the header
// preamble, and labels each remaining row's cells with columnNames by
// position. Exports pad their first rows with report titles, which is what
// skipRows drops.
func ReadWorkbook(path string, columnNames []string, skipRows int) ([]Row, error) {
	if len(columnNames) == 0 {
		return nil, fmt.Errorf("%w: column_names must not be empty", common.ErrInvalidConfig)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("cannot open ledger file %s", path), err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.NewUserError(fmt.Sprintf("ledger file %s has no sheets", path), nil)
	}

	rawRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	if skipRows > len(rawRows) {
		skipRows = len(rawRows)
	}

	rows := make([]Row, 0, len(rawRows)-skipRows)
	for _, raw := range rawRows[skipRows:] {
		row := make(Row, len(columnNames))
		for i, name := range columnNames {
			if i < len(raw) {
				row[name] = raw[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
