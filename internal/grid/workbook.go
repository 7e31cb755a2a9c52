// Package grid wraps a loaded spreadsheet as a 2-D addressable table of cell
// display values. Reads come from an in-memory snapshot taken at load time;
// Write is the only mutation path and goes through to the underlying file.
package grid

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidFile indicates the input is not a workbook that can be audited.
var ErrInvalidFile = errors.New("invalid workbook file")

// ErrOutOfRange indicates a read or write outside a sheet's shape.
var ErrOutOfRange = errors.New("cell out of range")

// Workbook is one loaded spreadsheet.
type Workbook struct {
	name   string
	file   *excelize.File
	sheets []string
	rows   map[string][][]string
	cols   map[string]int
}

// Open loads the workbook at path.
func Open(path string) (*Workbook, error) {
	if err := checkExtension(path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrInvalidFile, path, err)
	}
	return FromFile(filepath.Base(path), f)
}

// OpenReader loads a workbook from r. name is the original file name and is
// used for the extension check only.
func OpenReader(name string, r io.Reader) (*Workbook, error) {
	if err := checkExtension(name); err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", ErrInvalidFile, name, err)
	}
	return FromFile(name, f)
}

// FromFile snapshots an already opened excelize file. f is closed when the
// snapshot fails.
func FromFile(name string, f *excelize.File) (*Workbook, error) {
	wb := &Workbook{
		name: name,
		file: f,
		rows: make(map[string][][]string),
		cols: make(map[string]int),
	}

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("%w: read rows from sheet %q: %v", ErrInvalidFile, sheet, err)
		}
		width := 0
		for _, row := range rows {
			if len(row) > width {
				width = len(row)
			}
		}
		wb.sheets = append(wb.sheets, sheet)
		wb.rows[sheet] = rows
		wb.cols[sheet] = width
	}

	return wb, nil
}

func checkExtension(name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return nil
	default:
		return fmt.Errorf("%w: unsupported extension %q", ErrInvalidFile, filepath.Ext(name))
	}
}

// Name returns the file name the workbook was loaded from.
func (w *Workbook) Name() string {
	return w.name
}

// Sheets returns the sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	out := make([]string, len(w.sheets))
	copy(out, w.sheets)
	return out
}

// Rows returns the number of rows in sheet (0 for unknown sheets).
func (w *Workbook) Rows(sheet string) int {
	return len(w.rows[sheet])
}

// Cols returns the widest row's column count in sheet.
func (w *Workbook) Cols(sheet string) int {
	return w.cols[sheet]
}

// Read returns the display value at (row, col), both 0-based. Positions
// outside the sheet's shape return ErrOutOfRange.
func (w *Workbook) Read(sheet string, row, col int) (string, error) {
	rows, ok := w.rows[sheet]
	if !ok || row < 0 || col < 0 || row >= len(rows) || col >= w.cols[sheet] {
		return "", ErrOutOfRange
	}
	r := rows[row]
	if col >= len(r) {
		return "", nil
	}
	return r[col], nil
}

// Text is Read with ErrOutOfRange mapped to "no data here".
func (w *Workbook) Text(sheet string, row, col int) string {
	v, err := w.Read(sheet, row, col)
	if err != nil {
		return ""
	}
	return v
}

// Write applies styleID to the cell and, when text is non-empty, replaces its
// value. Re-applying the same text and style leaves the cell unchanged.
func (w *Workbook) Write(sheet string, row, col int, text string, styleID int) error {
	if _, ok := w.rows[sheet]; !ok || row < 0 || col < 0 {
		return ErrOutOfRange
	}
	cell, err := CellName(row, col)
	if err != nil {
		return err
	}

	if text != "" {
		if err := w.file.SetCellValue(sheet, cell, text); err != nil {
			return fmt.Errorf("set value %s!%s: %w", sheet, cell, err)
		}
		w.setSnapshot(sheet, row, col, text)
	}
	if err := w.file.SetCellStyle(sheet, cell, cell, styleID); err != nil {
		return fmt.Errorf("set style %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func (w *Workbook) setSnapshot(sheet string, row, col int, text string) {
	rows := w.rows[sheet]
	for len(rows) <= row {
		rows = append(rows, nil)
	}
	for len(rows[row]) <= col {
		rows[row] = append(rows[row], "")
	}
	rows[row][col] = text
	w.rows[sheet] = rows
	if col+1 > w.cols[sheet] {
		w.cols[sheet] = col + 1
	}
}

// StyleAt returns the style id currently applied to the cell.
func (w *Workbook) StyleAt(sheet string, row, col int) (int, error) {
	if _, ok := w.rows[sheet]; !ok {
		return 0, ErrOutOfRange
	}
	cell, err := CellName(row, col)
	if err != nil {
		return 0, err
	}
	return w.file.GetCellStyle(sheet, cell)
}

// File exposes the underlying excelize file for style registration.
func (w *Workbook) File() *excelize.File {
	return w.file
}

// Bytes serializes the workbook.
func (w *Workbook) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.file.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook %q: %w", w.name, err)
	}
	return buf.Bytes(), nil
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	return w.file.SaveAs(path)
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// CellName converts 0-based coordinates to A1 notation.
func CellName(row, col int) (string, error) {
	if row < 0 || col < 0 {
		return "", ErrOutOfRange
	}
	return excelize.CoordinatesToCellName(col+1, row+1)
}

// Ref formats a 0-based position as "A1" for reports, falling back to R/C
// notation when the position cannot be named.
func Ref(row, col int) string {
	name, err := CellName(row, col)
	if err != nil {
		return fmt.Sprintf("R%dC%d", row+1, col+1)
	}
	return name
}
