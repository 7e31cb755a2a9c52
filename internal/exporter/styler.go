package exporter

import (
	"github.com/xuri/excelize/v2"

	"menu-audit/internal/model"
)

// Styler holds the styles of the summary workbook.
type Styler struct {
	File *excelize.File

	HeaderStyle   int
	DefaultStyle  int
	PassedStyle   int
	RejectedStyle int
	BlockedStyle  int
	FailedStyle   int
}

// NewStyler creates a new Styler and explicitly registers styles
func NewStyler(f *excelize.File) (*Styler, error) {
	s := &Styler{File: f}
	var err error

	// Header: bold, gray background, centered
	s.HeaderStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#000000"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	s.DefaultStyle, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	s.PassedStyle, err = statusStyle(f, "#2E7D32")
	if err != nil {
		return nil, err
	}
	s.RejectedStyle, err = statusStyle(f, "#D32F2F")
	if err != nil {
		return nil, err
	}
	s.BlockedStyle, err = statusStyle(f, "#757575")
	if err != nil {
		return nil, err
	}
	s.FailedStyle, err = statusStyle(f, "#E65100")
	if err != nil {
		return nil, err
	}

	return s, nil
}

func statusStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: color},
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    createBorder(),
	})
}

// ForStatus returns the style of a file row's status cell.
func (s *Styler) ForStatus(st model.Status) int {
	switch st {
	case model.StatusPassed:
		return s.PassedStyle
	case model.StatusRejected:
		return s.RejectedStyle
	case model.StatusBlocked:
		return s.BlockedStyle
	case model.StatusFailed:
		return s.FailedStyle
	default:
		return s.DefaultStyle
	}
}

func createBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "D4D4D4", Style: 1},
		{Type: "top", Color: "D4D4D4", Style: 1},
		{Type: "bottom", Color: "D4D4D4", Style: 1},
		{Type: "right", Color: "D4D4D4", Style: 1},
	}
}
