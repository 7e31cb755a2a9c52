package main

import (
	"fmt"
	"log"
	"os"

	"github.com/xuri/excelize/v2"
)

// Checks an annotated copy: every highlighted cell must still show text,
// either the original value or the category marker.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: go run scripts/verify_annotated.go <annotated.xlsx>")
	}
	filename := os.Args[1]

	f, err := excelize.OpenFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	fmt.Printf("=== ZERO TOLERANCE CHECK: %s ===\n", filename)

	emptyCount := 0
	highlighted := 0
	fills := make(map[int]bool)

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			log.Fatal(err)
		}
		// GetRows trims trailing blanks, so scan one extra column per row.
		for r, row := range rows {
			for c := 0; c <= len(row); c++ {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
				id, err := f.GetCellStyle(sheet, cell)
				if err != nil || id == 0 {
					continue
				}
				solid, seen := fills[id]
				if !seen {
					style, err := f.GetStyle(id)
					solid = err == nil && style.Fill.Type == "pattern" && style.Fill.Pattern == 1
					fills[id] = solid
				}
				if !solid {
					continue
				}

				highlighted++
				value := ""
				if c < len(row) {
					value = row[c]
				}
				if value == "" {
					fmt.Printf("❌ EMPTY HIGHLIGHT at %s!%s\n", sheet, cell)
					emptyCount++
				}
			}
		}
	}

	fmt.Printf("\nChecked %d highlighted cells\n", highlighted)

	if emptyCount > 0 {
		fmt.Printf("❌ FAILED: Found %d highlighted cells without text!\n", emptyCount)
		os.Exit(1)
	}
	fmt.Printf("✅ PASSED: Every highlighted cell carries text!\n")
}
