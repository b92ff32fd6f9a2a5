// Package excel reads the keyword candidate list from the imported
// spreadsheet. The dashboard shows the first few keywords of the first
// sheet's "Keyword" column.
package excel

import (
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNotFoundSentinel is returned as the sole list element when the
// spreadsheet file is missing. The dashboard checks for the "Error:"
// prefix to show its import help text instead of an empty list.
const ErrNotFoundSentinel = "Error: Excel_Not_Found"

const maxKeywords = 5

// ReadKeywords loads keywords from the first sheet of the xlsx at path.
// A missing file yields the sentinel marker; a parse failure yields an
// empty list. Neither is an error to the caller.
func ReadKeywords(path string) []string {
	if _, err := os.Stat(path); err != nil {
		log.Printf("❌ keyword spreadsheet not found: %s", path)
		return []string{ErrNotFoundSentinel}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Printf("❌ failed to open keyword spreadsheet: %v", err)
		return []string{}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) == 0 {
		log.Printf("❌ failed to read keyword sheet %q: %v", sheet, err)
		return []string{}
	}

	col := keywordColumn(rows[0])
	if col < 0 {
		return []string{}
	}

	var keywords []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		if kw := strings.TrimSpace(row[col]); kw != "" {
			keywords = append(keywords, kw)
		}
		if len(keywords) == maxKeywords {
			break
		}
	}
	if keywords == nil {
		keywords = []string{}
	}
	return keywords
}

func keywordColumn(header []string) int {
	for i, cell := range header {
		if strings.EqualFold(strings.TrimSpace(cell), "Keyword") {
			return i
		}
	}
	return -1
}
