// Package compliance scores generated markdown against the formatting
// rules the refine stage asks the model to follow. The dashboard shows
// the result as a per-article checklist.
package compliance

import (
	"strings"
	"unicode/utf8"
)

// blufBudget is the rune budget for the lead summary paragraph.
const blufBudget = 80

// Check is one checklist entry.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Evaluate runs every checklist rule over the content.
func Evaluate(content string) []Check {
	lines := strings.Split(content, "\n")
	return []Check{
		checkBLUF(lines),
		checkHeadings(lines),
		checkComparisonTable(lines),
		checkBullets(lines),
		checkBoldTerms(content),
	}
}

// checkBLUF verifies the first body paragraph stays within the summary
// budget so the direct answer leads the article.
func checkBLUF(lines []string) Check {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if utf8.RuneCountInString(trimmed) <= blufBudget {
			return Check{Name: "bluf_summary", Passed: true}
		}
		return Check{Name: "bluf_summary", Passed: false, Detail: "lead paragraph exceeds the summary budget"}
	}
	return Check{Name: "bluf_summary", Passed: false, Detail: "no body paragraph found"}
}

func checkHeadings(lines []string) Check {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") || strings.HasPrefix(trimmed, "### ") {
			return Check{Name: "heading_structure", Passed: true}
		}
	}
	return Check{Name: "heading_structure", Passed: false, Detail: "no H2/H3 headings"}
}

// checkComparisonTable looks for a markdown table with at least three
// columns followed by its separator row.
func checkComparisonTable(lines []string) Check {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") || columnCount(trimmed) < 3 {
			continue
		}
		if i+1 < len(lines) && isSeparatorRow(strings.TrimSpace(lines[i+1])) {
			return Check{Name: "comparison_table", Passed: true}
		}
	}
	return Check{Name: "comparison_table", Passed: false, Detail: "no comparison table with 3+ columns"}
}

func checkBullets(lines []string) Check {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "- ") {
			return Check{Name: "bullet_points", Passed: true}
		}
	}
	return Check{Name: "bullet_points", Passed: false, Detail: "no bullet lists"}
}

func checkBoldTerms(content string) Check {
	if strings.Count(content, "**") >= 2 {
		return Check{Name: "bold_terms", Passed: true}
	}
	return Check{Name: "bold_terms", Passed: false, Detail: "no emphasized key terms"}
}

func columnCount(row string) int {
	cells := strings.Split(strings.Trim(row, "|"), "|")
	count := 0
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			count++
		}
	}
	return count
}

func isSeparatorRow(row string) bool {
	if !strings.HasPrefix(row, "|") {
		return false
	}
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '|', '-', ':', ' ':
			return -1
		}
		return r
	}, row)
	return stripped == "" && strings.Contains(row, "-")
}
