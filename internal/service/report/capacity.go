package report

import (
	"strings"
	"unicode/utf8"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/report"
	"reportdesk/internal/schema"
)

// CheckCapacity estimates wrapped lines for text. Each newline-delimited
// segment counts ceil(runes/charsPerLine) lines, and at least one. Empty text
// is zero lines.
func CheckCapacity(text string, hasHeading bool, layout schema.Layout) models.CapacityReport {
	limit := layout.MaxLines
	if hasHeading {
		limit = layout.MaxLinesWithHeading
	}
	lines := estimateLines(text, layout.CharsPerLine)
	return models.CapacityReport{
		EstimatedLines:   lines,
		MaxLines:         limit,
		Overflow:         lines > limit,
		LinesOverOrUnder: lines - limit,
	}
}

func estimateLines(text string, charsPerLine int) int {
	if text == "" {
		return 0
	}
	total := 0
	for _, segment := range strings.Split(text, "\n") {
		n := utf8.RuneCountInString(segment)
		if n == 0 {
			n = 1
		}
		total += (n + charsPerLine - 1) / charsPerLine
	}
	return total
}

// CheckPages runs CheckCapacity over every page of a text section. The error
// is a *domain.CapacityExceededError for the first overflowing page.
func CheckPages(sec *schema.Section, pages []string, layout schema.Layout) ([]models.CapacityReport, error) {
	reports := make([]models.CapacityReport, len(pages))
	var firstErr error
	for i, text := range pages {
		r := CheckCapacity(text, i == 0 && sec.Subheading, layout)
		r.PageIndex = i
		reports[i] = r
		if r.Overflow && firstErr == nil {
			firstErr = &domain.CapacityExceededError{
				SectionID: sec.ID,
				PageIndex: i,
				Estimated: r.EstimatedLines,
				Max:       r.MaxLines,
			}
		}
	}
	return reports, firstErr
}
