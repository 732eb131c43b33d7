package report

// Page identifies one fixed-size page of the report.
type Page struct {
	SectionID   string      `json:"section_id"`
	Index       int         `json:"page_index"` // position within the section
	Title       string      `json:"title"`
	ParentTitle string      `json:"parent_title,omitempty"`
	Kind        ContentKind `json:"kind"`
	Heading     bool        `json:"heading"`
	Number      int         `json:"number,omitempty"` // printed page number, 0 when unnumbered
}

// TOCEntry is one row of the contents pages.
type TOCEntry struct {
	SectionID string `json:"section_id"`
	Title     string `json:"title"`
	Page      int    `json:"page"`
	Level     int    `json:"level"`
}

// Progress is the aggregate review state of a project.
type Progress struct {
	Percent  int    `json:"percent"`
	Label    string `json:"label"`
	Approved int    `json:"approved"`
	Pending  int    `json:"pending"`
	Rejected int    `json:"rejected"`
	Draft    int    `json:"draft"`
	Total    int    `json:"total"`
}

// StatusBreakdown lists section titles per status for dashboards.
type StatusBreakdown struct {
	Draft    []string `json:"draft"`
	Pending  []string `json:"pending"`
	Approved []string `json:"approved"`
	Rejected []string `json:"rejected"`
}

// CapacityReport is the line estimate for one text page.
type CapacityReport struct {
	PageIndex        int  `json:"page_index"`
	EstimatedLines   int  `json:"estimated_lines"`
	MaxLines         int  `json:"max_lines"`
	Overflow         bool `json:"overflow"`
	LinesOverOrUnder int  `json:"lines_over_or_under"` // positive when over budget
}
