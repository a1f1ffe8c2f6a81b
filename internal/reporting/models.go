package reporting

// IssueCategory is one group of similar incidents.
type IssueCategory struct {
	Category    string `json:"category"`
	Count       int    `json:"count"`
	Description string `json:"description"`
	Status      string `json:"status"`
	// ID is the representative incident.
	ID string `json:"id"`
}

type Source string

const (
	SourceGenerative Source = "generative"
	SourceTags       Source = "tags"
)

type IssueAnalysis struct {
	CategorizedIssues []IssueCategory `json:"categorizedIssues"`
	Source            Source          `json:"source"`
}

type OrderSummary struct {
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"byStatus"`
	ByProduct map[string]int `json:"byProduct"`
	// ActiveProducts lists products with at least one Active order, sorted.
	ActiveProducts []string `json:"activeProducts"`
}
