package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"telecom-care/internal/customers"
	"telecom-care/internal/genai"
	"telecom-care/internal/prompt"
	"telecom-care/pkg/logger"
)

const (
	maxCategories   = 5
	generalCategory = "General"
)

type Service struct {
	gen genai.Generator
}

// NewService accepts a nil generator; TopIssues then always groups by tag.
func NewService(gen genai.Generator) *Service { return &Service{gen: gen} }

// TopIssues groups incidents into at most five categories, largest first.
func (s *Service) TopIssues(ctx context.Context, incidents []customers.Incident) IssueAnalysis {
	if len(incidents) == 0 {
		return IssueAnalysis{CategorizedIssues: []IssueCategory{}, Source: SourceTags}
	}
	if s.gen != nil {
		out, err := s.categorize(ctx, incidents)
		if err == nil {
			return IssueAnalysis{CategorizedIssues: out, Source: SourceGenerative}
		}
		logger.From(ctx).Warn("issue categorization fell back to tags", "incidents", len(incidents), "err", err)
	}
	return IssueAnalysis{CategorizedIssues: groupByTag(incidents), Source: SourceTags}
}

func (s *Service) categorize(ctx context.Context, incidents []customers.Incident) ([]IssueCategory, error) {
	raw, err := json.Marshal(incidents)
	if err != nil {
		return nil, err
	}
	out, err := s.gen.Generate(ctx, fmt.Sprintf(categorizePrompt, raw))
	if err != nil {
		return nil, err
	}
	var cats []IssueCategory
	if err := json.Unmarshal([]byte(prompt.StripFences(out)), &cats); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}
	if len(cats) == 0 {
		return nil, fmt.Errorf("parse categories: empty result")
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Count > cats[j].Count })
	if len(cats) > maxCategories {
		cats = cats[:maxCategories]
	}
	return cats, nil
}

// groupByTag uses the "[Category]" prefix; the most recent incident represents its group.
func groupByTag(incidents []customers.Incident) []IssueCategory {
	idx := map[string]int{}
	var out []IssueCategory
	latest := map[string]customers.Incident{}
	for _, inc := range incidents {
		cat := inc.Category()
		if cat == "" {
			cat = generalCategory
		}
		i, ok := idx[cat]
		if !ok {
			idx[cat] = len(out)
			out = append(out, IssueCategory{Category: cat})
			i = len(out) - 1
		}
		out[i].Count++
		if cur, seen := latest[cat]; !seen || inc.CreatedAt.After(cur.CreatedAt) {
			latest[cat] = inc
		}
	}
	for i := range out {
		rep := latest[out[i].Category]
		out[i].ID = rep.ID
		out[i].Status = string(rep.Status)
		out[i].Description = stripTag(rep.Description)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > maxCategories {
		out = out[:maxCategories]
	}
	return out
}

func stripTag(d string) string {
	d = strings.TrimSpace(d)
	if strings.HasPrefix(d, "[") {
		if end := strings.Index(d, "]"); end > 0 {
			return strings.TrimSpace(d[end+1:])
		}
	}
	return d
}

// OrderSummary counts orders by status and product.
func (s *Service) OrderSummary(orders []customers.Order) OrderSummary {
	out := OrderSummary{
		Total:          len(orders),
		ByStatus:       map[string]int{},
		ByProduct:      map[string]int{},
		ActiveProducts: []string{},
	}
	active := map[string]bool{}
	for _, o := range orders {
		out.ByStatus[string(o.Status)]++
		out.ByProduct[o.ProductName]++
		if o.Status == customers.OrderStatusActive && !active[o.ProductName] {
			active[o.ProductName] = true
			out.ActiveProducts = append(out.ActiveProducts, o.ProductName)
		}
	}
	sort.Strings(out.ActiveProducts)
	return out
}

const categorizePrompt = `You are an AI assistant for a telecom customer service platform. Analyze the following support incidents for a customer and categorize them based on similarity.

Customer incidents: %s

Instructions:
1. Group these incidents into up to 5 categories based on similarity of issue type
2. For each category:
   - Provide a concise category name (e.g., "Billing", "Network", "Hardware")
   - Count how many incidents fall into this category
   - Select the most representative/recent incident details for this category
3. Sort the categories by count in descending order (highest count first)

Return ONLY a valid JSON array with exactly this structure:
[
  {
    "category": "Category Name",
    "count": number_of_incidents,
    "description": "Representative issue description",
    "status": "Issue status",
    "id": "ID of the representative issue"
  }
]

Respond with the raw JSON array only. No markdown formatting or explanations.`
