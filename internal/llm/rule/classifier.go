package rule

import (
	"context"
	"sort"
	"strings"

	"docanalyzer-backend/internal/llm"
)

// Classifier is a keyword-scoring fallback used when no LLM provider is
// configured. Scores are crude but the shape of the result matches the LLM
// backend, so the pipeline does not care which one it talks to.
type Classifier struct{}

var labelOrder = []string{"contract", "invoice", "earnings_report"}

var keywordSets = map[string][]string{
	"contract":        {"agreement", "contract", "hereinafter", "party", "parties", "terms and conditions", "effective date", "termination"},
	"invoice":         {"invoice", "bill to", "amount due", "payment", "due date", "total", "line item", "remit"},
	"earnings_report": {"earnings", "revenue", "quarter", "fiscal", "net income", "ebitda", "year-over-year", "shareholders"},
}

func (Classifier) Classify(ctx context.Context, text string) (llm.ClassificationResult, error) {
	if err := ctx.Err(); err != nil {
		return llm.ClassificationResult{}, err
	}

	lower := strings.ToLower(text)
	var candidates []llm.Alternative
	for _, label := range labelOrder {
		keywords := keywordSets[label]
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		candidates = append(candidates, llm.Alternative{
			Type:       label,
			Confidence: float64(hits) / float64(len(keywords)),
		})
	}
	// Rank by score; equal scores keep the fixed label order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	if len(candidates) == 0 {
		return llm.ClassificationResult{Type: "unknown"}, nil
	}
	return llm.ClassificationResult{
		Type:          candidates[0].Type,
		Confidence:    candidates[0].Confidence,
		Justification: "keyword match",
		Alternatives:  candidates[1:],
	}, nil
}

var _ llm.Classifier = Classifier{}
