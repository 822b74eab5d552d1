// Package actions derives workflow action items from a document's
// classification. The catalog is static per document type; deadlines are
// computed relative to generation time.
package actions

import (
	"time"

	"github.com/google/uuid"

	"docanalyzer-backend/internal/doctype"
)

const StatusPending = "pending"

// Action is a single workflow item generated for an analyzed document.
type Action struct {
	ActionID    string `json:"action_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline"`
	Status      string `json:"status"`
}

type template struct {
	title       string
	description string
	priority    string
	deadlineIn  int // days from generation
}

var catalog = map[doctype.Type][]template{
	doctype.Contract: {
		{"Review Contract Terms", "Review all terms and conditions for accuracy and compliance", "high", 7},
		{"Legal Approval", "Obtain legal department approval for contract execution", "high", 14},
		{"Stakeholder Review", "Share contract with relevant stakeholders for input", "medium", 10},
		{"Contract Signing", "Coordinate contract signing with all parties", "high", 21},
	},
	doctype.Invoice: {
		{"Verify Invoice Details", "Verify invoice amounts, line items, and vendor information", "high", 3},
		{"Approve for Payment", "Route invoice through payment approval workflow", "high", 5},
		{"Process Payment", "Execute payment according to terms and due date", "medium", 7},
		{"File for Records", "Archive invoice for accounting and audit records", "low", 10},
	},
	doctype.EarningsReport: {
		{"Financial Review", "Conduct detailed review of reported financial metrics", "high", 5},
		{"Stakeholder Communication", "Prepare summary communication for stakeholders", "high", 7},
		{"Board Presentation", "Prepare presentation materials for board review", "medium", 14},
		{"Regulatory Filing", "Complete required regulatory filings based on report", "high", 10},
		{"Market Analysis", "Analyze results against market expectations and competitors", "medium", 12},
	},
	doctype.Unknown: {
		{"Document Review", "Manually review document to determine type and required actions", "medium", 7},
		{"Classification Review", "Review and correct automatic classification if needed", "low", 5},
	},
}

// ForType generates the action items for a document type. Unrecognized types
// fall back to the unknown catalog. Each call mints fresh action ids.
func ForType(t doctype.Type, now time.Time) []Action {
	templates, ok := catalog[t]
	if !ok {
		templates = catalog[doctype.Unknown]
	}
	actions := make([]Action, 0, len(templates))
	for _, tpl := range templates {
		actions = append(actions, Action{
			ActionID:    uuid.NewString(),
			Title:       tpl.title,
			Description: tpl.description,
			Priority:    tpl.priority,
			Deadline:    now.AddDate(0, 0, tpl.deadlineIn).Format("2006-01-02"),
			Status:      StatusPending,
		})
	}
	return actions
}
