package secrets

import "time"

// Result contains the scrubbing result.
type Result struct {
	// Original is the original input content
	Original string `json:"-"`

	// Scrubbed is the content with secrets redacted
	Scrubbed string `json:"scrubbed"`

	// Findings contains the detected secrets (without actual values)
	Findings []Finding `json:"findings,omitempty"`

	// Duration is how long scrubbing took
	Duration time.Duration `json:"duration"`

	// TotalFindings is the count of secrets found
	TotalFindings int `json:"total_findings"`

	// ByRule maps rule IDs to finding counts
	ByRule map[string]int `json:"by_rule,omitempty"`
}

// Finding represents a detected secret. The matched text is deliberately
// not carried to avoid leaking the secret through the finding itself.
type Finding struct {
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	StartIndex  int    `json:"start_index"`
	EndIndex    int    `json:"end_index"`
	Line        int    `json:"line,omitempty"`
}

// HasFindings returns true if any secrets were found.
func (r *Result) HasFindings() bool {
	return r.TotalFindings > 0
}

// RuleIDs returns the unique rule IDs that matched.
func (r *Result) RuleIDs() []string {
	ids := make([]string, 0, len(r.ByRule))
	for id := range r.ByRule {
		ids = append(ids, id)
	}
	return ids
}
