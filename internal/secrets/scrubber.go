package secrets

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Scrubber detects and redacts secrets from content.
type Scrubber interface {
	// Scrub redacts secrets from the content.
	Scrub(content string) *Result

	// ScrubBytes redacts secrets from byte content.
	ScrubBytes(content []byte) *Result

	// Check detects secrets without redacting.
	Check(content string) *Result

	// IsEnabled returns whether scrubbing is enabled.
	IsEnabled() bool
}

// scrubber is the default implementation using regexp patterns.
type scrubber struct {
	config *Config
	mu     sync.RWMutex
}

// redaction tracks a position to redact.
type redaction struct {
	start, end int
	ruleID     string
}

// New creates a Scrubber with the given configuration.
// If config is nil, DefaultConfig() is used.
func New(cfg *Config) (Scrubber, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &scrubber{
		config: cfg,
	}, nil
}

// MustNew creates a Scrubber, panicking on error. For use with the static
// default rule set, which is known to compile.
func MustNew(cfg *Config) Scrubber {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// NewNoop returns a scrubber that passes content through unchanged.
func NewNoop() Scrubber {
	return &noopScrubber{}
}

// Scrub redacts secrets from the content.
func (s *scrubber) Scrub(content string) *Result {
	start := time.Now()
	result := &Result{
		Original: content,
		Scrubbed: content,
		Findings: make([]Finding, 0),
		ByRule:   make(map[string]int),
	}

	if !s.config.Enabled {
		result.Duration = time.Since(start)
		return result
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	redactions := make([]redaction, 0)

	for _, rule := range s.config.compiledRules {
		// Keywords gate expensive patterns.
		if len(rule.keywords) > 0 {
			hasKeyword := false
			for _, kw := range rule.keywords {
				if kw.MatchString(content) {
					hasKeyword = true
					break
				}
			}
			if !hasKeyword {
				continue
			}
		}

		matches := rule.pattern.FindAllStringIndex(content, -1)
		for _, match := range matches {
			matchStr := content[match[0]:match[1]]

			if s.isAllowed(matchStr) {
				continue
			}

			line := strings.Count(content[:match[0]], "\n") + 1

			finding := Finding{
				RuleID:      rule.ID,
				Description: rule.Description,
				Severity:    rule.Severity,
				StartIndex:  match[0],
				EndIndex:    match[1],
				Line:        line,
			}

			result.Findings = append(result.Findings, finding)
			result.ByRule[rule.ID]++

			redactions = append(redactions, redaction{
				start:  match[0],
				end:    match[1],
				ruleID: rule.ID,
			})
		}
	}

	result.TotalFindings = len(result.Findings)

	// Merge overlapping matches, then replace back-to-front so earlier
	// indices stay valid.
	if len(redactions) > 0 {
		sort.Slice(redactions, func(i, j int) bool {
			return redactions[i].start < redactions[j].start
		})

		merged := mergeRedactions(redactions)

		sort.Slice(merged, func(i, j int) bool {
			return merged[i].start > merged[j].start
		})

		scrubbed := content
		for _, r := range merged {
			if r.start >= 0 && r.end <= len(scrubbed) && r.start < r.end {
				scrubbed = scrubbed[:r.start] + s.config.RedactionString + scrubbed[r.end:]
			}
		}
		result.Scrubbed = scrubbed
	}

	result.Duration = time.Since(start)
	return result
}

// ScrubBytes redacts secrets from byte content.
func (s *scrubber) ScrubBytes(content []byte) *Result {
	return s.Scrub(string(content))
}

// Check detects secrets without redacting.
func (s *scrubber) Check(content string) *Result {
	result := s.Scrub(content)
	result.Scrubbed = result.Original
	return result
}

// IsEnabled returns whether scrubbing is enabled.
func (s *scrubber) IsEnabled() bool {
	return s.config.Enabled
}

// isAllowed checks if the match is in the allow list.
func (s *scrubber) isAllowed(match string) bool {
	for _, pattern := range s.config.compiledAllowList {
		if pattern.MatchString(match) {
			return true
		}
	}
	return false
}

// mergeRedactions merges overlapping or adjacent redactions. Input must be
// sorted by start ascending.
func mergeRedactions(redactions []redaction) []redaction {
	if len(redactions) == 0 {
		return redactions
	}

	merged := []redaction{redactions[0]}

	for i := 1; i < len(redactions); i++ {
		last := &merged[len(merged)-1]
		curr := redactions[i]

		if curr.start <= last.end {
			if curr.end > last.end {
				last.end = curr.end
			}
		} else {
			merged = append(merged, curr)
		}
	}

	return merged
}

// noopScrubber passes content through unchanged (disabled mode and tests).
type noopScrubber struct{}

func (n *noopScrubber) Scrub(content string) *Result {
	return &Result{
		Original: content,
		Scrubbed: content,
		Findings: make([]Finding, 0),
		ByRule:   make(map[string]int),
	}
}

func (n *noopScrubber) ScrubBytes(content []byte) *Result {
	return n.Scrub(string(content))
}

func (n *noopScrubber) Check(content string) *Result {
	return n.Scrub(content)
}

func (n *noopScrubber) IsEnabled() bool {
	return false
}

var _ Scrubber = (*scrubber)(nil)
var _ Scrubber = (*noopScrubber)(nil)
