package render

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Belphemur/ShowFinder/internal/config"
)

// SummaryFilter turns an upstream show summary into markup that is safe to
// insert into the page.
type SummaryFilter func(summary string) string

// NewSummaryFilter returns the filter for a config summary policy.
// An empty policy selects sanitize.
func NewSummaryFilter(policy string) (SummaryFilter, error) {
	switch policy {
	case "", config.SummaryPolicySanitize:
		p := bluemonday.NewPolicy()
		p.AllowElements("p", "b", "strong", "i", "em", "u", "br", "ul", "ol", "li")
		return p.Sanitize, nil
	case config.SummaryPolicyText:
		return bluemonday.StrictPolicy().Sanitize, nil
	case config.SummaryPolicyRaw:
		return func(summary string) string { return summary }, nil
	default:
		return nil, fmt.Errorf("unknown summary policy %q", policy)
	}
}
