package report

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// ContentPolicy controls how user supplied section text is written into HTML.
type ContentPolicy string

const (
	// PolicyEscape HTML-escapes section titles and lines.
	PolicyEscape ContentPolicy = "escape"
	// PolicySanitize keeps safe inline markup and strips everything else.
	PolicySanitize ContentPolicy = "sanitize"
	// PolicyRaw writes section text verbatim. Submitted markup, including
	// scripts, reaches the rendered document unchanged.
	PolicyRaw ContentPolicy = "raw"
)

// DefaultContentPolicy is applied when no policy is configured.
const DefaultContentPolicy = PolicyEscape

var (
	sectionPolicyOnce sync.Once
	sectionPolicy     *bluemonday.Policy
)

// ParseContentPolicy resolves a configured policy name.
func ParseContentPolicy(value string) (ContentPolicy, error) {
	switch ContentPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return DefaultContentPolicy, nil
	case PolicyEscape:
		return PolicyEscape, nil
	case PolicySanitize:
		return PolicySanitize, nil
	case PolicyRaw:
		return PolicyRaw, nil
	default:
		return "", NewError(KindValidation, fmt.Sprintf("unknown content policy: %s", value), nil)
	}
}

// Apply renders text according to the policy.
func (p ContentPolicy) Apply(text string) string {
	switch p {
	case PolicyRaw:
		return text
	case PolicySanitize:
		return sectionSanitizer().Sanitize(text)
	default:
		return html.EscapeString(text)
	}
}

func sectionSanitizer() *bluemonday.Policy {
	sectionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "u", "s", "sub", "sup", "small", "mark", "code", "br", "span")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		sectionPolicy = policy
	})
	return sectionPolicy
}
