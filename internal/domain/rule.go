package domain

import (
	"regexp"
	"strings"
)

// MatchType selects how a rule pattern is compared against a merchant name
type MatchType string

const (
	MatchContains MatchType = "contains"
	MatchPrefix   MatchType = "prefix"
	MatchRegex    MatchType = "regex"
)

// Rule auto-categorizes expenses whose merchant matches a pattern.
// Rules are evaluated server-side during sync; the client keeps a copy
// for instant preview when the user edits categories.
type Rule struct {
	ID         string
	Pattern    string
	Match      MatchType
	Category   string
	Confidence float64 // 0..1, fraction of past matches the user kept
}

// Matches reports whether the rule applies to the given merchant name.
// Comparison is case-insensitive. A pattern that fails to compile as a
// regex never matches.
func (r Rule) Matches(merchant string) bool {
	switch r.Match {
	case MatchPrefix:
		return strings.HasPrefix(strings.ToLower(merchant), strings.ToLower(r.Pattern))
	case MatchRegex:
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(merchant)
	default:
		return strings.Contains(strings.ToLower(merchant), strings.ToLower(r.Pattern))
	}
}

// FirstMatch returns the first rule in order that matches the merchant,
// or false when none does.
func FirstMatch(rules []Rule, merchant string) (Rule, bool) {
	for _, r := range rules {
		if r.Matches(merchant) {
			return r, true
		}
	}
	return Rule{}, false
}
