// Package labels suggests project labels for a merge request or issue from
// the conventional-commit type of its title.
package labels

import "strings"

// typeCandidates maps conventional commit types to candidate label names.
var typeCandidates = map[string][]string{
	"feat":     {"feature", "enhancement"},
	"fix":      {"bug", "bugfix", "fix"},
	"docs":     {"documentation", "docs"},
	"refactor": {"refactor", "refactoring", "tech-debt"},
	"test":     {"test", "testing", "tests"},
	"ci":       {"ci", "ci/cd", "infrastructure"},
	"style":    {"style", "formatting"},
	"perf":     {"performance", "perf", "optimization"},
	"build":    {"build", "dependencies"},
	"chore":    {"chore", "maintenance"},
	"revert":   {"revert"},
}

var breakingCandidates = []string{"breaking-change", "breaking"}

var draftPrefixes = []string{"draft:", "[draft]", "wip:", "[wip]"}

// Header is the parsed conventional-commit prefix of a title.
type Header struct {
	Type     string
	Scope    string
	Breaking bool
}

// ParseTitle parses "type(scope)!: subject". Draft markers in front of the
// header are ignored. ok is false when the title is not a conventional commit.
func ParseTitle(title string) (Header, bool) {
	title = stripDraft(strings.TrimSpace(title))

	colonIdx := strings.Index(title, ":")
	if colonIdx < 1 {
		return Header{}, false
	}
	prefix := strings.TrimSpace(title[:colonIdx])

	var h Header
	if strings.HasSuffix(prefix, "!") {
		h.Breaking = true
		prefix = strings.TrimSuffix(prefix, "!")
	}
	if open := strings.Index(prefix, "("); open > 0 {
		if !strings.HasSuffix(prefix, ")") {
			return Header{}, false
		}
		h.Scope = prefix[open+1 : len(prefix)-1]
		prefix = prefix[:open]
	}
	if prefix == "" {
		return Header{}, false
	}
	for _, c := range prefix {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return Header{}, false
		}
	}
	h.Type = prefix
	return h, true
}

func stripDraft(title string) string {
	lower := strings.ToLower(title)
	for _, p := range draftPrefixes {
		if strings.HasPrefix(lower, p) {
			return strings.TrimSpace(title[len(p):])
		}
	}
	return title
}

// Suggest returns the labels from available that match the title's commit
// type, keeping the project's spelling. Breaking changes also pick a
// breaking-change label when the project has one. Returns nil when nothing
// matches.
func Suggest(title string, available []string) []string {
	h, ok := ParseTitle(title)
	if !ok {
		return nil
	}

	candidates := typeCandidates[h.Type]
	if h.Breaking {
		candidates = append(append([]string(nil), candidates...), breakingCandidates...)
	}
	if len(candidates) == 0 {
		return nil
	}

	byLower := make(map[string]string, len(available))
	for _, label := range available {
		byLower[strings.ToLower(label)] = label
	}

	var matched []string
	for _, candidate := range candidates {
		if original, found := byLower[candidate]; found {
			matched = append(matched, original)
		}
	}
	return matched
}

// Merge appends suggested labels missing from explicit, case-insensitively.
func Merge(explicit, suggested []string) []string {
	seen := make(map[string]bool, len(explicit))
	out := make([]string, 0, len(explicit)+len(suggested))
	for _, l := range append(append([]string(nil), explicit...), suggested...) {
		key := strings.ToLower(l)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}
