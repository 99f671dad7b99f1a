package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/m2rads/e2e/pkg/types"
)

// The passes in this file are literal substring and regex matches over
// raw text; no semantic resolution happens, and the matched text is taken
// as-is even when approximate.

var (
	schemaField   = regexp.MustCompile(`(?m)^\s*(\w+)\s*:\s*((?:z|yup|Yup)\.[^\n]*)`)
	schemaCall    = regexp.MustCompile(`\.(\w+)\(([^()]*)\)`)
	quotedMessage = regexp.MustCompile(`["']([^"']+)["']`)

	typedErrorState = regexp.MustCompile(`useState<([^>]+)>`)
	apiPathLiteral  = regexp.MustCompile(`/api/[A-Za-z0-9_\-/]*[A-Za-z0-9_\-]`)
	importSpecifier = regexp.MustCompile(`import\s+(?:[\w*{}\s,]+\s+from\s+)?['"]([^'"]+)['"]`)
)

// Import specifiers starting with these are framework plumbing, not
// component libraries.
var frameworkPrefixes = []string{"react", "vue", "svelte", "next", "angular", "nuxt"}

// parseSchemaRules scans for fields declared through the two recognized
// validation-schema dialects (zod chains and yup chains) and converts
// each chain's calls into ordered validation rules, keyed by field name.
func parseSchemaRules(src string) map[string][]types.ValidationRule {
	if !strings.Contains(src, "z.") && !strings.Contains(src, "yup.") && !strings.Contains(src, "Yup.") {
		return nil
	}

	rules := make(map[string][]types.ValidationRule)
	for _, m := range schemaField.FindAllStringSubmatch(src, -1) {
		field, chain := m[1], m[2]
		parsed := parseChain(chain)
		if len(parsed) > 0 {
			rules[field] = parsed
		}
	}
	if len(rules) == 0 {
		return nil
	}
	return rules
}

func parseChain(chain string) []types.ValidationRule {
	var rules []types.ValidationRule
	for _, call := range schemaCall.FindAllStringSubmatch(chain, -1) {
		name, args := call[1], call[2]
		rule := types.ValidationRule{Message: chainMessage(name, args)}
		switch name {
		case "required", "nonempty":
			rule.Type = "required"
		case "min":
			rule.Type = "min"
			rule.Value = firstNumber(args)
		case "max":
			rule.Type = "max"
			rule.Value = firstNumber(args)
		case "matches", "regex":
			rule.Type = "pattern"
			rule.Value = strings.TrimSpace(strings.SplitN(args, ",", 2)[0])
		case "email", "url":
			rule.Type = "pattern"
			rule.Value = name
		case "refine", "test":
			rule.Type = "custom"
		default:
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

// chainMessage pulls the trailing quoted message argument, when present.
// min/max carry their numeric value first, so only a second quoted string
// counts there.
func chainMessage(name, args string) string {
	matches := quotedMessage.FindAllStringSubmatch(args, -1)
	if len(matches) == 0 {
		return ""
	}
	last := matches[len(matches)-1][1]
	if (name == "matches" || name == "regex") && len(matches) < 2 {
		return ""
	}
	return last
}

func firstNumber(args string) any {
	head := strings.TrimSpace(strings.SplitN(args, ",", 2)[0])
	if n, err := strconv.Atoi(head); err == nil {
		return n
	}
	return head
}

// countStateDeclarations is a literal substring count of state-declaration
// calls; no semantic resolution is attempted.
func countStateDeclarations(src string) int {
	return strings.Count(src, "useState(") + strings.Count(src, "useState<")
}

// extractErrorStates returns the declared type-parameter text of state
// declarations that mention error handling.
func extractErrorStates(src string) []string {
	var states []string
	for _, line := range strings.Split(src, "\n") {
		if !strings.Contains(line, "useState") {
			continue
		}
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "error") && !strings.Contains(lower, "failed") {
			continue
		}
		if m := typedErrorState.FindStringSubmatch(line); m != nil {
			states = append(states, strings.TrimSpace(m[1]))
		}
	}
	return states
}

// extractAPIPaths collects literal /api/... substrings anywhere in the file
func extractAPIPaths(src string) []string {
	var paths []string
	seen := make(map[string]bool)
	for _, p := range apiPathLiteral.FindAllString(src, -1) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	return paths
}

// extractComponentImports returns external component libraries: import
// specifiers that are neither relative nor scoped/framework-prefixed.
func extractComponentImports(src string) []string {
	var components []string
	seen := make(map[string]bool)
	for _, m := range importSpecifier.FindAllStringSubmatch(src, -1) {
		spec := m[1]
		if strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") || strings.HasPrefix(spec, "@") {
			continue
		}
		if hasFrameworkPrefix(spec) || seen[spec] {
			continue
		}
		seen[spec] = true
		components = append(components, spec)
	}
	return components
}

func hasFrameworkPrefix(spec string) bool {
	head := strings.SplitN(spec, "/", 2)[0]
	for _, prefix := range frameworkPrefixes {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}
