package analyzer

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/m2rads/e2e/pkg/types"
)

var (
	apiPathInSubtree = regexp.MustCompile(`["'](/api/[^"'\s]*)["']`)
	anyQuotedPath    = regexp.MustCompile(`["'](/[^"'\s]*)["']`)
	methodOption     = regexp.MustCompile(`(?i)method\s*:\s*["'](GET|POST|PUT|PATCH|DELETE)["']`)
	axiosVerbCall    = regexp.MustCompile(`axios\.(get|post|put|patch|delete)\s*\(`)
)

// buildForms assembles every form on the file. Candidates are elements
// whose opening tag name contains "form" (case-insensitive), plus any
// onSubmit-bearing ancestor reached by walking up from an interactive
// descendant. Each candidate node yields at most one form.
func (fa *fileAnalyzer) buildForms() []types.Form {
	seen := make(map[uint32]bool)
	var forms []types.Form

	add := func(node *sitter.Node) {
		key := node.StartByte()
		if seen[key] {
			return
		}
		seen[key] = true
		forms = append(forms, fa.buildForm(node))
	}

	for i, node := range fa.nodes {
		rawName := fa.tagName(openingElement(node))
		if strings.Contains(strings.ToLower(rawName), "form") {
			add(node)
			continue
		}
		if isInteractiveTag(rawName) || fa.elements[i].HasEvents {
			if anc := fa.nearestFormAncestor(node); anc != nil {
				add(anc)
			}
		}
	}
	return forms
}

// nearestFormAncestor climbs from an interactive element to the closest
// form-like or onSubmit-bearing element node, or nil when none encloses it.
func (fa *fileAnalyzer) nearestFormAncestor(node *sitter.Node) *sitter.Node {
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		if !isElementNode(cur) {
			continue
		}
		opening := openingElement(cur)
		if strings.Contains(strings.ToLower(fa.tagName(opening)), "form") {
			return cur
		}
		if fa.hasAttribute(opening, "onSubmit") {
			return cur
		}
	}
	return nil
}

func (fa *fileAnalyzer) hasAttribute(opening *sitter.Node, name string) bool {
	for _, attr := range fa.attributes(opening) {
		if attr.name == name {
			return true
		}
	}
	return false
}

func (fa *fileAnalyzer) buildForm(node *sitter.Node) types.Form {
	opening := openingElement(node)

	action := types.FormAction{Handler: "submit"}
	for _, attr := range fa.attributes(opening) {
		if attr.name == "onSubmit" && attr.value != "" {
			action.Handler = attr.value
			break
		}
	}

	// Endpoint and method only surface when a network-call marker is
	// present; the extraction itself is plain regex. Submit handlers are
	// usually declared outside the form's markup, so when the form
	// subtree itself has no marker the whole file is scanned instead.
	subtree := node.Content(fa.src)
	if !hasNetworkMarker(subtree) {
		subtree = string(fa.src)
	}
	if hasNetworkMarker(subtree) {
		action.Endpoint, action.Method = extractEndpoint(subtree)
	}

	return types.Form{Action: action, Fields: fa.interactiveDescendants(node)}
}

func hasNetworkMarker(text string) bool {
	return strings.Contains(text, "fetch(") || strings.Contains(text, "axios.") || strings.Contains(text, "/api/")
}

func extractEndpoint(subtree string) (endpoint, method string) {
	if m := apiPathInSubtree.FindStringSubmatch(subtree); m != nil {
		endpoint = m[1]
	} else if m := anyQuotedPath.FindStringSubmatch(subtree); m != nil {
		endpoint = m[1]
	}
	if m := methodOption.FindStringSubmatch(subtree); m != nil {
		method = strings.ToUpper(m[1])
	} else if m := axiosVerbCall.FindStringSubmatch(subtree); m != nil {
		method = strings.ToUpper(m[1])
	}
	return endpoint, method
}

// interactiveDescendants collects input-like elements anywhere below the
// form node, excluding the form element itself.
func (fa *fileAnalyzer) interactiveDescendants(form *sitter.Node) []types.UIElement {
	var fields []types.UIElement
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node != form && isElementNode(node) {
			if isInteractiveTag(fa.tagName(openingElement(node))) {
				fields = append(fields, fa.extractElement(node))
			}
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			walk(node.NamedChild(i))
		}
	}
	walk(form)
	return fields
}

func isInteractiveTag(rawName string) bool {
	lower := strings.ToLower(rawName)
	for _, tag := range []string{"input", "select", "textarea", "button"} {
		if strings.Contains(lower, tag) {
			return true
		}
	}
	return false
}
