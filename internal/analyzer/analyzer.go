package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"

	"github.com/m2rads/e2e/pkg/types"
)

// Analyzer walks a source file's syntax tree and extracts its UI surface.
// Safe for sequential reuse across files; each call parses independently.
type Analyzer struct {
	logger *slog.Logger
}

// New creates an Analyzer. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// AnalyzeFile reads and analyzes one file. A file with zero matching
// UI-element nodes yields (nil, nil): dropped from the analysis set,
// not an error.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*types.ComponentAnalysis, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return a.AnalyzeSource(ctx, path, src)
}

// AnalyzeSource analyzes source content already in memory.
func (a *Analyzer) AnalyzeSource(ctx context.Context, path string, src []byte) (*types.ComponentAnalysis, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(languageFor(path))

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	fa := &fileAnalyzer{
		src:         src,
		schemaRules: parseSchemaRules(string(src)),
	}
	fa.collect(tree.RootNode())

	if len(fa.elements) == 0 {
		a.logger.Debug("no UI elements found", "file", path)
		return nil, nil
	}

	content := string(src)
	return &types.ComponentAnalysis{
		File:        path,
		Elements:    fa.elements,
		Forms:       fa.buildForms(),
		StateCount:  countStateDeclarations(content),
		ErrorStates: extractErrorStates(content),
		Dependencies: types.Dependencies{
			APIs:       extractAPIPaths(content),
			Components: extractComponentImports(content),
		},
	}, nil
}

func languageFor(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx":
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// fileAnalyzer accumulates per-file traversal state. The flat elements
// list records every matching node encountered, while each element's
// Children mirrors lexical nesting - the two views are not deduplicated.
type fileAnalyzer struct {
	src         []byte
	schemaRules map[string][]types.ValidationRule
	elements    []types.UIElement
	nodes       []*sitter.Node // parallel to elements, for form grouping
}

func (fa *fileAnalyzer) collect(node *sitter.Node) {
	if isElementNode(node) {
		fa.elements = append(fa.elements, fa.extractElement(node))
		fa.nodes = append(fa.nodes, node)
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		fa.collect(node.NamedChild(i))
	}
}

func isElementNode(node *sitter.Node) bool {
	t := node.Type()
	return t == "jsx_element" || t == "jsx_self_closing_element"
}

// openingElement returns the node carrying the tag name and attributes
func openingElement(node *sitter.Node) *sitter.Node {
	if node.Type() == "jsx_self_closing_element" {
		return node
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "jsx_opening_element" {
			return child
		}
	}
	return node
}

func (fa *fileAnalyzer) extractElement(node *sitter.Node) types.UIElement {
	opening := openingElement(node)
	rawName := fa.tagName(opening)
	attrs := fa.attributes(opening)

	el := types.UIElement{Tag: normalizeTag(rawName)}

	props := make(map[string]string)
	for _, attr := range attrs {
		switch attr.name {
		case "data-testid":
			el.Selectors.TestID = attr.value
		case "name":
			el.Selectors.Name = attr.value
		case "aria-label":
			el.Selectors.Label = attr.value
		case "role":
			el.Selectors.Role = attr.value
		case "type":
			el.Type = attr.value
		default:
			props[attr.name] = attr.value
		}
	}
	if len(props) > 0 {
		el.Selectors.Props = props
	}

	el.Validation = attributeRules(attrs)
	if el.Selectors.Name != "" {
		el.Validation = append(el.Validation, fa.schemaRules[el.Selectors.Name]...)
	}

	fa.detectEvents(&el, rawName, attrs)

	if node.Type() == "jsx_element" {
		el.Selectors.Text = fa.firstText(node)
		el.Children = fa.childElements(node)
	}

	return el
}

// tagName reads the element's name; member expressions like Form.Item
// come through whole.
func (fa *fileAnalyzer) tagName(opening *sitter.Node) string {
	if name := opening.ChildByFieldName("name"); name != nil {
		return name.Content(fa.src)
	}
	if opening.NamedChildCount() > 0 {
		return opening.NamedChild(0).Content(fa.src)
	}
	return ""
}

// normalizeTag wraps component references (uppercase first letter) as
// <Name /> and native tags as a lower-cased <tag>.
func normalizeTag(name string) string {
	if name == "" {
		return "<>"
	}
	first := []rune(name)[0]
	if unicode.IsUpper(first) {
		return "<" + name + " />"
	}
	return "<" + strings.ToLower(name) + ">"
}

type attribute struct {
	name  string
	value string
}

func (fa *fileAnalyzer) attributes(opening *sitter.Node) []attribute {
	var attrs []attribute
	for i := 0; i < int(opening.NamedChildCount()); i++ {
		child := opening.NamedChild(i)
		if child.Type() != "jsx_attribute" {
			continue
		}
		if child.NamedChildCount() == 0 {
			continue
		}
		attr := attribute{name: child.NamedChild(0).Content(fa.src)}
		if child.NamedChildCount() > 1 {
			attr.value = fa.attributeValue(child.NamedChild(1))
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

func (fa *fileAnalyzer) attributeValue(value *sitter.Node) string {
	raw := value.Content(fa.src)
	switch value.Type() {
	case "string":
		return strings.Trim(raw, `"'`)
	case "jsx_expression":
		return strings.TrimSpace(strings.Trim(raw, "{}"))
	default:
		return raw
	}
}

// detectEvents applies the three event rules in order: an on-prefixed
// attribute wins and supplies the lower-cased suffix; an href prop or an
// interaction-suggesting tag name falls back to the generic marker.
func (fa *fileAnalyzer) detectEvents(el *types.UIElement, rawName string, attrs []attribute) {
	for _, attr := range attrs {
		if len(attr.name) > 2 && strings.HasPrefix(attr.name, "on") {
			el.HasEvents = true
			el.EventType = strings.ToLower(attr.name[2:])
			return
		}
	}
	lower := strings.ToLower(rawName)
	for _, attr := range attrs {
		if attr.name == "href" {
			el.HasEvents = true
			el.EventType = "interaction"
			return
		}
	}
	if strings.Contains(lower, "button") || strings.Contains(lower, "link") || strings.Contains(lower, "menu") {
		el.HasEvents = true
		el.EventType = "interaction"
	}
}

// firstText returns the first text-bearing child's trimmed content
func (fa *fileAnalyzer) firstText(node *sitter.Node) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "jsx_text" {
			if text := strings.TrimSpace(child.Content(fa.src)); text != "" {
				return text
			}
		}
	}
	return ""
}

// childElements builds the nesting tree: directly nested elements are
// extracted recursively, looking through non-element wrappers such as
// jsx_expression so conditional children still attach to their parent.
func (fa *fileAnalyzer) childElements(node *sitter.Node) []types.UIElement {
	var children []types.UIElement
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch {
		case child.Type() == "jsx_opening_element" || child.Type() == "jsx_closing_element":
			continue
		case isElementNode(child):
			children = append(children, fa.extractElement(child))
		default:
			children = append(children, fa.nestedElements(child)...)
		}
	}
	return children
}

func (fa *fileAnalyzer) nestedElements(node *sitter.Node) []types.UIElement {
	var found []types.UIElement
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if isElementNode(child) {
			found = append(found, fa.extractElement(child))
			continue
		}
		found = append(found, fa.nestedElements(child)...)
	}
	return found
}

// attributeRules inspects an element's own attributes for inline
// validation constraints.
func attributeRules(attrs []attribute) []types.ValidationRule {
	var rules []types.ValidationRule
	for _, attr := range attrs {
		switch attr.name {
		case "required":
			rules = append(rules, types.ValidationRule{Type: "required"})
		case "min", "minLength", "minlength":
			rules = append(rules, types.ValidationRule{Type: "min", Value: numericOrString(attr.value)})
		case "max", "maxLength", "maxlength":
			rules = append(rules, types.ValidationRule{Type: "max", Value: numericOrString(attr.value)})
		case "pattern":
			rules = append(rules, types.ValidationRule{Type: "pattern", Value: attr.value})
		}
	}
	return rules
}

func numericOrString(value string) any {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return value
}
