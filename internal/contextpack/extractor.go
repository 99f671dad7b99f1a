package contextpack

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"

	"github.com/m2rads/e2e/internal/discovery"
	"github.com/m2rads/e2e/pkg/types"
)

var (
	trailingSpace  = regexp.MustCompile(`(?m)[ \t]+$`)
	blankRun       = regexp.MustCompile(`\n{3,}`)
	fallbackExport = regexp.MustCompile(`(?m)^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function\s+|class\s+|const\s+|let\s+|var\s+|interface\s+|type\s+|enum\s+)?\*?\s*([A-Za-z_$][\w$]*)`)
)

// Extractor turns selected files into size-bounded CodeContexts
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger falls back to slog.Default().
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractAll reads each selected file and builds its context. A single
// file's read or parse failure is logged and that file skipped; the run
// continues. The returned list is sorted ascending by size so chunking
// packs small files together and isolates large outliers.
func (e *Extractor) ExtractAll(ctx context.Context, files []string) []types.CodeContext {
	contexts := make([]types.CodeContext, 0, len(files))
	for _, file := range files {
		cc, err := e.ExtractFile(ctx, file)
		if err != nil {
			e.logger.Warn("skipping file", "file", file, "error", err)
			continue
		}
		contexts = append(contexts, cc)
	}
	sort.SliceStable(contexts, func(i, j int) bool {
		return contexts[i].Size < contexts[j].Size
	})
	return contexts
}

// ExtractFile builds the context for one file.
func (e *Extractor) ExtractFile(ctx context.Context, file string) (types.CodeContext, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return types.CodeContext{}, fmt.Errorf("reading %s: %w", file, err)
	}

	exports := e.extractExports(ctx, file, src)
	content := Sanitize(string(src))
	isUI := discovery.IsUIIndicator(file)

	return types.CodeContext{
		File:          file,
		Summary:       summarize(file, exports, isUI, len(content)),
		ExportedItems: exports,
		Content:       content,
		Size:          len(content),
		IsUIComponent: isUI,
	}, nil
}

// extractExports parses the file strictly and walks export statements.
// When strict parsing fails it silently degrades to a line-scan regex -
// lower precision, never an error.
func (e *Extractor) extractExports(ctx context.Context, file string, src []byte) []string {
	parser := sitter.NewParser()
	if strings.ToLower(filepath.Ext(file)) == ".ts" || strings.ToLower(filepath.Ext(file)) == ".tsx" {
		parser.SetLanguage(tsx.GetLanguage())
	} else {
		parser.SetLanguage(javascript.GetLanguage())
	}

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil || tree.RootNode().HasError() {
		if tree != nil {
			tree.Close()
		}
		e.logger.Debug("strict parse failed, using export line scan", "file", file)
		return scanExports(string(src))
	}
	defer tree.Close()

	var exports []string
	collectExports(tree.RootNode(), src, &exports)
	return exports
}

func collectExports(node *sitter.Node, src []byte, exports *[]string) {
	if node.Type() == "export_statement" {
		*exports = append(*exports, exportNames(node, src)...)
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectExports(node.NamedChild(i), src, exports)
	}
}

func exportNames(stmt *sitter.Node, src []byte) []string {
	var names []string
	if decl := stmt.ChildByFieldName("declaration"); decl != nil {
		if name := decl.ChildByFieldName("name"); name != nil {
			names = append(names, name.Content(src))
		} else {
			for i := 0; i < int(decl.NamedChildCount()); i++ {
				child := decl.NamedChild(i)
				if child.Type() == "variable_declarator" {
					if name := child.ChildByFieldName("name"); name != nil {
						names = append(names, name.Content(src))
					}
				}
			}
		}
	}
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		if child.Type() != "export_clause" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			spec := child.NamedChild(j)
			if spec.Type() == "export_specifier" {
				if name := spec.ChildByFieldName("name"); name != nil {
					names = append(names, name.Content(src))
				}
			}
		}
	}
	if len(names) == 0 && strings.HasPrefix(stmt.Content(src), "export default") {
		names = append(names, "default")
	}
	return names
}

func scanExports(content string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range fallbackExport.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Sanitize strips block and line comments, trims trailing whitespace and
// collapses repeated blank lines. Content reduction only - it never
// rewrites code - and it is idempotent.
func Sanitize(content string) string {
	content = stripComments(content)
	content = trailingSpace.ReplaceAllString(content, "")
	content = blankRun.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// stripComments removes // and /* */ comments while tracking string
// state, so a // inside a quoted literal (URLs, protocol-relative
// paths) survives untouched. Newlines inside a removed block comment
// are kept so line structure is preserved for the blank-run pass.
func stripComments(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	var quote byte // active string delimiter, 0 outside literals
	inBlock, inLine, escaped := false, false, false

	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case inBlock:
			if c == '\n' {
				b.WriteByte(c)
			} else if c == '*' && i+1 < len(content) && content[i+1] == '/' {
				inBlock = false
				i++
			}
		case inLine:
			if c == '\n' {
				inLine = false
				b.WriteByte(c)
			}
		case quote != 0:
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
		default:
			if c == '"' || c == '\'' || c == '`' {
				quote = c
				b.WriteByte(c)
				continue
			}
			if c == '/' && i+1 < len(content) {
				if content[i+1] == '/' {
					inLine = true
					i++
					continue
				}
				if content[i+1] == '*' {
					inBlock = true
					i++
					continue
				}
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

func summarize(file string, exports []string, isUI bool, size int) string {
	kind := "module"
	if isUI {
		kind = "ui-component"
	}
	summary := fmt.Sprintf("%s [%s, %d chars]", filepath.Base(file), kind, size)
	if len(exports) > 0 {
		summary += " exports: " + strings.Join(exports, ", ")
	}
	return summary
}
