package prompt

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/m2rads/e2e/pkg/types"
)

// How many full file bodies ride along with each chunk
const (
	maxUIBodies      = 5
	fallbackBodies   = 3
	filenameMarker   = "// File: "
	artifactTemplate = "// [Filename: <relative-path>]"
)

// SystemPrompt renders the fixed per-run system message: a stack summary
// from the file-extension histogram plus the authoring guidelines the
// generation service must follow. Deterministic for a given context set.
func SystemPrompt(contexts []types.CodeContext, fw types.FrameworkInfo) string {
	var b strings.Builder
	b.WriteString("You are an expert end-to-end test engineer. You write Playwright tests ")
	b.WriteString("for web applications based on analyzed source code.\n\n")

	b.WriteString("Project stack:\n")
	for _, line := range extensionHistogram(contexts) {
		b.WriteString("  " + line + "\n")
	}
	if fw.Type != "" && fw.Type != types.FrameworkUnknown {
		fmt.Fprintf(&b, "  framework dialect: %s (%s components)\n", fw.Type, fw.ComponentStyle)
	}

	b.WriteString(`
Authoring guidelines:
- Prefer data-testid selectors, then aria labels and roles, then visible text.
- One test file per page or component under test.
- Cover form submission paths including validation failures.
- Keep tests independent; no shared state between test files.
- Assert on user-visible outcomes, not implementation details.

Output format (MANDATORY):
Return each test file as a fenced code block whose first line is a
filename marker comment:

` + "```\n" + artifactTemplate + "\n<file content>\n```" + `

Blocks without a filename marker are discarded.
`)
	return b.String()
}

// UserPrompt renders one chunk's request message: position in the run,
// a summary line per context, then full sanitized bodies for the
// priority subset.
func UserPrompt(chunk types.Chunk, index, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Context chunk %d of %d.\n\nFiles in this chunk:\n", index, total)
	for _, cc := range chunk.Contexts {
		b.WriteString("- " + cc.Summary + "\n")
	}

	b.WriteString("\nFull source for the most relevant files:\n")
	for _, cc := range selectBodies(chunk.Contexts) {
		b.WriteString("\n" + filenameMarker + cc.File + "\n")
		b.WriteString(cc.Content + "\n")
	}

	b.WriteString("\nGenerate end-to-end tests for the UI surface above. ")
	b.WriteString("Use the filename marker format from the system instructions.\n")
	return b.String()
}

// selectBodies picks which contexts travel in full: UI-indicator files
// first, up to five; when the chunk has none, the first three files.
func selectBodies(contexts []types.CodeContext) []types.CodeContext {
	var ui []types.CodeContext
	for _, cc := range contexts {
		if cc.IsUIComponent {
			ui = append(ui, cc)
			if len(ui) == maxUIBodies {
				break
			}
		}
	}
	if len(ui) > 0 {
		return ui
	}
	if len(contexts) > fallbackBodies {
		return contexts[:fallbackBodies]
	}
	return contexts
}

func extensionHistogram(contexts []types.CodeContext) []string {
	counts := make(map[string]int)
	for _, cc := range contexts {
		ext := strings.ToLower(filepath.Ext(cc.File))
		if ext == "" {
			ext = "(none)"
		}
		counts[ext]++
	}
	exts := make([]string, 0, len(counts))
	for ext := range counts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	lines := make([]string, 0, len(exts))
	for _, ext := range exts {
		lines = append(lines, fmt.Sprintf("%s: %d files", ext, counts[ext]))
	}
	return lines
}
