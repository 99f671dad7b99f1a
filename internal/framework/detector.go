package framework

import (
	"regexp"
	"strings"

	"github.com/m2rads/e2e/pkg/types"
)

// Detection is a pure classification over a file's import statements and
// characteristic text markers. The result is advisory metadata for the
// run summary; the main pipeline never depends on it.

var importLine = regexp.MustCompile(`import\s+(?:[\w*{}\s,]+\s+from\s+)?['"]([^'"]+)['"]`)

// Detect classifies one representative source file's UI dialect.
func Detect(content string) types.FrameworkInfo {
	imports := importSpecifiers(content)

	switch {
	case hasImport(imports, "@angular") || strings.Contains(content, "@Component("):
		return types.FrameworkInfo{
			Type:           types.FrameworkClassAnnotated,
			ComponentStyle: "class",
			Patterns:       patterns(content, map[string]string{"@Input(": "inputs", "@Output(": "outputs", "ngOnInit": "lifecycle"}),
		}
	case hasImport(imports, "svelte") || strings.Contains(content, "{#if") || strings.Contains(content, "{#each"):
		return types.FrameworkInfo{
			Type:           types.FrameworkHybridTemplate,
			ComponentStyle: "template",
			Patterns:       patterns(content, map[string]string{"$:": "reactive-statements", "export let": "props"}),
		}
	case hasImport(imports, "vue") || strings.Contains(content, "<template>"):
		return types.FrameworkInfo{
			Type:           types.FrameworkTemplateBased,
			ComponentStyle: "template",
			Patterns:       patterns(content, map[string]string{"setup(": "composition-api", "ref(": "reactivity", "v-model": "two-way-binding"}),
		}
	case hasImport(imports, "react") || strings.Contains(content, "useState(") || strings.Contains(content, "JSX"):
		style := "function"
		if strings.Contains(content, "extends Component") || strings.Contains(content, "extends React.Component") {
			style = "class"
		}
		return types.FrameworkInfo{
			Type:           types.FrameworkReactiveComponent,
			ComponentStyle: style,
			Patterns:       patterns(content, map[string]string{"useState(": "hooks", "useEffect(": "effects", "useContext(": "context"}),
		}
	default:
		return types.FrameworkInfo{Type: types.FrameworkUnknown}
	}
}

func importSpecifiers(content string) []string {
	var specs []string
	for _, m := range importLine.FindAllStringSubmatch(content, -1) {
		specs = append(specs, m[1])
	}
	return specs
}

func hasImport(imports []string, prefix string) bool {
	for _, spec := range imports {
		if spec == prefix || strings.HasPrefix(spec, prefix+"/") || strings.HasPrefix(spec, prefix+"-") {
			return true
		}
	}
	return false
}

func patterns(content string, markers map[string]string) map[string]string {
	found := make(map[string]string)
	for marker, name := range markers {
		if strings.Contains(content, marker) {
			found[name] = marker
		}
	}
	if len(found) == 0 {
		return nil
	}
	return found
}
