package types

import "time"

// =============================================================================
// UI ELEMENT MODEL
// =============================================================================

// UIElement represents one discovered markup element occurrence.
//
// Elements appear in two views: the flat per-file occurrence log in
// ComponentAnalysis.Elements, and the nesting tree rooted at Children.
// The two views overlap deliberately - a nested element is recorded both
// inside its parent's Children and in the flat list.
type UIElement struct {
	Tag        string           `json:"tag"`            // "<button>" or "<SubmitButton />"
	Type       string           `json:"type,omitempty"` // input subtype (text, email, password, ...)
	Selectors  Selectors        `json:"selectors"`
	Validation []ValidationRule `json:"validation,omitempty"`
	HasEvents  bool             `json:"hasEvents"`
	EventType  string           `json:"eventType,omitempty"`
	Children   []UIElement      `json:"children,omitempty"`
}

// Selectors holds the locators extracted from an element's own attributes
type Selectors struct {
	TestID string            `json:"testId,omitempty"`
	Name   string            `json:"name,omitempty"`
	Label  string            `json:"label,omitempty"`
	Text   string            `json:"text,omitempty"`
	Role   string            `json:"role,omitempty"`
	Props  map[string]string `json:"props,omitempty"`
}

// ValidationRule represents one validation constraint on a form field.
// Rules come from direct attribute inspection (required, min, max, pattern)
// and from recognized validation-schema chains matched by substring.
type ValidationRule struct {
	Type    string `json:"type"` // required, min, max, pattern, custom
	Value   any    `json:"value,omitempty"`
	Message string `json:"message,omitempty"`
}

// FormAction describes how a form submits, derived from the nearest
// form-like or onSubmit-bearing ancestor
type FormAction struct {
	Handler  string `json:"handler"`
	Endpoint string `json:"endpoint,omitempty"`
	Method   string `json:"method,omitempty"`
}

// Form pairs a form's action with its interactive fields
type Form struct {
	Action FormAction  `json:"action"`
	Fields []UIElement `json:"fields"`
}

// Dependencies captures what a component reaches out to
type Dependencies struct {
	APIs       []string `json:"apis,omitempty"`       // literal /api/... paths in the file
	Components []string `json:"components,omitempty"` // external component libraries imported
}

// ComponentAnalysis is one file's extraction result. Created once by the
// structural analyzer and never mutated afterwards. A file with zero
// matching elements produces no ComponentAnalysis at all.
type ComponentAnalysis struct {
	File         string       `json:"file"`
	Elements     []UIElement  `json:"elements"`
	Forms        []Form       `json:"forms,omitempty"`
	StateCount   int          `json:"stateCount"`
	ErrorStates  []string     `json:"errorStates,omitempty"`
	Dependencies Dependencies `json:"dependencies"`
}

// =============================================================================
// FRAMEWORK DETECTION
// =============================================================================

// FrameworkType classifies a source file's UI dialect
type FrameworkType string

const (
	FrameworkReactiveComponent FrameworkType = "reactive-component"
	FrameworkTemplateBased     FrameworkType = "template-based"
	FrameworkClassAnnotated    FrameworkType = "class-annotated"
	FrameworkHybridTemplate    FrameworkType = "hybrid-template"
	FrameworkUnknown           FrameworkType = "unknown"
)

// FrameworkInfo is advisory metadata produced once per run. It feeds the
// summary output only; chunking and parsing never consume it.
type FrameworkInfo struct {
	Type           FrameworkType     `json:"type,omitempty"`
	ComponentStyle string            `json:"componentStyle,omitempty"` // class, function, template
	Patterns       map[string]string `json:"patterns,omitempty"`
}

// =============================================================================
// CONTEXT & CHUNKING
// =============================================================================

// CodeContext is a size-bounded textual summary of one selected file.
// Size is the sanitized content's character count, used as a token proxy.
type CodeContext struct {
	File          string   `json:"file"`
	Summary       string   `json:"summary"`
	ExportedItems []string `json:"exportedItems,omitempty"`
	Content       string   `json:"content"`
	Size          int      `json:"size"`
	IsUIComponent bool     `json:"isUIComponent,omitempty"`
}

// Chunk is an ordered group of contexts whose cumulative size fits the
// request budget. A single context larger than the budget sits alone in
// its own chunk - never dropped, never split.
type Chunk struct {
	Contexts []CodeContext `json:"contexts"`
	Size     int           `json:"size"`
}

// =============================================================================
// GENERATION OUTPUT
// =============================================================================

// Artifact is a named output unit reconstructed from generated text
type Artifact struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// GenerationRun records one pipeline run for the local cache
type GenerationRun struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Root       string    `json:"root"`
	Chunks     int       `json:"chunks"`
	Artifacts  int       `json:"artifacts"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
