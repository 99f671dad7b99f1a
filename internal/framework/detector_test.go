package framework

import (
	"testing"

	"github.com/m2rads/e2e/pkg/types"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantType  types.FrameworkType
		wantStyle string
	}{
		{
			name:      "react function component",
			content:   "import React, { useState } from 'react';\nexport function App() { const [n] = useState(0); return <div/>; }",
			wantType:  types.FrameworkReactiveComponent,
			wantStyle: "function",
		},
		{
			name:      "react class component",
			content:   "import React from 'react';\nexport class App extends React.Component { render() { return null; } }",
			wantType:  types.FrameworkReactiveComponent,
			wantStyle: "class",
		},
		{
			name:      "vue single file component",
			content:   "<template>\n  <div>{{ msg }}</div>\n</template>\n<script>\nexport default { data() { return { msg: 'hi' } } }\n</script>",
			wantType:  types.FrameworkTemplateBased,
			wantStyle: "template",
		},
		{
			name:      "angular component",
			content:   "import { Component } from '@angular/core';\n@Component({ selector: 'app-root' })\nexport class AppComponent {}",
			wantType:  types.FrameworkClassAnnotated,
			wantStyle: "class",
		},
		{
			name:      "svelte component",
			content:   "<script>\n  export let name;\n</script>\n{#if name}\n  <h1>Hello {name}</h1>\n{/if}",
			wantType:  types.FrameworkHybridTemplate,
			wantStyle: "template",
		},
		{
			name:     "plain module",
			content:  "export function add(a, b) { return a + b; }",
			wantType: types.FrameworkUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.content)
			if got.Type != tt.wantType {
				t.Errorf("Expected type %s, got %s", tt.wantType, got.Type)
			}
			if got.ComponentStyle != tt.wantStyle {
				t.Errorf("Expected style %q, got %q", tt.wantStyle, got.ComponentStyle)
			}
		})
	}
}

func TestDetectPatterns(t *testing.T) {
	content := "import { useState, useEffect } from 'react';\nexport function App() { useState(0); useEffect(() => {}); return null; }"

	info := Detect(content)
	if info.Patterns["hooks"] == "" {
		t.Error("Expected hooks pattern to be recorded")
	}
	if info.Patterns["effects"] == "" {
		t.Error("Expected effects pattern to be recorded")
	}
}
