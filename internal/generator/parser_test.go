package generator

import "testing"

func TestParseArtifactsTwoBlocks(t *testing.T) {
	response := "Here are your tests.\n\n" +
		"```typescript\n// [Filename: tests/login.spec.ts]\nimport { test } from '@playwright/test';\n\ntest('login', async () => {});\n```\n\n" +
		"Some narrative between blocks.\n\n" +
		"```\n// [Filename: tests/signup.spec.ts]\ntest('signup', async () => {});\n```\n"

	artifacts := ParseArtifacts(response)
	if len(artifacts) != 2 {
		t.Fatalf("Expected 2 artifacts, got %d", len(artifacts))
	}

	if artifacts[0].Filename != "tests/login.spec.ts" {
		t.Errorf("Expected first filename tests/login.spec.ts, got %q", artifacts[0].Filename)
	}
	if artifacts[0].Content != "import { test } from '@playwright/test';\n\ntest('login', async () => {});" {
		t.Errorf("First content mismatch: %q", artifacts[0].Content)
	}
	if artifacts[1].Filename != "tests/signup.spec.ts" {
		t.Errorf("Expected second filename tests/signup.spec.ts, got %q", artifacts[1].Filename)
	}
	if artifacts[1].Content != "test('signup', async () => {});" {
		t.Errorf("Second content mismatch: %q", artifacts[1].Content)
	}
}

func TestParseArtifactsNoMarkerNoArtifact(t *testing.T) {
	response := "```typescript\ntest('anonymous', async () => {});\n```\n"

	if artifacts := ParseArtifacts(response); len(artifacts) != 0 {
		t.Errorf("Block without filename marker must yield nothing, got %+v", artifacts)
	}
}

func TestParseArtifactsEmptyResponse(t *testing.T) {
	if artifacts := ParseArtifacts(""); artifacts != nil {
		t.Errorf("Empty response must yield an empty list, got %+v", artifacts)
	}
}

func TestParseArtifactsTolerantOfMissingLanguageTag(t *testing.T) {
	response := "```\n// [Filename: smoke.spec.ts]\nbody\n```"

	artifacts := ParseArtifacts(response)
	if len(artifacts) != 1 || artifacts[0].Filename != "smoke.spec.ts" || artifacts[0].Content != "body" {
		t.Errorf("Expected one artifact from untagged fence, got %+v", artifacts)
	}
}
