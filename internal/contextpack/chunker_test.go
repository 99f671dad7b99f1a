package contextpack

import (
	"strings"
	"testing"

	"github.com/m2rads/e2e/pkg/types"
)

func ctxOfSize(file string, size int) types.CodeContext {
	return types.CodeContext{File: file, Content: strings.Repeat("x", size), Size: size}
}

func TestBudget(t *testing.T) {
	// half the token ceiling, scaled by the chars-per-token ratio
	if got := Budget(8000); got != 16000 {
		t.Errorf("Budget(8000) = %d, want 16000", got)
	}
}

func TestBuildChunksFlattensToInput(t *testing.T) {
	contexts := []types.CodeContext{
		ctxOfSize("a", 100),
		ctxOfSize("b", 200),
		ctxOfSize("c", 300),
		ctxOfSize("d", 400),
	}

	chunks := BuildChunks(contexts, 500)

	var flattened []types.CodeContext
	for _, chunk := range chunks {
		if len(chunk.Contexts) == 0 {
			t.Error("Emitted an empty chunk")
		}
		flattened = append(flattened, chunk.Contexts...)
	}
	if len(flattened) != len(contexts) {
		t.Fatalf("Flattened %d contexts, want %d", len(flattened), len(contexts))
	}
	for i := range contexts {
		if flattened[i].File != contexts[i].File {
			t.Errorf("Position %d: expected %s, got %s", i, contexts[i].File, flattened[i].File)
		}
	}
}

func TestBuildChunksRespectsBudget(t *testing.T) {
	contexts := []types.CodeContext{
		ctxOfSize("a", 100),
		ctxOfSize("b", 200),
		ctxOfSize("c", 300),
	}

	chunks := BuildChunks(contexts, 350)

	// 100+200 fits, 300 starts a new chunk
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Size != 300 || chunks[1].Size != 300 {
		t.Errorf("Unexpected chunk sizes: %d, %d", chunks[0].Size, chunks[1].Size)
	}
}

func TestBuildChunksNeitherAloneExceeds(t *testing.T) {
	// Two contexts that each fit but together exceed the budget land in
	// separate chunks
	contexts := []types.CodeContext{
		ctxOfSize("small", 900),
		ctxOfSize("large", 1200),
	}

	chunks := BuildChunks(contexts, 2000)
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0].Contexts) != 1 || len(chunks[1].Contexts) != 1 {
		t.Error("Each context should sit in its own chunk")
	}
}

func TestBuildChunksOversizedContextShipsAlone(t *testing.T) {
	contexts := []types.CodeContext{
		ctxOfSize("a", 100),
		ctxOfSize("huge", 5000),
		ctxOfSize("b", 100),
	}

	chunks := BuildChunks(contexts, 1000)

	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[1].Contexts) != 1 || chunks[1].Contexts[0].File != "huge" {
		t.Errorf("Oversized context should ship alone, got %+v", chunks[1])
	}
	for i, chunk := range chunks {
		if chunk.Size > 1000 && len(chunk.Contexts) != 1 {
			t.Errorf("Chunk %d exceeds budget with multiple contexts", i)
		}
	}
}

func TestBuildChunksEmptyInput(t *testing.T) {
	if chunks := BuildChunks(nil, 1000); len(chunks) != 0 {
		t.Errorf("Expected no chunks for empty input, got %d", len(chunks))
	}
}
