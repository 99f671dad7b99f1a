package contextpack

import "github.com/m2rads/e2e/pkg/types"

// CharsPerToken scales the token ceiling into a character budget
const CharsPerToken = 4

// Budget derives the per-chunk character budget from the configured token
// ceiling: half the ceiling is reserved for the response, the rest scaled
// by the characters-per-token ratio.
func Budget(maxTokens int) int {
	return maxTokens / 2 * CharsPerToken
}

// BuildChunks partitions the size-sorted context list into request-sized
// groups with a single greedy pass. A chunk closes only when adding the
// next context would exceed the budget and the chunk already holds
// something, so a context larger than the whole budget still ships alone
// in its own chunk - never dropped, never split. Flattening the output
// reproduces the input in order.
func BuildChunks(contexts []types.CodeContext, budget int) []types.Chunk {
	var chunks []types.Chunk
	var current types.Chunk

	for _, cc := range contexts {
		if current.Size+cc.Size > budget && len(current.Contexts) > 0 {
			chunks = append(chunks, current)
			current = types.Chunk{}
		}
		current.Contexts = append(current.Contexts, cc)
		current.Size += cc.Size
	}
	if len(current.Contexts) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
