package generator

import (
	"regexp"
	"strings"

	"github.com/m2rads/e2e/pkg/types"
)

// artifactBlock matches a fenced code block whose first line is a
// filename marker comment. The language tag on the fence is optional;
// the marker syntax and the fence delimiters are not.
var artifactBlock = regexp.MustCompile("(?s)```[a-zA-Z0-9]*[ \t]*\r?\n// \\[Filename: ([^\\]\r\n]+)\\][ \t]*\r?\n(.*?)```")

// ParseArtifacts extracts (filename, content) pairs from a generated
// response, in order of appearance. Surrounding narrative text is
// ignored; a fenced block without a filename marker yields nothing.
// Zero matches is a valid result, never an error.
func ParseArtifacts(response string) []types.Artifact {
	var artifacts []types.Artifact
	for _, m := range artifactBlock.FindAllStringSubmatch(response, -1) {
		artifacts = append(artifacts, types.Artifact{
			Filename: strings.TrimSpace(m[1]),
			Content:  strings.TrimSpace(m[2]),
		})
	}
	return artifacts
}
