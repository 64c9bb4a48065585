package parser

import (
	"regexp"
	"strings"

	"github.com/alantheprice/curlgen/pkg/artifacts"
)

var (
	// filenameMarkerRegex matches a filename marker line such as "// Filename: Widget.java".
	// The marker is case-insensitive and may have arbitrary leading whitespace.
	filenameMarkerRegex = regexp.MustCompile(`(?i)^//\s*filename\s*:`)

	// fencedJavaBlockRegex matches a ```java fenced block, optionally annotated
	// with a filename in parentheses on the opening fence, e.g. ```java (Widget.java).
	fencedJavaBlockRegex = regexp.MustCompile("```java[ \t]*(?:\\(([^)]+)\\))?[ \t]*\\n([\\s\\S]*?)```")

	// typeDeclRegex finds the first class/interface/enum declaration so a
	// filename can be inferred from an unannotated block.
	typeDeclRegex = regexp.MustCompile(`(?:public|private)?\s*\b(?:class|interface|enum)\s+(\w+)`)
)

// GenericFilename is used when a fenced block carries no filename and no type
// declaration to infer one from.
const GenericFilename = "JavaFile.java"

// isFilenameMarker reports whether a line is a filename marker and, if so,
// returns the filename that follows the colon.
func isFilenameMarker(line string) (bool, string) {
	trimmed := strings.TrimSpace(line)
	if !filenameMarkerRegex.MatchString(trimmed) {
		return false, ""
	}
	parts := strings.SplitN(trimmed, ":", 2)
	if len(parts) < 2 {
		return false, ""
	}
	return true, strings.TrimSpace(parts[1])
}

// Extract parses a single LLM response into an artifact set.
//
// Two tiers, first match wins: filename marker lines are scanned first; only
// when that yields nothing are fenced ```java blocks considered. A response
// matching neither tier returns an empty set — the caller treats that as a
// failed generation, not an error.
func Extract(response string) *artifacts.Set {
	set := extractByMarkers(response)
	if set.Len() == 0 {
		set = extractByFencedBlocks(response)
	}
	return set
}

// extractByMarkers collects artifacts delimited by "// Filename:" comment lines.
// Every line after a marker belongs to the current artifact verbatim until the
// next marker or end of input.
func extractByMarkers(response string) *artifacts.Set {
	set := artifacts.NewSet()
	var currentName string
	var currentContent []string

	flush := func() {
		if currentName == "" {
			return
		}
		content := strings.Join(currentContent, "\n")
		if strings.TrimSpace(content) != "" {
			set.Add(currentName, content)
		}
	}

	for _, line := range strings.Split(response, "\n") {
		if ok, name := isFilenameMarker(line); ok && name != "" {
			flush()
			currentName = name
			currentContent = nil
			continue
		}
		if currentName != "" {
			currentContent = append(currentContent, line)
		}
	}
	flush()

	return set
}

// extractByFencedBlocks is the fallback tier for responses without filename markers.
func extractByFencedBlocks(response string) *artifacts.Set {
	set := artifacts.NewSet()

	for _, match := range fencedJavaBlockRegex.FindAllStringSubmatch(response, -1) {
		content := strings.Trim(match[2], "\n")
		if strings.TrimSpace(content) == "" {
			continue
		}
		name := strings.TrimSpace(match[1])
		if name == "" {
			name = inferFilename(content)
		}
		set.Add(name, content)
	}

	return set
}

// inferFilename derives a filename from the first type declaration in the
// content, falling back to GenericFilename when there is none.
func inferFilename(content string) string {
	if m := typeDeclRegex.FindStringSubmatch(content); m != nil {
		return m[1] + ".java"
	}
	return GenericFilename
}
