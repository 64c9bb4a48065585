package toolchain

import "strings"

// Success phrases an agent-style toolchain wrapper may emit. Kept lowercase;
// matching is case-insensitive.
var (
	compileSuccessPhrases = []string{
		"compilation successful",
		"compiled successfully",
		"build success",
	}
	runSuccessPhrases = []string{
		"ran successfully",
		"execution successful",
	}
)

// ClassifyNarrative scans free-text toolchain output for compile/run success
// phrases. This is a best-effort fallback for output that carries no
// structured pass/fail signal — exit codes are always preferred when the
// runner exposes them. Ambiguous or partial phrasing classifies as failure:
// both booleans start false and only explicit evidence flips them.
func ClassifyNarrative(output string) (compiled bool, ran bool) {
	lower := strings.ToLower(output)
	for _, phrase := range compileSuccessPhrases {
		if strings.Contains(lower, phrase) {
			compiled = true
			break
		}
	}
	for _, phrase := range runSuccessPhrases {
		if strings.Contains(lower, phrase) {
			ran = true
			break
		}
	}
	// Run success without compile success is not credible evidence.
	if !compiled {
		ran = false
	}
	return compiled, ran
}
