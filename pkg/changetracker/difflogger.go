package changetracker

import (
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/term"

	"github.com/alantheprice/curlgen/pkg/artifacts"
	"github.com/alantheprice/curlgen/pkg/utils"
)

// LogArtifactChanges logs what changed between two generation attempts. The
// plain summary always goes to the log file; a colored diff is echoed to
// stdout only when it is a terminal. Both sets are left untouched.
func LogArtifactChanges(logger *utils.Logger, attempt int, previous, current *artifacts.Set) {
	if previous == nil || current == nil {
		return
	}

	dmp := diffmatchpatch.New()
	colorize := term.IsTerminal(int(os.Stdout.Fd()))

	for _, name := range current.Names() {
		newContent, _ := current.Get(name)
		oldContent, existed := previous.Get(name)

		if !existed {
			logger.Logf("attempt %d: new file %s (%d bytes)", attempt, name, len(newContent))
			continue
		}
		if oldContent == newContent {
			continue
		}

		diffs := dmp.DiffMain(oldContent, newContent, false)
		dmp.DiffCleanupSemantic(diffs)
		logger.Logf("attempt %d: %s changed:\n%s", attempt, name, plainDiff(diffs))
		if colorize {
			fmt.Printf("--- %s (attempt %d) ---\n%s\n", name, attempt, dmp.DiffPrettyText(diffs))
		}
	}

	for _, name := range previous.Names() {
		if _, stillThere := current.Get(name); !stillThere {
			logger.Logf("attempt %d: file %s dropped from the generated set", attempt, name)
		}
	}
}

// plainDiff renders diffs without ANSI colors for the log file.
func plainDiff(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString("+")
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString("-")
			b.WriteString(d.Text)
		default:
			// Keep a little context around changes without dumping whole files.
			if len(d.Text) > 80 {
				b.WriteString(d.Text[:40])
				b.WriteString(" [...] ")
				b.WriteString(d.Text[len(d.Text)-40:])
			} else {
				b.WriteString(d.Text)
			}
		}
	}
	return b.String()
}
