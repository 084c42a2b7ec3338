package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

// BuildDebugReport renders the last dispatched wire payload plus the decision
// log into one pasteable block for bug reports.
func BuildDebugReport(emitter *CommandEmitter, log *DecisionLog) string {
	var b strings.Builder
	b.WriteString("=== GESTURE DEBUG REPORT ===\n")
	b.WriteString(fmt.Sprintf("captured: %s\n\n", time.Now().Format(time.RFC3339)))

	b.WriteString("--- Last Dispatch ---\n")
	if j := emitter.LastDispatchJSON(); len(j) > 0 {
		b.Write(j)
		b.WriteString("\n")
	} else {
		b.WriteString("(none)\n")
	}

	b.WriteString("\n--- Decision Log ---\n")
	entries := log.Entries()
	if len(entries) == 0 {
		b.WriteString("(empty)\n")
	}
	for _, e := range entries {
		b.WriteString(e.String())
		b.WriteString("\n")
	}
	return b.String()
}

// CopyDebugReport places the report on the system clipboard.
func CopyDebugReport(emitter *CommandEmitter, log *DecisionLog) error {
	return clipboard.WriteAll(BuildDebugReport(emitter, log))
}
