package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/reglex/output"
)

// slowPhase is the duration from which a phase is highlighted in the
// report.
const slowPhase = 100 * time.Millisecond

// writeTree renders a finished span tree, one line per phase:
//
//	compile: 12ms
//	├─ parse: 2ms
//	├─ automata: 8ms
//	│  ├─ spec <default>: 6ms
//	│  └─ spec strings: 2ms
//	└─ codegen: 2ms
func writeTree(w io.Writer, root *span, stylesAny interface{}) {
	styles, _ := stylesAny.(*output.Styles)

	name := root.name
	if styles != nil {
		name = styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", name, formatDuration(root.end.Sub(root.start)))

	for i, child := range root.children {
		writeNode(w, child, "", i == len(root.children)-1, styles)
	}
}

func writeNode(w io.Writer, s *span, prefix string, last bool, styles *output.Styles) {
	branch, extension := "├─ ", "│  "
	if last {
		branch, extension = "└─ ", "   "
	}

	duration := s.end.Sub(s.start)
	timing := formatDuration(duration)
	if styles != nil {
		if duration >= slowPhase {
			timing = styles.Warning(timing)
		} else {
			timing = styles.Dim(timing)
		}
		_, _ = fmt.Fprintf(w, "%s%s: %s\n", styles.Dim(prefix+branch), s.name, timing)
	} else {
		_, _ = fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, s.name, timing)
	}

	for i, child := range s.children {
		writeNode(w, child, prefix+extension, i == len(s.children)-1, styles)
	}
}

// formatDuration renders milliseconds below a second and seconds with
// two decimals above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}
