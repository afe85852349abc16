package batch

import (
	"fmt"
	"io"
	"strings"
)

const barWidth = 40

// renderProgress repaints the in-place progress line. Frame counts past the
// probed total are clamped so the bar never overruns on estimate drift.
func renderProgress(w io.Writer, current, total int64, resuming bool) {
	if total < 1 {
		total = 1
	}
	if current > total {
		current = total
	}
	if current < 0 {
		current = 0
	}
	filled := int(int64(barWidth) * current / total)
	prefix := ""
	if resuming {
		prefix = "[RESUMING] "
	}
	fmt.Fprintf(w, "\r%s[%s%s] %5.1f%% (frame %d/%d)",
		prefix,
		strings.Repeat("=", filled),
		strings.Repeat(" ", barWidth-filled),
		float64(current)/float64(total)*100,
		current, total,
	)
}
