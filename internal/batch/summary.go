package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"framepress/internal/checkpoint"
)

// printSummary renders the candidate files before any work starts so the
// operator sees what the run is about to touch.
func (o *Orchestrator) printSummary(files []string, resume *checkpoint.Checkpoint) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "File", "Size", "Note"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	for i, file := range files {
		size := "?"
		if fi, err := os.Stat(filepath.Join(o.dir, file)); err == nil {
			size = humanSize(fi.Size())
		}
		note := ""
		if resume != nil && resume.File == file {
			note = fmt.Sprintf("resume from frame %d", resume.Frame)
		}
		tw.AppendRow(table.Row{i + 1, file, size, note})
	}

	fmt.Fprintln(o.stdout, tw.Render())
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
