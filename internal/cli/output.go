package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/glorpus-work/wam/pkg/engine"
	"github.com/glorpus-work/wam/pkg/model"
)

// Table layout.
const (
	NameWidth    = 30
	ColumnWidth  = 12
	RuleWidth    = 90
	MaxNameWidth = 28
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

func printEvent(out io.Writer, e engine.Event) {
	switch {
	case e.Phase == "error":
		_, _ = fmt.Fprintf(out, "%s: %s\n", red(e.Phase), e.Msg)
	case e.Msg != "":
		_, _ = fmt.Fprintf(out, "%s: %s (%s)\n", e.Phase, e.Msg, e.ID)
	default:
		_, _ = fmt.Fprintf(out, "%s: %s\n", e.Phase, e.ID)
	}
}

func statusLabel(s model.Status) string {
	// pad before coloring so escape codes do not break the column
	padded := fmt.Sprintf("%-*s", ColumnWidth, s)
	if s == model.StatusOutdated {
		return yellow(padded)
	}
	return green(padded)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func rule(out io.Writer) {
	_, _ = fmt.Fprintln(out, strings.Repeat("-", RuleWidth))
}
