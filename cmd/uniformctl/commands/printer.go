package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed, color.Bold)
	cyan  = color.New(color.FgCyan)
	faint = color.New(color.Faint)
)

func printOK(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, a...))
}

func printFail(w io.Writer, format string, a ...any) {
	red.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, a...))
}

func printField(w io.Writer, label, value string) {
	cyan.Fprintf(w, "%-10s", label)
	fmt.Fprintln(w, value)
}

func printError(w io.Writer, err error) {
	red.Fprintf(w, "Error: ")
	fmt.Fprintln(w, err)
}
