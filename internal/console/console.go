// Package console renders the interactive migration session: titles, text,
// confirmation prompts, colored diagnostic blocks and the result table.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gosuri/uitable"
	"github.com/juju/ansiterm"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"measurement-migrator/internal/diagnostic"
	"measurement-migrator/internal/reconcile"
)

var (
	infoColor    = ansiterm.Foreground(ansiterm.BrightBlue)
	titleColor   = ansiterm.Foreground(ansiterm.Green)
	warnColor    = &ansiterm.Context{Foreground: ansiterm.Black, Background: ansiterm.Yellow}
	errorColor   = &ansiterm.Context{Foreground: ansiterm.White, Background: ansiterm.Red}
	successColor = &ansiterm.Context{Foreground: ansiterm.Black, Background: ansiterm.Green}
)

// Console writes to out and reads answers from in.
type Console struct {
	out         *ansiterm.Writer
	in          *bufio.Reader
	interactive bool
}

var _ diagnostic.Sink = (*Console)(nil)

// New returns a Console. Colors are used only when out is a terminal. When
// interactive is false every question is answered with its default.
func New(in io.Reader, out io.Writer, interactive bool) *Console {
	w := ansiterm.NewWriter(out)
	w.SetColorCapable(IsTerminal(out))

	return &Console{
		out:         w,
		in:          bufio.NewReader(in),
		interactive: interactive,
	}
}

// IsTerminal reports whether f is a terminal file.
func IsTerminal(f interface{}) bool {
	file, ok := f.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// Title prints an underlined section title.
func (c *Console) Title(title string) {
	fmt.Fprintln(c.out)
	titleColor.Fprintf(c.out, "%s\n", title)
	titleColor.Fprintf(c.out, "%s\n", strings.Repeat("=", utf8.RuneCountInString(title)))
	fmt.Fprintln(c.out)
}

// Text prints each line indented by one space.
func (c *Console) Text(lines ...string) {
	for _, l := range lines {
		fmt.Fprintf(c.out, " %s\n", l)
	}
}

// NewLine prints n empty lines.
func (c *Console) NewLine(n int) {
	for range n {
		fmt.Fprintln(c.out)
	}
}

// Info prints an informational block.
func (c *Console) Info(msg string) { c.block(infoColor, "INFO", msg) }

// Warn prints a warning block.
func (c *Console) Warn(msg string) { c.block(warnColor, "WARNING", msg) }

// Error prints an error block.
func (c *Console) Error(msg string) { c.block(errorColor, "ERROR", msg) }

// Success prints a success block.
func (c *Console) Success(msg string) { c.block(successColor, "OK", msg) }

func (c *Console) block(ctx *ansiterm.Context, label, msg string) {
	fmt.Fprintln(c.out)
	ctx.Fprintf(c.out, " [%s] %s ", label, msg)
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out)
}

// Confirm asks a yes/no question. An empty answer, an exhausted input or a
// non-interactive console returns def. Unrecognized answers are asked again.
func (c *Console) Confirm(question string, def bool) (bool, error) {
	if !c.interactive {
		return def, nil
	}

	defLabel := "no"
	if def {
		defLabel = "yes"
	}

	for {
		fmt.Fprintf(c.out, " %s (yes/no) [%s]:\n > ", question, defLabel)

		line, err := c.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, errors.Wrap(err, "failed to read answer")
		}

		answer := strings.ToLower(strings.TrimSpace(line))

		switch {
		case answer == "":
			if err != nil {
				fmt.Fprintln(c.out)
			}

			return def, nil
		case answer == "y" || answer == "yes":
			return true, nil
		case answer == "n" || answer == "no":
			return false, nil
		}

		if err != nil {
			return def, nil
		}

		c.Error("Please answer yes or no.")
	}
}

// Table prints one row per result and the totals.
func (c *Console) Table(s reconcile.Summary) {
	if len(s.Entries) == 0 {
		return
	}

	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true
	table.RightAlign(1)

	table.AddRow("FAMILY", "STATUS", "OUTCOME")

	for _, e := range s.Entries {
		table.AddRow(e.Code, strconv.Itoa(e.StatusCode), strings.ToLower(e.Outcome.String()))
	}

	table.AddRow("", "", "")
	table.AddRow("Created", strconv.Itoa(s.Count(reconcile.OutcomeCreated)), "")
	table.AddRow("Updated", strconv.Itoa(s.Count(reconcile.OutcomeUpdated)), "")
	table.AddRow("Failed", strconv.Itoa(s.Failed), "")

	fmt.Fprintln(c.out, table)
}
