// internal/cli/prompt.go
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// prompt asks yes/no questions on a terminal. Anything but y or yes,
// including end of input, is a no.
type prompt struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompt(in io.Reader, out io.Writer) *prompt {
	return &prompt{in: bufio.NewReader(in), out: out}
}

// Confirm prints question and reads one answer line
func (p *prompt) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", question)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// printTable draws rows with the first row as column headers
func printTable(w io.Writer, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
		if i == 0 {
			rule := make([]string, len(row))
			for j, cell := range row {
				rule[j] = strings.Repeat("-", len(cell))
			}
			fmt.Fprintln(tw, strings.Join(rule, "\t"))
		}
	}
	return tw.Flush()
}
