package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/ginjaninja78/lancamentos/internal/aggregator"
	"github.com/ginjaninja78/lancamentos/internal/validation"
)

func writeTable(w io.Writer, rep Report, opts Options) error {
	title := color.New(color.Bold)
	warn := color.New(color.FgYellow)
	fail := color.New(color.FgRed, color.Bold)
	for _, c := range []*color.Color{title, warn, fail} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	if rep.Source != "" {
		title.Fprintf(w, "Resumo: %s\n", rep.Source)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	cells := rep.Summary.Cells()
	headers := make([]string, len(cells))
	values := make([]string, len(cells))
	for i, c := range cells {
		headers[i] = c.Header
		values[i] = c.Value
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	fmt.Fprintln(tw, strings.Join(values, "\t"))
	if err := tw.Flush(); err != nil {
		return err
	}

	if opts.IncludeEntries && len(rep.Entries) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "LINHA\tDESCRIÇÃO\tCATEGORIA\tVALOR")
		for _, e := range rep.Entries {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Row, e.Description, e.Category, aggregator.FormatBRL(e.Amount))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(rep.Issues) > 0 {
		fmt.Fprintln(w)
		for _, issue := range rep.Issues {
			switch issue.Severity {
			case validation.SeverityError:
				fail.Fprintln(w, issue.Error())
			case validation.SeverityWarning:
				warn.Fprintln(w, issue.Error())
			default:
				fmt.Fprintln(w, issue.Error())
			}
		}
	}

	return nil
}
