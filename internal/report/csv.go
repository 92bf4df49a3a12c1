package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ginjaninja78/lancamentos/internal/aggregator"
	"github.com/ginjaninja78/lancamentos/internal/types"
)

// csvSeparator keeps pt-BR decimal commas out of the field separator.
const csvSeparator = ';'

func writeCSV(w io.Writer, rep Report, opts Options) error {
	writer := csv.NewWriter(w)
	writer.Comma = csvSeparator

	if err := writer.Write(types.Headers()); err != nil {
		return err
	}

	cells := rep.Summary.Cells()
	values := make([]string, len(cells))
	for i, c := range cells {
		values[i] = c.Value
	}
	if err := writer.Write(values); err != nil {
		return err
	}

	if opts.IncludeEntries && len(rep.Entries) > 0 {
		if err := writer.Write(nil); err != nil {
			return err
		}
		if err := writer.Write([]string{"Linha", "Descrição", "Categoria", "Valor"}); err != nil {
			return err
		}
		for _, e := range rep.Entries {
			record := []string{
				strconv.Itoa(e.Row),
				e.Description,
				string(e.Category),
				aggregator.FormatBRL(e.Amount),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
