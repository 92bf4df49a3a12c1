package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/lancamentos/internal/aggregator"
)

// XML STRUCTURE:
//
//   <resumo origem="extrato.txt" execucao="..." gerado="...">
//     <categoria nome="INDENIZAÇÕES">1.000,00</categoria>
//     ...
//     <totalGeral>1.487,00</totalGeral>
//     <lancamentos>                     <!-- only with entries -->
//       <lancamento n="1" linha="1" categoria="INDENIZAÇÕES">
//         <descricao>INDENIZAÇÃO POR DANO MORAL</descricao>
//         <valor>1.000,00</valor>
//       </lancamento>
//     </lancamentos>
//   </resumo>

type xmlSummary struct {
	XMLName     xml.Name      `xml:"resumo"`
	Source      string        `xml:"origem,attr,omitempty"`
	RunID       string        `xml:"execucao,attr,omitempty"`
	GeneratedAt string        `xml:"gerado,attr"`
	Categories  []xmlCategory `xml:"categoria"`
	GrandTotal  string        `xml:"totalGeral"`
	Entries     *xmlEntryList `xml:"lancamentos,omitempty"`
}

type xmlCategory struct {
	Name  string `xml:"nome,attr"`
	Value string `xml:",chardata"`
}

type xmlEntryList struct {
	Entries []xmlEntry `xml:"lancamento"`
}

type xmlEntry struct {
	N           int    `xml:"n,attr"`
	Row         int    `xml:"linha,attr"`
	Category    string `xml:"categoria,attr"`
	Degraded    bool   `xml:"degradado,attr,omitempty"`
	Description string `xml:"descricao"`
	Value       string `xml:"valor"`
}

func buildXMLSummary(rep Report, opts Options) xmlSummary {
	doc := xmlSummary{
		Source:      rep.Source,
		RunID:       rep.RunID,
		GeneratedAt: rep.GeneratedAt.Format(time.RFC3339),
		GrandTotal:  aggregator.FormatBRL(rep.Summary.GrandTotal()),
	}

	cells := rep.Summary.Cells()
	// The last cell is TOTAL GERAL, written as its own element.
	for _, c := range cells[:len(cells)-1] {
		doc.Categories = append(doc.Categories, xmlCategory{Name: c.Header, Value: c.Value})
	}

	if opts.IncludeEntries && len(rep.Entries) > 0 {
		list := &xmlEntryList{}
		for i, e := range rep.Entries {
			list.Entries = append(list.Entries, xmlEntry{
				N:           i + 1,
				Row:         e.Row,
				Category:    string(e.Category),
				Degraded:    e.Degraded,
				Description: e.Description,
				Value:       aggregator.FormatBRL(e.Amount),
			})
		}
		doc.Entries = list
	}

	return doc
}

func writeXML(w io.Writer, rep Report, opts Options) error {
	output, err := xml.MarshalIndent(buildXMLSummary(rep, opts), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal XML: %w", err)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(output); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
