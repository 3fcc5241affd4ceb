package ingestao

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// Workbook is the decoded, in-memory form of an uploaded spreadsheet: named
// sheets in their original order, each a rectangular grid of raw cell text.
// The pipeline only ever sees this form — the xlsx binary stays at the edge.
type Workbook struct {
	Nomes []string
	Abas  map[string][][]string
}

// LerXLSX decodes an xlsx stream into a Workbook.
func LerXLSX(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := &Workbook{Abas: make(map[string][][]string)}
	for _, nome := range f.GetSheetList() {
		linhas, err := f.GetRows(nome)
		if err != nil {
			// Aba ilegível conta como ausente — a fase correspondente fica vazia.
			linhas = nil
		}
		wb.Nomes = append(wb.Nomes, nome)
		wb.Abas[nome] = linhas
	}
	return wb, nil
}

// Aba returns the first sheet whose name satisfies the filter.
func (w *Workbook) Aba(filtro func(nome string) bool) (string, [][]string, bool) {
	for _, nome := range w.Nomes {
		if filtro(nome) {
			return nome, w.Abas[nome], true
		}
	}
	return "", nil, false
}
