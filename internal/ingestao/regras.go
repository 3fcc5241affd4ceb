package ingestao

import (
	"strings"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/model"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/pricing"
)

// Offset assumed between CONCATENAR and the discount column when the sheet has
// no header literally named "Desconto".
const offsetDescontoPadrao = 6

// ExtrairRegras reads the logistics discount rules from the "Parâmetros" sheet:
// one row per composite route/sector/cargo key (the CONCATENAR column) with its
// discount fraction. A missing sheet or header yields an empty table. Duplicate
// keys overwrite — last row wins.
func ExtrairRegras(wb *Workbook) model.MapaRegras {
	regras := model.MapaRegras{}

	_, aba, ok := wb.Aba(func(nome string) bool {
		return strings.Contains(normalizarCabecalho(nome), "PARAMETRO")
	})
	if !ok {
		return regras
	}

	linha, colChave, ok := acharCabecalho(aba, 10, Coluna{Exatas: []string{"CONCATENAR"}})
	if !ok {
		return regras
	}
	colDesconto := acharColuna(aba[linha], Coluna{Contem: []string{"DESCONTO"}})
	if colDesconto < 0 {
		colDesconto = colChave + offsetDescontoPadrao
	}

	for _, row := range aba[linha+1:] {
		bruto := cel(row, colChave)
		if strings.TrimSpace(bruto) == "" {
			continue
		}
		regras[pricing.ChaveLogistica(bruto)] = pricing.ParseFracaoDesconto(cel(row, colDesconto))
	}
	return regras
}
