package imagens

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/model"
)

func catalogoDeTeste() ([]model.Produto, map[string]uuid.UUID) {
	ids := map[string]uuid.UUID{
		"fogao":   uuid.New(),
		"armario": uuid.New(),
		"pia":     uuid.New(),
	}
	return []model.Produto{
		{ID: ids["fogao"], SKU: "0001234567A", Descricao: "Fogão 4 Bocas Inox"},
		{ID: ids["armario"], SKU: "000765432", Descricao: "Armário Aéreo"},
		{ID: ids["pia"], SKU: "555000111", Descricao: "Pia"},
	}, ids
}

func TestCasarPorSKU(t *testing.T) {
	produtos, ids := catalogoDeTeste()
	idx := novoIndice(produtos)

	achados := idx.casar("fotos/0001234567a.jpg")
	require.Len(t, achados, 1)
	assert.Equal(t, ids["fogao"], achados[0])
}

func TestCasarPorSKUComCaminhoWindows(t *testing.T) {
	produtos, ids := catalogoDeTeste()
	idx := novoIndice(produtos)

	achados := idx.casar(`C:\upload\000765432.png`)
	require.Len(t, achados, 1)
	assert.Equal(t, ids["armario"], achados[0])
}

func TestCasarPorDescricaoExata(t *testing.T) {
	produtos, ids := catalogoDeTeste()
	idx := novoIndice(produtos)

	achados := idx.casar("Fogão 4 Bocas Inox.jpg")
	require.Len(t, achados, 1)
	assert.Equal(t, ids["fogao"], achados[0])
}

func TestCasarPorDescricaoContida(t *testing.T) {
	produtos, ids := catalogoDeTeste()
	idx := novoIndice(produtos)

	// O nome normalizado do arquivo contém a descrição normalizada do catálogo.
	achados := idx.casar("armario aereo foto final.jpg")
	require.Len(t, achados, 1)
	assert.Equal(t, ids["armario"], achados[0])

	// E vale também a contenção no sentido inverso.
	contido := idx.casar("armarioaer.jpg")
	require.Len(t, contido, 1)
	assert.Equal(t, ids["armario"], contido[0])
}

func TestCasarDescricaoCurtaNaoCasa(t *testing.T) {
	produtos, _ := catalogoDeTeste()
	idx := novoIndice(produtos)

	// "pia" normalizado tem 3 caracteres — abaixo do mínimo de 4.
	assert.Empty(t, idx.casar("pia.jpg"))
}

func TestCasarSemCorrespondencia(t *testing.T) {
	produtos, _ := catalogoDeTeste()
	idx := novoIndice(produtos)

	assert.Empty(t, idx.casar("totally_unrelated_998.png"))
}

func TestCasarDeduplicaAlvos(t *testing.T) {
	id := uuid.New()
	idx := novoIndice([]model.Produto{
		{ID: id, SKU: "123456789", Descricao: "Fogão"},
		{ID: id, SKU: "123456789", Descricao: "Fogão"},
	})

	achados := idx.casar("123456789.jpg")
	assert.Len(t, achados, 1)
}
