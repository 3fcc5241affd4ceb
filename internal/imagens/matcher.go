package imagens

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/model"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/pricing"
)

// SKU embedded in a filename: a run of 6 to 15 digits, optionally followed by
// one letter ("0001234567a.jpg").
var padraoSKU = regexp.MustCompile(`[0-9]{6,15}[A-Za-z]?`)

// Filenames shorter than this (normalized, without extension) never match by
// description — too little signal to trust a containment hit.
const minimoDescricao = 4

// indiceCatalogo indexes the loaded catalog both by normalized SKU and by
// normalized description. Built once per reconciliation run.
type indiceCatalogo struct {
	porSKU       map[string][]uuid.UUID
	porDescricao map[string][]uuid.UUID
}

func novoIndice(produtos []model.Produto) *indiceCatalogo {
	idx := &indiceCatalogo{
		porSKU:       make(map[string][]uuid.UUID),
		porDescricao: make(map[string][]uuid.UUID),
	}
	for _, p := range produtos {
		if p.SKU != "" {
			idx.porSKU[p.SKU] = append(idx.porSKU[p.SKU], p.ID)
		}
		if desc := pricing.NormalizarDescricao(p.Descricao); desc != "" {
			idx.porDescricao[desc] = append(idx.porDescricao[desc], p.ID)
		}
	}
	return idx
}

// casar matches one filename against the catalog: SKU pattern first, then the
// normalized description (exact, then containment in either direction).
// Returns the deduplicated target ids, empty when nothing matches.
func (idx *indiceCatalogo) casar(nomeArquivo string) []uuid.UUID {
	base := nomeBase(nomeArquivo)

	if bruto := padraoSKU.FindString(base); bruto != "" {
		if ids := idx.porSKU[pricing.LimparSKU(bruto)]; len(ids) > 0 {
			return dedup(ids)
		}
	}

	semExtensao := strings.TrimSuffix(base, filepath.Ext(base))
	chave := pricing.NormalizarDescricao(semExtensao)
	if len(chave) <= minimoDescricao {
		return nil
	}
	if ids := idx.porDescricao[chave]; len(ids) > 0 {
		return dedup(ids)
	}
	var achados []uuid.UUID
	for desc, ids := range idx.porDescricao {
		if strings.Contains(desc, chave) || strings.Contains(chave, desc) {
			achados = append(achados, ids...)
		}
	}
	return dedup(achados)
}

// nomeBase strips any path component, whichever separator the uploader used.
func nomeBase(nome string) string {
	if i := strings.LastIndexAny(nome, `/\`); i >= 0 {
		nome = nome[i+1:]
	}
	return nome
}

func dedup(ids []uuid.UUID) []uuid.UUID {
	vistos := make(map[uuid.UUID]struct{}, len(ids))
	var unicos []uuid.UUID
	for _, id := range ids {
		if _, ok := vistos[id]; ok {
			continue
		}
		vistos[id] = struct{}{}
		unicos = append(unicos, id)
	}
	return unicos
}
