package imagens

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/infra"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/ingestao"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/repository"
)

// Arquivo is one uploaded file candidate for reconciliation.
type Arquivo struct {
	Nome     string
	MimeType string
	Dados    []byte
}

// Relatorio of one reconciliation run: how many files found a home, how many
// catalog rows got an image URL, and which files matched nothing.
type Relatorio struct {
	Casados          int
	VinculosGravados int
	Ignorados        []string
}

// Opcoes reuses the ingestion batch discipline for the imageUrl writes.
type Opcoes struct {
	LoteMaxOps      int
	PausaEntreLotes time.Duration
	Progresso       ingestao.ProgressoFunc
}

// Pipeline matches a batch of image files to catalog records by SKU or
// description, uploads the matches to blob storage and patches the image URL
// on every matched row.
type Pipeline struct {
	produtos repository.ProdutoRepository
	blob     infra.BlobStorage
	op       Opcoes
}

func NovoPipeline(produtos repository.ProdutoRepository, blob infra.BlobStorage, op Opcoes) *Pipeline {
	if op.LoteMaxOps <= 0 {
		op.LoteMaxOps = 400
	}
	if op.PausaEntreLotes <= 0 {
		op.PausaEntreLotes = time.Second
	}
	if op.Progresso == nil {
		op.Progresso = func(ingestao.Progresso) {}
	}
	return &Pipeline{produtos: produtos, blob: blob, op: op}
}

// Executar reconciles the files against the catalog. A file that matches
// nothing is reported, never an error; only store/blob failures abort the run.
func (p *Pipeline) Executar(ctx context.Context, arquivos []Arquivo) (*Relatorio, error) {
	rel := &Relatorio{}

	candidatos := make([]Arquivo, 0, len(arquivos))
	for _, a := range arquivos {
		if strings.HasPrefix(a.MimeType, "image/") {
			candidatos = append(candidatos, a)
		}
	}
	if len(candidatos) == 0 {
		return rel, nil
	}

	produtos, err := p.produtos.ListarTodos(ctx)
	if err != nil {
		return rel, repository.ClassificarErro(err)
	}
	idx := novoIndice(produtos)

	lote := p.produtos.NovoLote()
	for _, arquivo := range candidatos {
		ids := idx.casar(arquivo.Nome)
		if len(ids) == 0 {
			rel.Ignorados = append(rel.Ignorados, arquivo.Nome)
			continue
		}

		chave := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), nomeBase(arquivo.Nome))
		url, err := p.blob.Salvar(ctx, chave, arquivo.Dados)
		if err != nil {
			return rel, repository.ClassificarErro(err)
		}

		for _, id := range ids {
			lote.AtualizarCampos(id, map[string]interface{}{"imagem_url": url})
		}
		rel.Casados++
		rel.VinculosGravados += len(ids)

		if lote.Tamanho() >= p.op.LoteMaxOps {
			// O commit em andamento sempre termina; o cancelamento vale
			// entre lotes.
			if err := lote.Commit(context.WithoutCancel(ctx)); err != nil {
				return rel, repository.ClassificarErro(err)
			}
			p.op.Progresso(ingestao.Progresso{Fase: "imagens", Salvos: rel.Casados, Total: len(candidatos)})
			select {
			case <-ctx.Done():
				return rel, ctx.Err()
			case <-time.After(p.op.PausaEntreLotes):
			}
		}
	}

	if lote.Tamanho() > 0 {
		if err := lote.Commit(context.WithoutCancel(ctx)); err != nil {
			return rel, repository.ClassificarErro(err)
		}
	}
	p.op.Progresso(ingestao.Progresso{Fase: "imagens", Salvos: rel.Casados, Total: len(candidatos)})

	log.Info().
		Int("casados", rel.Casados).
		Int("vinculos", rel.VinculosGravados).
		Int("ignorados", len(rel.Ignorados)).
		Msg("reconciliação de imagens concluída")
	return rel, nil
}
