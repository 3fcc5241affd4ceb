package ingestao

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/model"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/pricing"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/repository"
)

// Progresso is one incremental progress report from a running pipeline.
type Progresso struct {
	Fase   string
	Salvos int
	Total  int
}

type ProgressoFunc func(Progresso)

// Relatorio summarizes one ingestion run. Ingestion is best-effort: malformed
// rows and missing sheets lower the counts instead of failing the run.
type Relatorio struct {
	RegrasImportadas int
	ProdutosPlanilha int
	Criados          int
	Atualizados      int
	LotesGravados    int
	// Vazio marks the distinct no-valid-records outcome: nothing to persist,
	// but not an error.
	Vazio bool
}

// Opcoes tunes batch sizing and pacing. Zero values take the defaults.
type Opcoes struct {
	LoteMaxOps      int
	PausaEntreLotes time.Duration
	Estrategia      MergeStrategy
	Progresso       ProgressoFunc
}

const (
	loteMaxOpsPadrao      = 400
	pausaEntreLotesPadrao = time.Second
)

// Pipeline runs the catalog ingestion end to end: extract the four record sets
// from the workbook, persist the logistics rules, refresh the in-memory
// discount table, then reconcile product records against the store in bounded,
// paced batches.
type Pipeline struct {
	produtos repository.ProdutoRepository
	regras   repository.RegrasLogisticaRepository
	tabela   *pricing.TabelaLogistica
	op       Opcoes
}

func NovoPipeline(
	produtos repository.ProdutoRepository,
	regras repository.RegrasLogisticaRepository,
	tabela *pricing.TabelaLogistica,
	op Opcoes,
) *Pipeline {
	if op.LoteMaxOps <= 0 {
		op.LoteMaxOps = loteMaxOpsPadrao
	}
	if op.PausaEntreLotes <= 0 {
		op.PausaEntreLotes = pausaEntreLotesPadrao
	}
	if op.Progresso == nil {
		op.Progresso = func(Progresso) {}
	}
	return &Pipeline{produtos: produtos, regras: regras, tabela: tabela, op: op}
}

// Executar ingests one workbook. Batches already committed stay committed when
// a later batch fails; the returned error is ErrCotaExcedida-wrapped when the
// store reported resource exhaustion. Cancellation is honored between batches —
// an in-flight commit always finishes.
func (p *Pipeline) Executar(ctx context.Context, wb *Workbook) (*Relatorio, error) {
	rel := &Relatorio{}

	regras := ExtrairRegras(wb)
	dims := ExtrairDimensoes(wb)
	matrizes := ExtrairPrecos(wb)
	novos := ExtrairProdutos(wb, dims, matrizes, p.op.Estrategia)

	rel.RegrasImportadas = len(regras)
	rel.ProdutosPlanilha = len(novos)

	if len(regras) == 0 && len(novos) == 0 {
		rel.Vazio = true
		log.Warn().Msg("ingestão: planilha sem registros aproveitáveis")
		return rel, nil
	}

	// As regras são persistidas antes dos lotes de produtos, e o cache em
	// memória é trocado de forma síncrona: simulações seguintes já enxergam a
	// tabela nova.
	if len(regras) > 0 {
		if err := p.regras.Salvar(ctx, regras); err != nil {
			return rel, repository.ClassificarErro(err)
		}
		p.tabela.Substituir(regras)
		p.op.Progresso(Progresso{Fase: "regras", Salvos: len(regras), Total: len(regras)})
	}

	if len(novos) == 0 {
		return rel, nil
	}

	existentes, err := p.produtos.ListarTodos(ctx)
	if err != nil {
		return rel, repository.ClassificarErro(err)
	}
	porSKU := make(map[string][]model.Produto)
	for _, e := range existentes {
		porSKU[e.SKU] = append(porSKU[e.SKU], e)
	}

	skus := make([]string, 0, len(novos))
	for sku := range novos {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	lote := p.produtos.NovoLote()
	salvos := 0
	for _, sku := range skus {
		novo := novos[sku]
		linhas := porSKU[sku]
		if len(linhas) == 0 {
			lote.Inserir(novo)
			rel.Criados++
		} else {
			// Duplicatas legadas: toda linha que compartilha o SKU recebe a
			// mesma atualização, não apenas a primeira.
			campos := camposAtualizacao(novo)
			for _, linha := range linhas {
				lote.AtualizarCampos(linha.ID, campos)
				rel.Atualizados++
			}
		}

		if lote.Tamanho() >= p.op.LoteMaxOps {
			salvos += lote.Tamanho()
			if err := p.commitLote(ctx, lote, rel, salvos, len(novos)); err != nil {
				return rel, err
			}
		}
	}

	salvos += lote.Tamanho()
	if lote.Tamanho() > 0 {
		if err := lote.Commit(context.WithoutCancel(ctx)); err != nil {
			return rel, repository.ClassificarErro(err)
		}
		rel.LotesGravados++
		p.op.Progresso(Progresso{Fase: "gravacao", Salvos: salvos, Total: len(novos)})
	}

	log.Info().
		Int("regras", rel.RegrasImportadas).
		Int("produtos", rel.ProdutosPlanilha).
		Int("criados", rel.Criados).
		Int("atualizados", rel.Atualizados).
		Int("lotes", rel.LotesGravados).
		Msg("ingestão concluída")
	return rel, nil
}

// commitLote grava o lote cheio, reporta progresso e aplica a pausa que
// respeita o limite de escrita do armazenamento. Um cancelamento que chega
// durante o commit não o interrompe; ele é observado logo em seguida, entre
// lotes.
func (p *Pipeline) commitLote(ctx context.Context, lote repository.Lote, rel *Relatorio, salvos, total int) error {
	if err := lote.Commit(context.WithoutCancel(ctx)); err != nil {
		return repository.ClassificarErro(err)
	}
	rel.LotesGravados++
	p.op.Progresso(Progresso{Fase: "gravacao", Salvos: salvos, Total: total})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.op.PausaEntreLotes):
		return nil
	}
}

// camposAtualizacao builds the merge-write column set: fields produced by this
// run overwrite their counterparts, anything else on the existing row stays.
func camposAtualizacao(novo *model.Produto) map[string]interface{} {
	campos := map[string]interface{}{
		"descricao": novo.Descricao,
		"linha":     novo.Linha,
		"grupo":     novo.Grupo,
		"setor":     novo.Setor,
	}
	if len(novo.Precos) > 0 {
		campos["precos"] = novo.Precos
	}
	if novo.Dimensoes != nil {
		campos["dimensoes"] = novo.Dimensoes
	}
	return campos
}
