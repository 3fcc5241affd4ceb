package ingestao

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/dto"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/model"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/pricing"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/repository"
)

// ── In-memory stubs for the store ports ──────────────────────────────────────

type stubProdutoRepo struct {
	produtos   map[uuid.UUID]*model.Produto
	erroLote   error
	commits    int
	aoCommitar func()
}

func newStubProdutoRepo() *stubProdutoRepo {
	return &stubProdutoRepo{produtos: make(map[uuid.UUID]*model.Produto)}
}

func (r *stubProdutoRepo) adicionar(p model.Produto) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.produtos[p.ID] = &p
	return p.ID
}

func (r *stubProdutoRepo) ListarTodos(_ context.Context) ([]model.Produto, error) {
	var todos []model.Produto
	for _, p := range r.produtos {
		todos = append(todos, *p)
	}
	return todos, nil
}

func (r *stubProdutoRepo) Listar(_ context.Context, _ dto.ProdutoFilter) ([]model.Produto, int64, error) {
	todos, _ := r.ListarTodos(context.Background())
	return todos, int64(len(todos)), nil
}

func (r *stubProdutoRepo) BuscarPorSKU(_ context.Context, sku string) ([]model.Produto, error) {
	var achados []model.Produto
	for _, p := range r.produtos {
		if p.SKU == sku {
			achados = append(achados, *p)
		}
	}
	return achados, nil
}

func (r *stubProdutoRepo) NovoLote() repository.Lote { return &stubLote{repo: r} }

type stubLote struct {
	repo *stubProdutoRepo
	ops  []func()
}

func (l *stubLote) Inserir(p *model.Produto) {
	copia := *p
	l.ops = append(l.ops, func() { l.repo.adicionar(copia) })
}

func (l *stubLote) AtualizarCampos(id uuid.UUID, campos map[string]interface{}) {
	copia := make(map[string]interface{}, len(campos))
	for k, v := range campos {
		copia[k] = v
	}
	l.ops = append(l.ops, func() {
		p, ok := l.repo.produtos[id]
		if !ok {
			return
		}
		for campo, valor := range copia {
			switch campo {
			case "descricao":
				p.Descricao = valor.(string)
			case "linha":
				p.Linha = valor.(string)
			case "grupo":
				p.Grupo = valor.(string)
			case "setor":
				p.Setor = valor.(string)
			case "precos":
				p.Precos = valor.(model.MatrizPrecos)
			case "dimensoes":
				p.Dimensoes = valor.(*model.Dimensoes)
			case "imagem_url":
				p.ImagemURL = valor.(string)
			}
		}
	})
}

func (l *stubLote) Tamanho() int { return len(l.ops) }

func (l *stubLote) Commit(ctx context.Context) error {
	if l.repo.aoCommitar != nil {
		l.repo.aoCommitar()
	}
	if l.repo.erroLote != nil {
		return l.repo.erroLote
	}
	// Como um driver real, o commit respeita o contexto que recebe.
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, op := range l.ops {
		op()
	}
	l.repo.commits++
	l.ops = l.ops[:0]
	return nil
}

type stubRegrasRepo struct {
	salvas model.MapaRegras
}

func (r *stubRegrasRepo) Obter(_ context.Context) (model.MapaRegras, error) {
	if r.salvas == nil {
		return model.MapaRegras{}, nil
	}
	return r.salvas, nil
}

func (r *stubRegrasRepo) Salvar(_ context.Context, regras model.MapaRegras) error {
	r.salvas = regras
	return nil
}

// ── Pipeline ─────────────────────────────────────────────────────────────────

func opcoesRapidas() Opcoes {
	return Opcoes{LoteMaxOps: 400, PausaEntreLotes: time.Millisecond}
}

func workbookCompleto() *Workbook {
	return workbookDe(map[string][][]string{
		"Parâmetros": {
			{"CONCATENAR", "Desconto"},
			{"UBAMGOUTROSTRUCK", "2%"},
		},
		"ZPPQ001": {
			{"Material", "Comprimento", "Largura", "Altura", "Peso Bruto", "Peso Líquido", "Volume", "KG3"},
			{"12345", "1,1", "0,5", "0,9", "30", "28", "0,5", "LEVE"},
		},
		"BD_Preço": {
			{"#SKU", "Expedição", "Destino", "FOB", "CIF"},
			{"12345", "UBÁ", "MG", "100", "120"},
		},
		"Tabela - ELETRO": {
			{"MATERIAL", "DESCRIÇÃO", "LINHA", "SETOR"},
			{"12345", "Fogão", "LinhaX", "OUTROS"},
		},
	}, "Parâmetros", "ZPPQ001", "BD_Preço", "Tabela - ELETRO")
}

func TestPipelinePontaAPonta(t *testing.T) {
	produtos := newStubProdutoRepo()
	regras := &stubRegrasRepo{}
	tabela := pricing.NovaTabelaLogistica()

	pipeline := NovoPipeline(produtos, regras, tabela, opcoesRapidas())
	rel, err := pipeline.Executar(context.Background(), workbookCompleto())

	require.NoError(t, err)
	assert.Equal(t, 1, rel.RegrasImportadas)
	assert.Equal(t, 1, rel.Criados)
	assert.False(t, rel.Vazio)

	// A tabela em memória foi trocada de forma síncrona.
	assert.True(t, tabela.Buscar("UBÁ", "MG", "OUTROS", "TRUCK").Equal(decimal.RequireFromString("0.02")))

	salvos, err := produtos.BuscarPorSKU(context.Background(), "12345")
	require.NoError(t, err)
	require.Len(t, salvos, 1)
	p := salvos[0]
	assert.Equal(t, "ELETRO", p.Grupo)
	require.NotNil(t, p.Dimensoes)
	assert.Equal(t, "LEVE", p.Dimensoes.KG3)
	rota, ok := p.Precos.Rota("UBÁ", "MG")
	require.True(t, ok)
	assert.True(t, rota.CIF.Equal(decimal.NewFromInt(120)))

	// Simulação CIF sobre o catálogo recém-ingerido: 120 × 0.98 = 117.6.
	motor := pricing.NovoMotor(tabela)
	r := motor.Calcular(&p, pricing.Contexto{
		Origem:    "UBÁ",
		UF:        "MG",
		Frete:     pricing.FreteCIF,
		TipoCarga: "Truck",
	})
	assert.True(t, r.PrecoFinal.Equal(decimal.RequireFromString("117.6")),
		"preço final = %s", r.PrecoFinal)
}

func TestPipelineAtualizaTodasAsLinhasDoMesmoSKU(t *testing.T) {
	produtos := newStubProdutoRepo()
	// Duplicata legada: duas linhas com o mesmo SKU normalizado.
	produtos.adicionar(model.Produto{SKU: "12345", Descricao: "antiga A", Estoque: 3})
	produtos.adicionar(model.Produto{SKU: "12345", Descricao: "antiga B", Estoque: 7})

	pipeline := NovoPipeline(produtos, &stubRegrasRepo{}, pricing.NovaTabelaLogistica(), opcoesRapidas())
	rel, err := pipeline.Executar(context.Background(), workbookCompleto())

	require.NoError(t, err)
	assert.Equal(t, 2, rel.Atualizados)
	assert.Equal(t, 0, rel.Criados)

	linhas, _ := produtos.BuscarPorSKU(context.Background(), "12345")
	require.Len(t, linhas, 2)
	for _, l := range linhas {
		assert.Equal(t, "Fogão", l.Descricao)
	}
	// Campos não mencionados na ingestão permanecem intactos.
	estoques := map[int]bool{linhas[0].Estoque: true, linhas[1].Estoque: true}
	assert.True(t, estoques[3] && estoques[7])
}

func TestPipelinePlanilhaVazia(t *testing.T) {
	produtos := newStubProdutoRepo()
	pipeline := NovoPipeline(produtos, &stubRegrasRepo{}, pricing.NovaTabelaLogistica(), opcoesRapidas())

	rel, err := pipeline.Executar(context.Background(), workbookDe(map[string][][]string{
		"Aba qualquer": {{"sem cabeçalho útil"}},
	}, "Aba qualquer"))

	require.NoError(t, err)
	assert.True(t, rel.Vazio)
	assert.Equal(t, 0, produtos.commits)
}

func TestPipelineLotesRespeitamLimite(t *testing.T) {
	wb := workbookDe(map[string][][]string{
		"Tabela - ELETRO": {
			{"MATERIAL", "DESCRIÇÃO"},
			{"111111", "Um"},
			{"222222", "Dois"},
			{"333333", "Três"},
		},
	}, "Tabela - ELETRO")

	produtos := newStubProdutoRepo()
	op := Opcoes{LoteMaxOps: 2, PausaEntreLotes: time.Millisecond}
	pipeline := NovoPipeline(produtos, &stubRegrasRepo{}, pricing.NovaTabelaLogistica(), op)

	var progressos []Progresso
	pipeline.op.Progresso = func(p Progresso) { progressos = append(progressos, p) }

	rel, err := pipeline.Executar(context.Background(), wb)

	require.NoError(t, err)
	assert.Equal(t, 3, rel.Criados)
	assert.Equal(t, 2, rel.LotesGravados)
	assert.Equal(t, 2, produtos.commits)
	require.NotEmpty(t, progressos)
	ultimo := progressos[len(progressos)-1]
	assert.Equal(t, 3, ultimo.Salvos)
	assert.Equal(t, 3, ultimo.Total)
}

func TestPipelineCancelamentoEntreLotes(t *testing.T) {
	wb := workbookDe(map[string][][]string{
		"Tabela - ELETRO": {
			{"MATERIAL", "DESCRIÇÃO"},
			{"111111", "Um"},
			{"222222", "Dois"},
			{"333333", "Três"},
		},
	}, "Tabela - ELETRO")

	produtos := newStubProdutoRepo()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	op := Opcoes{
		LoteMaxOps:      2,
		PausaEntreLotes: time.Millisecond,
		Progresso: func(p Progresso) {
			if p.Fase == "gravacao" {
				cancel()
			}
		},
	}

	rel, err := NovoPipeline(produtos, &stubRegrasRepo{}, pricing.NovaTabelaLogistica(), op).Executar(ctx, wb)

	require.ErrorIs(t, err, context.Canceled)
	// O primeiro lote já estava commitado quando o cancelamento foi observado;
	// nenhum lote posterior é gravado.
	assert.Equal(t, 1, rel.LotesGravados)
	assert.Equal(t, 1, produtos.commits)
	salvos, _ := produtos.ListarTodos(context.Background())
	assert.Len(t, salvos, 2)
}

func TestPipelineCommitEmAndamentoTermina(t *testing.T) {
	wb := workbookDe(map[string][][]string{
		"Tabela - ELETRO": {
			{"MATERIAL", "DESCRIÇÃO"},
			{"111111", "Um"},
			{"222222", "Dois"},
		},
	}, "Tabela - ELETRO")

	produtos := newStubProdutoRepo()
	ctx, cancel := context.WithCancel(context.Background())
	// Cancelamento chega no meio do commit: a transação em voo conclui.
	produtos.aoCommitar = cancel

	rel, err := NovoPipeline(produtos, &stubRegrasRepo{}, pricing.NovaTabelaLogistica(), opcoesRapidas()).Executar(ctx, wb)

	require.NoError(t, err)
	assert.Equal(t, 2, rel.Criados)
	assert.Equal(t, 1, produtos.commits)
	salvos, _ := produtos.ListarTodos(context.Background())
	assert.Len(t, salvos, 2)
}

func TestPipelineClassificaCotaExcedida(t *testing.T) {
	produtos := newStubProdutoRepo()
	produtos.erroLote = &pgconn.PgError{Code: "53200", Message: "out of memory"}

	pipeline := NovoPipeline(produtos, &stubRegrasRepo{}, pricing.NovaTabelaLogistica(), opcoesRapidas())
	_, err := pipeline.Executar(context.Background(), workbookCompleto())

	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrCotaExcedida)
}
