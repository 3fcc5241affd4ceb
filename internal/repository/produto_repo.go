package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/dto"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/model"
)

// ProdutoRepository is the catalog store port. The ingestion and image
// pipelines depend on this interface, not on the GORM implementation, so tests
// run against in-memory stubs.
type ProdutoRepository interface {
	ListarTodos(ctx context.Context) ([]model.Produto, error)
	Listar(ctx context.Context, filtro dto.ProdutoFilter) ([]model.Produto, int64, error)
	BuscarPorSKU(ctx context.Context, sku string) ([]model.Produto, error)

	// NovoLote opens a bounded write batch. Queued operations only reach the
	// store on Commit, which runs them inside one transaction.
	NovoLote() Lote
}

// Lote is the batched-write primitive of the catalog store. One batch commits
// atomically; the pipelines own batch sizing and inter-batch pacing.
type Lote interface {
	Inserir(p *model.Produto)
	// AtualizarCampos merge-writes the given columns into one existing row;
	// columns not named keep their current values.
	AtualizarCampos(id uuid.UUID, campos map[string]interface{})
	Tamanho() int
	Commit(ctx context.Context) error
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) ListarTodos(ctx context.Context) ([]model.Produto, error) {
	var produtos []model.Produto
	err := r.db.WithContext(ctx).Find(&produtos).Error
	return produtos, err
}

func (r *produtoRepo) Listar(ctx context.Context, filtro dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var produtos []model.Produto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Produto{})
	if filtro.Grupo != "" {
		q = q.Where("grupo = ?", filtro.Grupo)
	}
	if filtro.Setor != "" {
		q = q.Where("setor = ?", filtro.Setor)
	}
	if filtro.Busca != "" {
		q = q.Where("descricao ILIKE ? OR sku ILIKE ?", "%"+filtro.Busca+"%", "%"+filtro.Busca+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filtro.Page - 1) * filtro.Limit
	err := q.Order("descricao ASC").Limit(filtro.Limit).Offset(offset).Find(&produtos).Error
	return produtos, total, err
}

func (r *produtoRepo) BuscarPorSKU(ctx context.Context, sku string) ([]model.Produto, error) {
	var produtos []model.Produto
	err := r.db.WithContext(ctx).Where("sku = ?", sku).Find(&produtos).Error
	return produtos, err
}

func (r *produtoRepo) NovoLote() Lote { return &loteGorm{db: r.db} }

// loteGorm queues operations as closures and replays them inside a single
// transaction on Commit. After Commit the batch is empty and reusable.
type loteGorm struct {
	db  *gorm.DB
	ops []func(tx *gorm.DB) error
}

func (l *loteGorm) Inserir(p *model.Produto) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	novo := *p
	l.ops = append(l.ops, func(tx *gorm.DB) error {
		return tx.Create(&novo).Error
	})
}

func (l *loteGorm) AtualizarCampos(id uuid.UUID, campos map[string]interface{}) {
	copia := make(map[string]interface{}, len(campos)+1)
	for k, v := range campos {
		copia[k] = v
	}
	copia["updated_at"] = time.Now()
	l.ops = append(l.ops, func(tx *gorm.DB) error {
		return tx.Model(&model.Produto{}).Where("id = ?", id).Updates(copia).Error
	})
}

func (l *loteGorm) Tamanho() int { return len(l.ops) }

func (l *loteGorm) Commit(ctx context.Context) error {
	if len(l.ops) == 0 {
		return nil
	}
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range l.ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	l.ops = l.ops[:0]
	return nil
}
