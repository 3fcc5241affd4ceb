package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/model"
)

// RegrasLogisticaRepository is the logistics-rule store port: the whole flat
// mapping is read and written wholesale as one record.
type RegrasLogisticaRepository interface {
	Obter(ctx context.Context) (model.MapaRegras, error)
	Salvar(ctx context.Context, regras model.MapaRegras) error
}

type regrasRepo struct{ db *gorm.DB }

func NewRegrasLogisticaRepository(db *gorm.DB) RegrasLogisticaRepository {
	return &regrasRepo{db: db}
}

func (r *regrasRepo) Obter(ctx context.Context) (model.MapaRegras, error) {
	var registro model.RegrasLogistica
	err := r.db.WithContext(ctx).First(&registro, model.RegrasLogisticaID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.MapaRegras{}, nil
	}
	if err != nil {
		return nil, err
	}
	return registro.Regras, nil
}

func (r *regrasRepo) Salvar(ctx context.Context, regras model.MapaRegras) error {
	registro := model.RegrasLogistica{ID: model.RegrasLogisticaID, Regras: regras}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&registro).Error
}
