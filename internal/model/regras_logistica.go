package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// RegrasLogistica is the logistics discount table: a single row holding the whole
// flat mapping (chave composta → fração de desconto). Ingestion overwrites it
// wholesale; the pricing engine reads it through the in-memory cache.
type RegrasLogistica struct {
	ID        int        `gorm:"primaryKey"`
	Regras    MapaRegras `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (RegrasLogistica) TableName() string { return "regras_logistica" }

// RegrasLogisticaID is the fixed primary key of the single row.
const RegrasLogisticaID = 1

// MapaRegras maps the composite route/sector/cargo key to a discount fraction in [0,1).
type MapaRegras map[string]decimal.Decimal

func (m MapaRegras) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(MapaRegras{})
	}
	return json.Marshal(m)
}

func (m *MapaRegras) Scan(src interface{}) error {
	if src == nil {
		*m = MapaRegras{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		s, ok := src.(string)
		if !ok {
			return errors.New("mapa_regras: tipo de coluna inesperado")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, m)
}
