package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto is one catalog row. SKU is normalized (uppercase alphanumeric) but NOT
// unique: the legacy base carries duplicate rows for the same SKU and every
// ingestion write must touch all of them.
type Produto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU       string    `gorm:"index;not null"`
	Descricao string
	Linha     string
	// Grupo is the category, taken from the source sheet name ("Tabela - " prefix stripped).
	Grupo     string `gorm:"index"`
	Setor     string
	Precos    MatrizPrecos `gorm:"type:jsonb"`
	Dimensoes *Dimensoes   `gorm:"type:jsonb"`
	ImagemURL string
	Imagens   ListaImagens `gorm:"type:jsonb"`
	Estoque   int          `gorm:"not null;default:0"`
	// Preco is the flat legacy price, used only when the product has no price matrix.
	Preco     decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Produto) TableName() string { return "produtos" }

// PrecoRota holds the two freight-basis tariffs for one origin/destination pair.
type PrecoRota struct {
	FOB decimal.Decimal `json:"fob"`
	CIF decimal.Decimal `json:"cif"`
}

// MatrizPrecos is prices[origem][uf] → tariffs, persisted as a single JSONB column.
type MatrizPrecos map[string]map[string]PrecoRota

func (m MatrizPrecos) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *MatrizPrecos) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		s, ok := src.(string)
		if !ok {
			return errors.New("matriz_precos: tipo de coluna inesperado")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, m)
}

// Rota returns the tariff pair for an (origem, uf) route, or false when the
// matrix has no entry for it. Keys are stored uppercased by the ingestion.
func (m MatrizPrecos) Rota(origem, uf string) (PrecoRota, bool) {
	destinos, ok := m[origem]
	if !ok {
		return PrecoRota{}, false
	}
	rota, ok := destinos[uf]
	return rota, ok
}

// Dimensoes carries the physical/logistics attributes from the ZPPQ001 sheet.
// Absent numeric columns default to 0 and absent textual columns to "-".
type Dimensoes struct {
	Comprimento   float64 `json:"comprimento"`
	Largura       float64 `json:"largura"`
	Altura        float64 `json:"altura"`
	PesoBruto     float64 `json:"peso_bruto"`
	PesoLiquido   float64 `json:"peso_liquido"`
	Volume        float64 `json:"volume"`
	KG3           string  `json:"kg3"`
	StatusLinha   string  `json:"status_linha"`
	StatusSKU     string  `json:"status_sku"`
	Classificacao string  `json:"classificacao"`
	Hierarquia    string  `json:"hierarquia"`
	TipoMaterial  string  `json:"tipo_material"`
}

func (d *Dimensoes) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *Dimensoes) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		s, ok := src.(string)
		if !ok {
			return errors.New("dimensoes: tipo de coluna inesperado")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, d)
}

// Image categories used by the presentation layer.
const (
	ImagemProdutoFundo = "produto-fundo"
	ImagemAmbiente     = "ambiente"
	ImagemDiferencial  = "diferencial"
)

// ImagemCategorizada is one entry of the ordered image list of a product.
type ImagemCategorizada struct {
	URL  string `json:"url"`
	Tipo string `json:"tipo"`
}

type ListaImagens []ImagemCategorizada

func (l ListaImagens) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *ListaImagens) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		s, ok := src.(string)
		if !ok {
			return errors.New("lista_imagens: tipo de coluna inesperado")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, l)
}
