package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimentação de estoque, gravados literalmente na coluna tipo.
const (
	MovementEntrada     = "Entrada"
	MovementSaida       = "Saída"
	MovementAjusteMais  = "Ajuste(+)"
	MovementAjusteMenos = "Ajuste(-)"
)

// MovementTypes lista os tipos aceitos, na ordem exibida ao usuário.
var MovementTypes = []string{MovementEntrada, MovementSaida, MovementAjusteMais, MovementAjusteMenos}

// IsValidMovementType indica se t é um dos tipos aceitos.
func IsValidMovementType(t string) bool {
	for _, mt := range MovementTypes {
		if mt == t {
			return true
		}
	}
	return false
}

// Movement é uma linha do razão de movimentações (tabela movimentacoes).
// Quantity é sempre positiva; o sinal vem de Type.
type Movement struct {
	ID          int64
	Type        string
	Date        time.Time
	Site        string // obra / frente de trabalho
	Code        string // referência a Product.Code
	Description string // cópia da descrição do produto no momento do registro
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
	Reference   string
	SC          string // solicitação de compra
	Mapa        string // mapa de cotação
	OC          string // ordem de compra
	CreatedAt   time.Time
}

// IsOutgoing indica se a movimentação reduz o saldo.
func (m *Movement) IsOutgoing() bool {
	return m.Type == MovementSaida || m.Type == MovementAjusteMenos
}
