package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance é o saldo calculado de um código a partir do razão de movimentações.
type Balance struct {
	Code         string
	Description  string
	Unit         string
	Category     string
	Quantity     decimal.Decimal // soma ponderada pelo sinal do tipo
	AverageCost  decimal.Decimal // custo médio ponderado das Entradas
	TotalValue   decimal.Decimal // Quantity * AverageCost
	TotalIn      decimal.Decimal // soma das quantidades que somam ao saldo
	TotalOut     decimal.Decimal // soma das quantidades que subtraem do saldo
	LastMovement *time.Time
	Orphan       bool // código presente no razão mas ausente do catálogo
}
