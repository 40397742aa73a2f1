// Package inventory contém as regras de cálculo de saldo e custo do estoque.
package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
)

// Sign devolve o peso do tipo no saldo: +1 para Entrada e Ajuste(+), -1 para Saída e Ajuste(-).
// Tipos desconhecidos valem 0 e não afetam a soma.
func Sign(movementType string) int {
	switch movementType {
	case entity.MovementEntrada, entity.MovementAjusteMais:
		return 1
	case entity.MovementSaida, entity.MovementAjusteMenos:
		return -1
	default:
		return 0
	}
}

// SignedQuantity devolve a quantidade da movimentação já com sinal.
func SignedQuantity(m *entity.Movement) decimal.Decimal {
	return m.Quantity.Mul(decimal.NewFromInt(int64(Sign(m.Type))))
}

type accumulator struct {
	balance entity.Balance
	cost    CostAccumulator
}

// CalculateBalances agrega o razão por código.
// Todo produto do catálogo aparece (saldo zero se não houver movimentações); códigos do razão
// ausentes do catálogo aparecem marcados como Orphan, com a descrição copiada da movimentação.
// O resultado é ordenado por código.
func CalculateBalances(products []*entity.Product, movements []*entity.Movement) []entity.Balance {
	byCode := make(map[string]*accumulator, len(products))

	for _, p := range products {
		if p == nil {
			continue
		}
		byCode[p.Code] = &accumulator{balance: entity.Balance{
			Code:        p.Code,
			Description: p.Description,
			Unit:        p.Unit,
			Category:    p.Category,
		}}
	}

	for _, m := range movements {
		if m == nil {
			continue
		}
		acc, ok := byCode[m.Code]
		if !ok {
			acc = &accumulator{balance: entity.Balance{
				Code:        m.Code,
				Description: m.Description,
				Orphan:      true,
			}}
			byCode[m.Code] = acc
		}
		apply(acc, m)
	}

	out := make([]entity.Balance, 0, len(byCode))
	for _, acc := range byCode {
		b := acc.balance
		b.AverageCost = acc.cost.Average()
		b.TotalValue = b.Quantity.Mul(b.AverageCost)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func apply(acc *accumulator, m *entity.Movement) {
	acc.balance = ApplyMovement(acc.balance, m)
	if m.Type == entity.MovementEntrada {
		acc.cost.Add(m.Quantity, m.UnitCost)
	}
}

// ApplyMovement devolve b atualizado por uma movimentação: saldo, totais e última data.
// O custo médio não muda aqui; só CalculateBalances o recalcula, a partir das Entradas.
func ApplyMovement(b entity.Balance, m *entity.Movement) entity.Balance {
	switch Sign(m.Type) {
	case 1:
		b.TotalIn = b.TotalIn.Add(m.Quantity)
	case -1:
		b.TotalOut = b.TotalOut.Add(m.Quantity)
	default:
		return b
	}
	b.Quantity = b.Quantity.Add(SignedQuantity(m))
	b.TotalValue = b.Quantity.Mul(b.AverageCost)
	if b.LastMovement == nil || m.Date.After(*b.LastMovement) {
		d := m.Date
		b.LastMovement = &d
	}
	return b
}

// BalanceOf devolve o saldo de um único código.
func BalanceOf(code string, movements []*entity.Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		if m != nil && m.Code == code {
			total = total.Add(SignedQuantity(m))
		}
	}
	return total
}

// Totals resume a lista de saldos para o painel.
type Totals struct {
	Items      int
	LowStock   int
	TotalValue decimal.Decimal
}

// Summarize conta itens, itens com saldo abaixo de threshold e o valor total em estoque.
func Summarize(balances []entity.Balance, threshold decimal.Decimal) Totals {
	t := Totals{Items: len(balances), TotalValue: decimal.Zero}
	for _, b := range balances {
		if b.Quantity.LessThan(threshold) {
			t.LowStock++
		}
		t.TotalValue = t.TotalValue.Add(b.TotalValue)
	}
	return t
}
