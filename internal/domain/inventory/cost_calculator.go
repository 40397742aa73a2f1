package inventory

import "github.com/shopspring/decimal"

// CostAccumulator acumula o custo médio ponderado das Entradas de um código.
// CustoMédio = Σ(qtd * custo) / Σ(qtd), considerando somente linhas do tipo Entrada.
type CostAccumulator struct {
	qty   decimal.Decimal
	value decimal.Decimal
}

// Add registra uma Entrada. Custo ausente conta como zero.
func (a *CostAccumulator) Add(qty decimal.Decimal, unitCost *decimal.Decimal) {
	cost := decimal.Zero
	if unitCost != nil {
		cost = *unitCost
	}
	a.qty = a.qty.Add(qty)
	a.value = a.value.Add(qty.Mul(cost))
}

// Average devolve o custo médio; zero quando não há Entradas.
func (a *CostAccumulator) Average() decimal.Decimal {
	if a.qty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return a.value.Div(a.qty)
}
