package entity

import "time"

// Product representa um insumo do catálogo (tabela produtos).
// Não é atualizado nem removido depois do cadastro; o saldo vem das movimentações.
type Product struct {
	Code        string // codigo, chave única
	Description string
	Unit        string // unidade de medida (un, m², saco, kg...), opcional
	Category    string // opcional
	CreatedAt   time.Time
}
