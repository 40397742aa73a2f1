package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
)

// utf8BOM faz o Excel abrir o arquivo como UTF-8 (acentos de "Saída", "Descrição").
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var balanceHeader = []string{
	"codigo", "descricao", "unidade", "categoria", "saldo", "custo_medio", "valor_total",
	"total_entradas", "total_saidas", "ultima_movimentacao", "saldo_baixo", "sem_cadastro",
}

var movementHeader = []string{
	"id", "data", "tipo", "obra", "codigo", "descricao", "quantidade", "custo_unitario",
	"referencia", "sc", "mapa", "oc",
}

// WriteBalancesCSV escreve a tabela de saldo em CSV (RFC 4180) com BOM.
func WriteBalancesCSV(w io.Writer, items []dto.BalanceResponse) error {
	cw, err := newWriter(w, balanceHeader)
	if err != nil {
		return err
	}
	for _, b := range items {
		if err := cw.Write([]string{
			safeCell(b.Code),
			safeCell(b.Description),
			safeCell(b.Unit),
			safeCell(b.Category),
			b.Quantity.String(),
			b.AverageCost.StringFixed(4),
			b.TotalValue.StringFixed(2),
			b.TotalIn.String(),
			b.TotalOut.String(),
			safeCell(b.LastMovement),
			yesNo(b.Low),
			yesNo(b.Orphan),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMovementsCSV escreve o histórico em CSV (RFC 4180) com BOM.
func WriteMovementsCSV(w io.Writer, movements []*entity.Movement) error {
	cw, err := newWriter(w, movementHeader)
	if err != nil {
		return err
	}
	for _, m := range movements {
		cost := ""
		if m.UnitCost != nil {
			cost = m.UnitCost.String()
		}
		if err := cw.Write([]string{
			strconv.FormatInt(m.ID, 10),
			m.Date.Format("2006-01-02"),
			m.Type,
			safeCell(m.Site),
			safeCell(m.Code),
			safeCell(m.Description),
			m.Quantity.String(),
			cost,
			safeCell(m.Reference),
			safeCell(m.SC),
			safeCell(m.Mapa),
			safeCell(m.OC),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func newWriter(w io.Writer, header []string) (*csv.Writer, error) {
	if _, err := w.Write(utf8BOM); err != nil {
		return nil, err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return nil, err
	}
	return cw, nil
}

// safeCell neutraliza texto livre que o Excel interpretaria como fórmula.
// Colunas numéricas não passam por aqui: saldo negativo continua "-35".
func safeCell(s string) string {
	if s == "" || !strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return s
	}
	return "'" + s
}

func yesNo(v bool) string {
	if v {
		return "sim"
	}
	return "nao"
}
