// Package report gera as exportações da tabela de saldo e do histórico (CSV, PDF, XML)
// e o snapshot enviado ao armazenamento de objetos.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
)

// BalanceReport dados da posição de estoque entregues aos geradores.
type BalanceReport struct {
	Company      string
	GeneratedAt  time.Time
	Items        []dto.BalanceResponse
	TotalValue   decimal.Decimal
	LowStock     int
	LowThreshold decimal.Decimal
}

// BalancePDFGenerator porto de saída para o PDF da posição de estoque.
type BalancePDFGenerator interface {
	GenerateBalancePDF(ctx context.Context, report *BalanceReport) ([]byte, error)
}

// BalanceXMLEncoder porto de saída para o XML de integração com ERP.
type BalanceXMLEncoder interface {
	EncodeBalances(report *BalanceReport) ([]byte, error)
}

// ObjectStorage porto de saída para armazenamento de arquivos (S3).
// Put devolve a URI do objeto gravado.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}
