// Package pdf gera o relatório de posição de estoque em PDF.
//
// Layout da página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  CABEÇALHO: Empresa                │  Posição de estoque + data │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMO: itens / saldo baixo / valor total                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Código | Descrição | Un | Saldo | Custo médio | Valor │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RODAPÉ: legenda de saldo baixo                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	"github.com/amancio-obras/estoque-obras/internal/application/report"
)

// ── Paleta ────────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorAccent  = &props.Color{Red: 230, Green: 126, Blue: 34}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLow     = &props.Color{Red: 192, Green: 57, Blue: 43}
)

var _ report.BalancePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.BalancePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator constrói o gerador com números no formato pt-BR.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.BrazilianPortuguese)}
}

// GenerateBalancePDF gera o PDF e devolve seus bytes.
func (g *MarotoPDFGenerator) GenerateBalancePDF(_ context.Context, rep *report.BalanceReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Posição de Estoque", true).
		WithAuthor(rep.Company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorAccent, Thickness: 0.6}))
	m.AddRows(g.summaryRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.tableRows(rep.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.footerRow(rep))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Seções ────────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(rep *report.BalanceReport) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(rep.Company, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Controle de estoque de materiais", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("POSIÇÃO DE ESTOQUE", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorAccent, Top: 1,
			}),
			text.New("Gerado em "+rep.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoPDFGenerator) summaryRow(rep *report.BalanceReport) core.Row {
	metric := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Top: 5, Align: align.Center}),
		)
	}
	return row.New(14).Add(
		metric("Itens", g.printer.Sprintf("%d", len(rep.Items))),
		metric("Saldo abaixo de "+g.quantity(rep.LowThreshold), g.printer.Sprintf("%d", rep.LowStock)),
		metric("Valor total em estoque", "R$ "+g.money(rep.TotalValue)),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Descrição", 4, align.Left),
		h("Un", 1, align.Center),
		h("Saldo", 1, align.Right),
		h("Custo médio", 2, align.Right),
		h("Valor", 2, align.Right),
	)
}

func (g *MarotoPDFGenerator) tableRows(items []dto.BalanceResponse) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, b := range items {
		style := props.Text{Size: 8, Top: 1}
		if b.Low {
			style.Color = colorLow
		}
		cell := func(s string, a align.Type) core.Component {
			p := style
			p.Align = a
			p.Left, p.Right = 1, 1
			return text.New(s, p)
		}
		out = append(out, row.New(6).Add(
			col.New(2).Add(cell(b.Code, align.Left)),
			col.New(4).Add(cell(b.Description, align.Left)),
			col.New(1).Add(cell(b.Unit, align.Center)),
			col.New(1).Add(cell(g.quantity(b.Quantity), align.Right)),
			col.New(2).Add(cell(g.money(b.AverageCost), align.Right)),
			col.New(2).Add(cell(g.money(b.TotalValue), align.Right)),
		))
	}
	return out
}

func (g *MarotoPDFGenerator) footerRow(rep *report.BalanceReport) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Itens em vermelho estão com saldo abaixo de "+g.quantity(rep.LowThreshold)+
				". Custo médio calculado apenas sobre as entradas.",
			props.Text{Size: 7, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formata com duas casas e separadores pt-BR: 1234.5 → "1.234,50".
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// quantity formata até três casas decimais sem zeros à direita.
func (g *MarotoPDFGenerator) quantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return g.printer.Sprintf("%d", d.IntPart())
	}
	return g.printer.Sprintf("%.3f", d.Round(3).InexactFloat64())
}
