// Package xmlexport serializa a posição de estoque em XML para integração com ERP.
package xmlexport

import (
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/amancio-obras/estoque-obras/internal/application/report"
)

var _ report.BalanceXMLEncoder = (*Encoder)(nil)

// Encoder implementa report.BalanceXMLEncoder com etree.
type Encoder struct{}

// NewEncoder constrói o encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// EncodeBalances gera:
//
//	<posicaoEstoque empresa="…" geradoEm="…">
//	  <resumo itens="…" saldoBaixo="…" limiteSaldoBaixo="…" valorTotal="…"/>
//	  <item codigo="…" semCadastro="false" saldoBaixo="false">
//	    <descricao>…</descricao> <unidade/> <categoria/> <saldo/> <custoMedio/> <valorTotal/>
//	    <totalEntradas/> <totalSaidas/> <ultimaMovimentacao/>
//	  </item>
//	</posicaoEstoque>
func (e *Encoder) EncodeBalances(rep *report.BalanceReport) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("posicaoEstoque")
	root.CreateAttr("empresa", rep.Company)
	root.CreateAttr("geradoEm", rep.GeneratedAt.Format(time.RFC3339))

	resumo := root.CreateElement("resumo")
	resumo.CreateAttr("itens", strconv.Itoa(len(rep.Items)))
	resumo.CreateAttr("saldoBaixo", strconv.Itoa(rep.LowStock))
	resumo.CreateAttr("limiteSaldoBaixo", rep.LowThreshold.String())
	resumo.CreateAttr("valorTotal", rep.TotalValue.StringFixed(2))

	for _, b := range rep.Items {
		item := root.CreateElement("item")
		item.CreateAttr("codigo", b.Code)
		item.CreateAttr("semCadastro", strconv.FormatBool(b.Orphan))
		item.CreateAttr("saldoBaixo", strconv.FormatBool(b.Low))
		item.CreateElement("descricao").SetText(b.Description)
		item.CreateElement("unidade").SetText(b.Unit)
		item.CreateElement("categoria").SetText(b.Category)
		item.CreateElement("saldo").SetText(b.Quantity.String())
		item.CreateElement("custoMedio").SetText(b.AverageCost.StringFixed(4))
		item.CreateElement("valorTotal").SetText(b.TotalValue.StringFixed(2))
		item.CreateElement("totalEntradas").SetText(b.TotalIn.String())
		item.CreateElement("totalSaidas").SetText(b.TotalOut.String())
		if b.LastMovement != "" {
			item.CreateElement("ultimaMovimentacao").SetText(b.LastMovement)
		}
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}
