package report

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	appinv "github.com/amancio-obras/estoque-obras/internal/application/inventory"
	"github.com/amancio-obras/estoque-obras/internal/domain"
	"github.com/amancio-obras/estoque-obras/internal/domain/inventory"
	"github.com/amancio-obras/estoque-obras/pkg/logger"
)

// ReportUseCase monta as exportações a partir do LedgerUseCase.
type ReportUseCase struct {
	ledger  *appinv.LedgerUseCase
	pdf     BalancePDFGenerator
	xml     BalanceXMLEncoder
	storage ObjectStorage
	company string
	prefix  string
	log     *logger.Logger
	now     func() time.Time
}

// Config dependências opcionais das exportações. Geradores nil desativam o formato.
type Config struct {
	PDF           BalancePDFGenerator
	XML           BalanceXMLEncoder
	Storage       ObjectStorage
	Company       string
	StoragePrefix string
	Logger        *logger.Logger
}

// NewReportUseCase constrói o caso de uso.
func NewReportUseCase(ledger *appinv.LedgerUseCase, cfg Config) *ReportUseCase {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	company := cfg.Company
	if company == "" {
		company = "Amâncio Obras"
	}
	return &ReportUseCase{
		ledger:  ledger,
		pdf:     cfg.PDF,
		xml:     cfg.XML,
		storage: cfg.Storage,
		company: company,
		prefix:  cfg.StoragePrefix,
		log:     log,
		now:     time.Now,
	}
}

// BalanceReport monta a posição de estoque atual.
func (uc *ReportUseCase) BalanceReport(ctx context.Context) (*BalanceReport, error) {
	balances, err := uc.ledger.CalculateBalances(ctx)
	if err != nil {
		return nil, err
	}
	totals := inventory.Summarize(balances, uc.ledger.LowThreshold())
	items := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		items = append(items, uc.ledger.ToBalanceResponse(b))
	}
	return &BalanceReport{
		Company:      uc.company,
		GeneratedAt:  uc.now(),
		Items:        items,
		TotalValue:   totals.TotalValue.Round(2),
		LowStock:     totals.LowStock,
		LowThreshold: uc.ledger.LowThreshold(),
	}, nil
}

// BalancesCSV exporta a tabela de saldo em CSV.
func (uc *ReportUseCase) BalancesCSV(ctx context.Context) ([]byte, error) {
	rep, err := uc.BalanceReport(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteBalancesCSV(&buf, rep.Items); err != nil {
		return nil, fmt.Errorf("csv saldos: %w", err)
	}
	return buf.Bytes(), nil
}

// MovementsCSV exporta o histórico filtrado (sem paginação) em CSV.
func (uc *ReportUseCase) MovementsCSV(ctx context.Context, filter dto.MovementFilterRequest) ([]byte, error) {
	movements, err := uc.ledger.AllMovements(ctx, filter)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteMovementsCSV(&buf, movements); err != nil {
		return nil, fmt.Errorf("csv histórico: %w", err)
	}
	return buf.Bytes(), nil
}

// BalancesPDF exporta a posição de estoque em PDF.
func (uc *ReportUseCase) BalancesPDF(ctx context.Context) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("%w: gerador de PDF não configurado", domain.ErrUnavailable)
	}
	rep, err := uc.BalanceReport(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateBalancePDF(ctx, rep)
}

// BalancesXML exporta a posição de estoque em XML.
func (uc *ReportUseCase) BalancesXML(ctx context.Context) ([]byte, error) {
	if uc.xml == nil {
		return nil, fmt.Errorf("%w: exportação XML não configurada", domain.ErrUnavailable)
	}
	rep, err := uc.BalanceReport(ctx)
	if err != nil {
		return nil, err
	}
	return uc.xml.EncodeBalances(rep)
}

type snapshotFile struct {
	name, contentType string
	body              []byte
}

// Snapshot envia histórico (CSV) e posição de estoque (CSV e PDF) ao armazenamento de objetos.
// Devolve as URIs gravadas.
func (uc *ReportUseCase) Snapshot(ctx context.Context) ([]string, error) {
	if uc.storage == nil {
		return nil, fmt.Errorf("%w: armazenamento não configurado", domain.ErrUnavailable)
	}
	stamp := uc.now().UTC().Format("20060102-150405")
	dir := path.Join(uc.prefix, stamp)

	history, err := uc.MovementsCSV(ctx, dto.MovementFilterRequest{})
	if err != nil {
		return nil, err
	}
	balances, err := uc.BalancesCSV(ctx)
	if err != nil {
		return nil, err
	}
	files := []snapshotFile{
		{"historico.csv", "text/csv; charset=utf-8", history},
		{"saldo.csv", "text/csv; charset=utf-8", balances},
	}
	if uc.pdf != nil {
		pdf, err := uc.BalancesPDF(ctx)
		if err != nil {
			return nil, err
		}
		files = append(files, snapshotFile{"saldo.pdf", "application/pdf", pdf})
	}

	uris := make([]string, 0, len(files))
	for _, f := range files {
		uri, err := uc.storage.Put(ctx, path.Join(dir, f.name), f.contentType, f.body)
		if err != nil {
			return uris, fmt.Errorf("snapshot %s: %w", f.name, err)
		}
		uris = append(uris, uri)
	}
	uc.log.Info().Strs("arquivos", uris).Msg("snapshot enviado")
	return uris, nil
}
