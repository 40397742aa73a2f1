package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	appinv "github.com/amancio-obras/estoque-obras/internal/application/inventory"
	"github.com/amancio-obras/estoque-obras/internal/application/report"
	"github.com/amancio-obras/estoque-obras/internal/domain"
	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
	"github.com/amancio-obras/estoque-obras/internal/domain/repository"
)

type products struct {
	repository.ProductRepository
	items []*entity.Product
}

func (p products) List(context.Context) ([]*entity.Product, error) { return p.items, nil }

type movements struct {
	repository.MovementRepository
	items []*entity.Movement
}

func (m movements) List(context.Context, repository.MovementFilter) ([]*entity.Movement, error) {
	return m.items, nil
}

type fakePDF struct{ got *report.BalanceReport }

func (f *fakePDF) GenerateBalancePDF(_ context.Context, r *report.BalanceReport) ([]byte, error) {
	f.got = r
	return []byte("%PDF-1.3 fake"), nil
}

type fakeStorage struct {
	keys []string
	fail bool
}

func (s *fakeStorage) Put(_ context.Context, key, _ string, _ []byte) (string, error) {
	if s.fail {
		return "", errors.New("s3 fora do ar")
	}
	s.keys = append(s.keys, key)
	return "s3://bucket/" + key, nil
}

func ledger() *appinv.LedgerUseCase {
	cost := decimal.NewFromInt(10)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := products{items: []*entity.Product{{Code: "CIM-01", Description: "Cimento, CP-II", Unit: "sc"}}}
	m := movements{items: []*entity.Movement{
		{ID: 1, Type: entity.MovementEntrada, Date: day, Code: "CIM-01", Description: "Cimento, CP-II", Quantity: decimal.NewFromInt(100), UnitCost: &cost, Site: "Obra \"Centro\""},
		{ID: 2, Type: entity.MovementSaida, Date: day.AddDate(0, 0, 1), Code: "CIM-01", Description: "Cimento, CP-II", Quantity: decimal.NewFromInt(35)},
	}}
	return appinv.NewLedgerUseCase(p, m, appinv.LedgerConfig{LowThreshold: 5})
}

func readCSV(t *testing.T, raw []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "BOM UTF-8")
	records, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestBalancesCSV(t *testing.T) {
	uc := report.NewReportUseCase(ledger(), report.Config{})

	raw, err := uc.BalancesCSV(context.Background())
	require.NoError(t, err)
	records := readCSV(t, raw)

	require.Len(t, records, 2)
	assert.Equal(t, "codigo", records[0][0])
	assert.Equal(t, []string{"CIM-01", "Cimento, CP-II", "sc", "", "65", "10.0000", "650.00", "100", "35", "2026-03-02", "nao", "nao"}, records[1])
}

func TestMovementsCSV(t *testing.T) {
	uc := report.NewReportUseCase(ledger(), report.Config{})

	raw, err := uc.MovementsCSV(context.Background(), dto.MovementFilterRequest{})
	require.NoError(t, err)
	records := readCSV(t, raw)

	require.Len(t, records, 3)
	assert.Equal(t, "Obra \"Centro\"", records[1][3], "aspas preservadas pelo RFC 4180")
	assert.Equal(t, "10", records[1][7])
	assert.Equal(t, "", records[2][7], "saída sem custo")
	assert.Equal(t, "Saída", records[2][2])
}

func TestCSV_TextoQueComecaComFormulaEhNeutralizado(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteMovementsCSV(&buf, []*entity.Movement{{
		ID:          7,
		Type:        entity.MovementSaida,
		Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Site:        "=HYPERLINK(\"http://x\",\"Obra\")",
		Code:        "+CIM",
		Description: "@SUM(A1:A9)",
		Quantity:    decimal.NewFromInt(3),
		Reference:   "-2+3",
		SC:          "\tSC-1",
		Mapa:        "MAPA 12",
	}})
	require.NoError(t, err)
	row := readCSV(t, buf.Bytes())[1]
	assert.Equal(t, "'=HYPERLINK(\"http://x\",\"Obra\")", row[3])
	assert.Equal(t, "'+CIM", row[4])
	assert.Equal(t, "'@SUM(A1:A9)", row[5])
	assert.Equal(t, "'-2+3", row[8])
	assert.Equal(t, "'\tSC-1", row[9])
	assert.Equal(t, "MAPA 12", row[10])
	assert.Equal(t, "3", row[6])

	buf.Reset()
	err = report.WriteBalancesCSV(&buf, []dto.BalanceResponse{{Code: "CIM-01", Description: "=1+1", Quantity: decimal.NewFromInt(-35)}})
	require.NoError(t, err)
	row = readCSV(t, buf.Bytes())[1]
	assert.Equal(t, "'=1+1", row[1])
	assert.Equal(t, "-35", row[4], "saldo negativo continua numérico")
}

func TestMovementsCSV_FiltroInvalido(t *testing.T) {
	uc := report.NewReportUseCase(ledger(), report.Config{})
	_, err := uc.MovementsCSV(context.Background(), dto.MovementFilterRequest{To: "amanhã"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBalancesPDF(t *testing.T) {
	pdf := &fakePDF{}
	uc := report.NewReportUseCase(ledger(), report.Config{PDF: pdf})

	out, err := uc.BalancesPDF(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
	require.NotNil(t, pdf.got)
	assert.Equal(t, "Amâncio Obras", pdf.got.Company)
	assert.True(t, pdf.got.TotalValue.Equal(decimal.NewFromInt(650)))

	_, err = report.NewReportUseCase(ledger(), report.Config{}).BalancesXML(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestSnapshot(t *testing.T) {
	store := &fakeStorage{}
	uc := report.NewReportUseCase(ledger(), report.Config{PDF: &fakePDF{}, Storage: store, StoragePrefix: "snapshots"})

	uris, err := uc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, uris, 3)
	for _, k := range store.keys {
		assert.True(t, strings.HasPrefix(k, "snapshots/"), k)
	}
	assert.True(t, strings.HasSuffix(store.keys[2], "/saldo.pdf"))

	_, err = report.NewReportUseCase(ledger(), report.Config{Storage: &fakeStorage{fail: true}}).Snapshot(context.Background())
	assert.Error(t, err)

	_, err = report.NewReportUseCase(ledger(), report.Config{}).Snapshot(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
