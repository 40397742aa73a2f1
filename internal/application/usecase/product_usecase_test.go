package usecase_test

import (
	"context"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	"github.com/amancio-obras/estoque-obras/internal/application/ports"
	"github.com/amancio-obras/estoque-obras/internal/application/usecase"
	"github.com/amancio-obras/estoque-obras/internal/domain"
	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
	"github.com/amancio-obras/estoque-obras/internal/domain/repository"
)

type memProductRepo struct {
	repository.ProductRepository
	items map[string]*entity.Product
}

func newRepo(codes ...string) *memProductRepo {
	r := &memProductRepo{items: map[string]*entity.Product{}}
	for _, c := range codes {
		r.items[c] = &entity.Product{Code: c, Description: "existente " + c}
	}
	return r
}

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.items[p.Code]; ok {
		return domain.ErrDuplicate
	}
	r.items[p.Code] = p
	return nil
}

func (r *memProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	return r.items[code], nil
}

func (r *memProductRepo) List(context.Context) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *memProductRepo) ExistingCodes(_ context.Context, codes []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, c := range codes {
		if _, ok := r.items[c]; ok {
			out[c] = true
		}
	}
	return out, nil
}

// sheetReader devolve sempre a mesma planilha.
type sheetReader struct{ sheet *ports.Sheet }

func (s sheetReader) Read(string, io.Reader) (*ports.Sheet, error) { return s.sheet, nil }

func maisControle() *ports.Sheet {
	return &ports.Sheet{
		Headers: []string{"Cód. Insumo", "Descrição", "Un", "Grupo"},
		Rows: [][]string{
			{"CIM-01", "Cimento CP-II 50kg", "sc", "Cimentos"},
			{"AREIA", "Areia média lavada", "m3", "Agregados"},
			{"CIM-01", "Cimento repetido", "sc", "Cimentos"},
			{"", "sem código", "un", ""},
			{"TIJ-9", "", "un", ""},
			{"ACO-10", "Vergalhão CA-50 10mm", "br"},
			{"BRITA", "Brita 1", "m3", "Agregados"},
		},
	}
}

func TestCreate(t *testing.T) {
	repo := newRepo("CIM-01")
	uc := usecase.NewProductUseCase(repo, nil, nil, nil)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateProductRequest{Code: " AREIA ", Description: " Areia média ", Unit: "m3"})
	require.NoError(t, err)
	assert.Equal(t, "AREIA", out.Code)
	assert.Equal(t, "Areia média", out.Description)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "CIM-01", Description: "outro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "X", Description: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetByCode_NaoEncontrado(t *testing.T) {
	uc := usecase.NewProductUseCase(newRepo(), nil, nil, nil)
	_, err := uc.GetByCode(context.Background(), "NADA")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreview(t *testing.T) {
	uc := usecase.NewProductUseCase(newRepo(), sheetReader{maisControle()}, nil, nil)

	out, err := uc.Preview("mais_controle.xlsx", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, []string{"Cód. Insumo", "Descrição", "Un", "Grupo"}, out.Headers)
	assert.Len(t, out.Sample, 3)
	assert.Equal(t, 7, out.Rows)
}

func TestImport_MapeamentoExplicito(t *testing.T) {
	repo := newRepo("BRITA")
	uc := usecase.NewProductUseCase(repo, sheetReader{maisControle()}, nil, nil)

	res, err := uc.Import(context.Background(), "mais_controle.xlsx", strings.NewReader(""), dto.ImportMapping{
		CodeColumn:        "Cód. Insumo",
		DescriptionColumn: "Descrição",
		UnitColumn:        "Un",
		CategoryColumn:    "Grupo",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Imported, "CIM-01, AREIA, ACO-10")
	assert.Equal(t, 4, res.Skipped, "repetido, sem código, sem descrição, já cadastrado")
	assert.Empty(t, res.Errors)

	assert.Equal(t, "Cimento CP-II 50kg", repo.items["CIM-01"].Description, "vale a primeira ocorrência")
	assert.Equal(t, "Agregados", repo.items["AREIA"].Category)
	assert.Equal(t, "", repo.items["ACO-10"].Category, "linha curta")
	assert.Equal(t, "existente BRITA", repo.items["BRITA"].Description)
}

func TestImport_MapeamentoPadraoIgnoraAcentos(t *testing.T) {
	sheet := &ports.Sheet{
		Headers: []string{" Código ", "DESCRIÇÃO"},
		Rows:    [][]string{{"CAL", "Cal hidratada"}},
	}
	repo := newRepo()
	uc := usecase.NewProductUseCase(repo, sheetReader{sheet}, nil, nil)

	res, err := uc.Import(context.Background(), "p.csv", strings.NewReader(""), dto.ImportMapping{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Contains(t, repo.items, "CAL")
}

func TestImport_ColunaInexistente(t *testing.T) {
	uc := usecase.NewProductUseCase(newRepo(), sheetReader{maisControle()}, nil, nil)

	_, err := uc.Import(context.Background(), "p.xlsx", strings.NewReader(""), dto.ImportMapping{CodeColumn: "SKU"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
