package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	appinv "github.com/amancio-obras/estoque-obras/internal/application/inventory"
	"github.com/amancio-obras/estoque-obras/internal/application/ports"
	"github.com/amancio-obras/estoque-obras/internal/domain"
	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
	"github.com/amancio-obras/estoque-obras/internal/domain/repository"
	"github.com/amancio-obras/estoque-obras/pkg/logger"
)

// previewRows linhas de amostra devolvidas por Preview.
const previewRows = 3

// ProductUseCase cadastro manual, consulta e importação em massa do catálogo.
type ProductUseCase struct {
	repo   repository.ProductRepository
	reader ports.SpreadsheetReader
	cache  ports.Cache
	log    *logger.Logger
	now    func() time.Time
}

// NewProductUseCase constrói o caso de uso.
func NewProductUseCase(repo repository.ProductRepository, reader ports.SpreadsheetReader, cache ports.Cache, log *logger.Logger) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{repo: repo, reader: reader, cache: cache, log: log, now: time.Now}
}

// Create cadastra um produto. Código e descrição são obrigatórios; código repetido devolve ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &entity.Product{
		Code:        strings.TrimSpace(in.Code),
		Description: strings.TrimSpace(in.Description),
		Unit:        strings.TrimSpace(in.Unit),
		Category:    strings.TrimSpace(in.Category),
		CreatedAt:   uc.now(),
	}
	if product.Code == "" || product.Description == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, product.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	appinv.InvalidateReadCache(ctx, uc.cache, uc.log)
	uc.log.Info().Str("codigo", product.Code).Msg("produto cadastrado")
	return toProductResponse(product), nil
}

// GetByCode obtém um produto pelo código; ErrNotFound se não existir.
func (uc *ProductUseCase) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List devolve o catálogo completo ordenado por código.
func (uc *ProductUseCase) List(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// Preview lê a planilha e devolve cabeçalhos e as primeiras linhas, para escolher o mapeamento.
func (uc *ProductUseCase) Preview(filename string, r io.Reader) (*dto.ImportPreviewResponse, error) {
	sheet, err := uc.reader.Read(filename, r)
	if err != nil {
		return nil, err
	}
	n := len(sheet.Rows)
	if n > previewRows {
		n = previewRows
	}
	sample := make([][]string, 0, n)
	for _, row := range sheet.Rows[:n] {
		sample = append(sample, padRow(row, len(sheet.Headers)))
	}
	return &dto.ImportPreviewResponse{Headers: sheet.Headers, Sample: sample, Rows: len(sheet.Rows)}, nil
}

// Import cadastra em massa os produtos de uma planilha (.xlsx ou .csv).
// Linhas sem código ou descrição são ignoradas; códigos já cadastrados ou repetidos no arquivo
// também (vale a primeira ocorrência).
func (uc *ProductUseCase) Import(ctx context.Context, filename string, r io.Reader, mapping dto.ImportMapping) (*dto.ImportResult, error) {
	sheet, err := uc.reader.Read(filename, r)
	if err != nil {
		return nil, err
	}
	cols, err := resolveColumns(sheet.Headers, mapping)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if c := cell(row, cols.code); c != "" {
			codes = append(codes, c)
		}
	}
	existing, err := uc.repo.ExistingCodes(ctx, codes)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{Errors: []dto.ImportRowError{}}
	seen := make(map[string]bool, len(sheet.Rows))
	now := uc.now()
	for i, row := range sheet.Rows {
		line := i + 2 // cabeçalho é a linha 1
		product := &entity.Product{
			Code:        cell(row, cols.code),
			Description: cell(row, cols.description),
			Unit:        cell(row, cols.unit),
			Category:    cell(row, cols.category),
			CreatedAt:   now,
		}
		if product.Code == "" || product.Description == "" || existing[product.Code] || seen[product.Code] {
			result.Skipped++
			continue
		}
		seen[product.Code] = true
		if err := uc.repo.Create(ctx, product); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, dto.ImportRowError{Line: line, Message: err.Error()})
			continue
		}
		result.Imported++
	}

	if result.Imported > 0 {
		appinv.InvalidateReadCache(ctx, uc.cache, uc.log)
	}
	uc.log.Info().
		Str("arquivo", filename).
		Int("importados", result.Imported).
		Int("ignorados", result.Skipped).
		Int("erros", len(result.Errors)).
		Msg("importação de produtos")
	return result, nil
}

type columns struct {
	code, description, unit, category int
}

// resolveColumns localiza as colunas do mapeamento; sem mapeamento usa codigo/descricao/unidade/categoria.
// A comparação ignora caixa, espaços e acentos ("Código" casa com "codigo").
func resolveColumns(headers []string, m dto.ImportMapping) (columns, error) {
	find := func(name, fallback string, required bool) (int, error) {
		want := name
		if want == "" {
			want = fallback
		}
		key := foldHeader(want)
		for i, h := range headers {
			if foldHeader(h) == key {
				return i, nil
			}
		}
		if required || name != "" {
			return -1, fmt.Errorf("%w: coluna %q não encontrada", domain.ErrInvalidInput, want)
		}
		return -1, nil
	}
	var c columns
	var err error
	if c.code, err = find(m.CodeColumn, "codigo", true); err != nil {
		return c, err
	}
	if c.description, err = find(m.DescriptionColumn, "descricao", true); err != nil {
		return c, err
	}
	if c.unit, err = find(m.UnitColumn, "unidade", false); err != nil {
		return c, err
	}
	if c.category, err = find(m.CategoryColumn, "categoria", false); err != nil {
		return c, err
	}
	return c, nil
}

var stripAccents = runes.Remove(runes.In(unicode.Mn))

func foldHeader(s string) string {
	out, _, err := transform.String(transform.Chain(norm.NFD, stripAccents, norm.NFC), s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func padRow(row []string, n int) []string {
	if len(row) >= n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		Code:        p.Code,
		Description: p.Description,
		Unit:        p.Unit,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
	}
}
