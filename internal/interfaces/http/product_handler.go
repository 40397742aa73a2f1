package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	"github.com/amancio-obras/estoque-obras/internal/application/usecase"
	"github.com/amancio-obras/estoque-obras/pkg/logger"
)

// ProductHandler catálogo de produtos: consulta, cadastro e importação.
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	log *logger.Logger
}

// NewProductHandler constrói o handler de produtos.
func NewProductHandler(uc *usecase.ProductUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar catálogo
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByCode godoc
// @Summary      Obter produto por código
// @Tags         products
// @Produce      json
// @Param        codigo  path  string  true  "Código do produto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{codigo} [get]
func (h *ProductHandler) GetByCode(c *fiber.Ctx) error {
	out, err := h.uc.GetByCode(c.Context(), c.Params("codigo"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Cadastrar produto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "codigo, descricao, unidade, categoria"
// @Success      201  {object}  dto.ProductResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ImportPreview godoc
// @Summary      Pré-visualizar planilha de importação
// @Description  Devolve cabeçalhos e as primeiras linhas para escolher o mapeamento de colunas.
// @Tags         products
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Planilha .xlsx ou .csv"
// @Success      200  {object}  dto.ImportPreviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/import/preview [post]
func (h *ProductHandler) ImportPreview(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo file obrigatório"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer f.Close()

	out, err := h.uc.Preview(fh.Filename, f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Importar produtos em massa
// @Description  Linhas com código vazio ou já cadastrado são ignoradas.
// @Tags         products
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file           formData  file    true   "Planilha .xlsx ou .csv"
// @Param        col_codigo     formData  string  false  "Coluna do código"
// @Param        col_descricao  formData  string  false  "Coluna da descrição"
// @Param        col_unidade    formData  string  false  "Coluna da unidade"
// @Param        col_categoria  formData  string  false  "Coluna da categoria"
// @Success      200  {object}  dto.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/import [post]
func (h *ProductHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo file obrigatório"})
	}
	mapping := dto.ImportMapping{
		CodeColumn:        c.FormValue("col_codigo"),
		DescriptionColumn: c.FormValue("col_descricao"),
		UnitColumn:        c.FormValue("col_unidade"),
		CategoryColumn:    c.FormValue("col_categoria"),
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer f.Close()

	out, err := h.uc.Import(c.Context(), fh.Filename, f, mapping)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
