package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	"github.com/amancio-obras/estoque-obras/internal/application/inventory"
	"github.com/amancio-obras/estoque-obras/internal/application/report"
	"github.com/amancio-obras/estoque-obras/pkg/logger"
)

const (
	mimeCSV = "text/csv; charset=utf-8"
	mimePDF = "application/pdf"
	mimeXML = "application/xml; charset=utf-8"
)

// InventoryHandler movimentações, saldo e exportações.
type InventoryHandler struct {
	registerUC *inventory.RegisterMovementUseCase
	ledgerUC   *inventory.LedgerUseCase
	reportUC   *report.ReportUseCase
	log        *logger.Logger
}

// NewInventoryHandler constrói o handler de inventário.
func NewInventoryHandler(
	registerUC *inventory.RegisterMovementUseCase,
	ledgerUC *inventory.LedgerUseCase,
	reportUC *report.ReportUseCase,
	log *logger.Logger,
) *InventoryHandler {
	return &InventoryHandler{registerUC: registerUC, ledgerUC: ledgerUC, reportUC: reportUC, log: log}
}

// RegisterMovement godoc
// @Summary      Registrar movimentação
// @Description  Entrada, Saída, Ajuste(+) ou Ajuste(-). Saída acima do saldo devolve 409.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "tipo, data, obra, codigo, quantidade, custo_unitario"
// @Success      201  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.registerUC.RegisterMovementFromRequest(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteMovement godoc
// @Summary      Excluir movimentação
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID da movimentação"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [delete]
func (h *InventoryHandler) DeleteMovement(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	mov, err := h.registerUC.DeleteMovement(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Histórico de movimentações
// @Tags         inventory
// @Produce      json
// @Param        codigo  query  string  false  "Código"
// @Param        tipo    query  string  false  "Tipo"
// @Param        obra    query  string  false  "Obra (contém)"
// @Param        de      query  string  false  "Data inicial YYYY-MM-DD"
// @Param        ate     query  string  false  "Data final YYYY-MM-DD"
// @Param        limit   query  int     false  "Limite"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if ok, err := queryAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.ledgerUC.ListMovements(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Balances godoc
// @Summary      Saldo de estoque
// @Description  Saldo, custo médio e valor por código, mais os códigos movimentados sem cadastro.
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  dto.BalanceListResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances [get]
func (h *InventoryHandler) Balances(c *fiber.Ctx) error {
	out, err := h.ledgerUC.Balances(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ExportBalancesCSV godoc
// @Summary      Exportar saldo (CSV)
// @Tags         inventory
// @Produce      text/csv
// @Success      200  {file}  file
// @Router       /api/inventory/balances/export.csv [get]
func (h *InventoryHandler) ExportBalancesCSV(c *fiber.Ctx) error {
	data, err := h.reportUC.BalancesCSV(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, "saldo.csv", mimeCSV, data)
}

// ExportBalancesPDF godoc
// @Summary      Exportar saldo (PDF)
// @Tags         inventory
// @Produce      application/pdf
// @Success      200  {file}  file
// @Router       /api/inventory/balances/export.pdf [get]
func (h *InventoryHandler) ExportBalancesPDF(c *fiber.Ctx) error {
	data, err := h.reportUC.BalancesPDF(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, "saldo.pdf", mimePDF, data)
}

// ExportBalancesXML godoc
// @Summary      Exportar saldo (XML)
// @Tags         inventory
// @Produce      application/xml
// @Success      200  {file}  file
// @Router       /api/inventory/balances/export.xml [get]
func (h *InventoryHandler) ExportBalancesXML(c *fiber.Ctx) error {
	data, err := h.reportUC.BalancesXML(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, "saldo.xml", mimeXML, data)
}

// ExportMovementsCSV godoc
// @Summary      Exportar histórico (CSV)
// @Tags         inventory
// @Produce      text/csv
// @Param        codigo  query  string  false  "Código"
// @Param        tipo    query  string  false  "Tipo"
// @Param        obra    query  string  false  "Obra (contém)"
// @Param        de      query  string  false  "Data inicial YYYY-MM-DD"
// @Param        ate     query  string  false  "Data final YYYY-MM-DD"
// @Success      200  {file}  file
// @Router       /api/inventory/movements/export.csv [get]
func (h *InventoryHandler) ExportMovementsCSV(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if ok, err := queryAndValidate(c, &in); !ok {
		return err
	}
	data, err := h.reportUC.MovementsCSV(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, "historico.csv", mimeCSV, data)
}

func sendFile(c *fiber.Ctx, filename, contentType string, data []byte) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}
