package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-envios/internal/application/dto"
	"github.com/jhoicas/inventario-envios/internal/application/inventory"
)

// StockItemHandler consulta y administración de StockItems.
type StockItemHandler struct {
	uc *inventory.StockItemUseCase
}

func NewStockItemHandler(uc *inventory.StockItemUseCase) *StockItemHandler {
	return &StockItemHandler{uc: uc}
}

// Create godoc
// @Summary      Alta administrativa de StockItem
// @Tags         stock-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockItemRequest  true  "product_id, group_id, warehouse_id, quantity"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-items [post]
func (h *StockItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualización administrativa de StockItem
// @Description  Solo se aplican los campos presentes. Un status explícito queda fijado hasta el próximo movimiento.
// @Tags         stock-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del StockItem"
// @Param        body  body  dto.UpdateStockItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-items/{id} [patch]
func (h *StockItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener StockItem
// @Tags         stock-items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del StockItem"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-items/{id} [get]
func (h *StockItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Buscar StockItems
// @Tags         stock-items
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        product_id    query  string  false  "Producto"
// @Param        group_id      query  string  false  "Grupo"
// @Param        section_id    query  string  false  "Sección"
// @Param        status        query  string  false  "AVAILABLE | OUT_OF_STOCK | RESERVED | OUT_OF_SERVICE"
// @Param        is_active     query  bool    false  "Activo"
// @Param        page          query  int     false  "Página (1-based)"  default(1)
// @Param        page_size     query  int     false  "Tamaño de página"  default(20)
// @Success      200  {object}  dto.StockItemListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-items [get]
func (h *StockItemHandler) List(c *fiber.Ctx) error {
	active, err := boolQuery(c, "is_active")
	if err != nil {
		return writeError(c, err)
	}
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	in := dto.StockItemFilterRequest{
		WarehouseID: c.Query("warehouse_id"),
		ProductID:   c.Query("product_id"),
		GroupID:     c.Query("group_id"),
		SectionID:   c.Query("section_id"),
		Status:      c.Query("status"),
		IsActive:    active,
		PageRequest: page,
	}
	out, err := h.uc.Find(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Resolve godoc
// @Summary      Resolver StockItem por bodega, producto y grupo
// @Tags         stock-items
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true  "Bodega"
// @Param        product_id    query  string  true  "Producto"
// @Param        group_id      query  string  true  "Grupo"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-items/resolve [get]
func (h *StockItemHandler) Resolve(c *fiber.Ctx) error {
	in := dto.ResolveStockItemRequest{
		WarehouseID: c.Query("warehouse_id"),
		ProductID:   c.Query("product_id"),
		GroupID:     c.Query("group_id"),
	}
	out, err := h.uc.Resolve(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
