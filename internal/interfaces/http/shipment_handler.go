package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-envios/internal/application/dto"
	"github.com/jhoicas/inventario-envios/internal/application/shipment"
)

// ShipmentHandler flujo de envíos y sus documentos (protegido).
type ShipmentHandler struct {
	uc   *shipment.UseCase
	docs *shipment.DocumentsUseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *shipment.UseCase, docs *shipment.DocumentsUseCase) *ShipmentHandler {
	return &ShipmentHandler{uc: uc, docs: docs}
}

// Create godoc
// @Summary      Crear envío
// @Description  Destino: recipient_warehouse_code o address (excluyentes). Con status SENT descuenta el origen en la misma operación.
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShipmentRequest  true  "Datos del envío"
// @Success      201   {object}  dto.ShipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/shipments [post]
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
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
// @Summary      Actualizar envío
// @Description  Cambia destino o cantidad antes del despacho y/o aplica una transición de estado.
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del envío"
// @Param        body  body  dto.UpdateShipmentRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ShipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [patch]
func (h *ShipmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Dispatch godoc
// @Summary      Despachar envío (→ SENT)
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/dispatch [post]
func (h *ShipmentHandler) Dispatch(c *fiber.Ctx) error {
	out, err := h.uc.Dispatch(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Arrive godoc
// @Summary      Recibir envío en la bodega destino (→ DELIVERED)
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/arrive [post]
func (h *ShipmentHandler) Arrive(c *fiber.Ctx) error {
	out, err := h.uc.Arrive(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar envío (→ CANCELLED)
// @Description  No reacredita el stock si el envío ya estaba despachado.
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/cancel [post]
func (h *ShipmentHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener envío
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [get]
func (h *ShipmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Buscar envíos
// @Description  Orden: created_at descendente. Fechas en RFC3339.
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        sender_warehouse_id     query  string  false  "Bodega origen"
// @Param        recipient_warehouse_id  query  string  false  "Bodega destino"
// @Param        stock_item_id           query  string  false  "StockItem"
// @Param        status                  query  string  false  "Estado"
// @Param        direction               query  string  false  "OUTBOUND | INBOUND"
// @Param        created_from            query  string  false  "Desde (RFC3339)"
// @Param        created_to              query  string  false  "Hasta (RFC3339)"
// @Param        page                    query  int     false  "Página (1-based)"  default(1)
// @Param        page_size               query  int     false  "Tamaño de página"  default(20)
// @Success      200  {object}  dto.ShipmentListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/shipments [get]
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	from, err := timeQuery(c, "created_from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := timeQuery(c, "created_to")
	if err != nil {
		return writeError(c, err)
	}
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	in := dto.ShipmentFilterRequest{
		SenderWarehouseID:    c.Query("sender_warehouse_id"),
		RecipientWarehouseID: c.Query("recipient_warehouse_id"),
		StockItemID:          c.Query("stock_item_id"),
		Status:               c.Query("status"),
		Direction:            c.Query("direction"),
		CreatedFrom:          from,
		CreatedTo:            to,
		PageRequest:          page,
	}
	out, err := h.uc.Find(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeliveryNote godoc
// @Summary      Remisión PDF del envío
// @Tags         shipments
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/delivery-note [get]
func (h *ShipmentHandler) DeliveryNote(c *fiber.Ctx) error {
	out, filename, err := h.docs.DeliveryNotePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, "application/pdf", filename, out)
}

// DespatchAdvice godoc
// @Summary      Aviso de despacho UBL 2.1 (XML)
// @Tags         shipments
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/despatch-advice [get]
func (h *ShipmentHandler) DespatchAdvice(c *fiber.Ctx) error {
	out, filename, err := h.docs.DespatchAdviceXML(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, "application/xml", filename, out)
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}
