package http

import (
	"bytes"
	"mime"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/importer"
)

// NetworkHandler importación de la red del usuario (solo admin).
type NetworkHandler struct {
	uc *importer.ImportUseCase
}

// NewNetworkHandler construye el handler.
func NewNetworkHandler(uc *importer.ImportUseCase) *NetworkHandler {
	return &NetworkHandler{uc: uc}
}

// Import godoc
// @Summary      Importar volcado de red
// @Description  Inserta o actualiza sitios, existencias, transferencias, pacientes y catálogo
//
//	en una sola transacción. Acepta charset=iso-8859-1 en Content-Type.
//
// @Tags         network
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NetworkImportRequest  true  "volcado de red"
// @Success      200   {object}  dto.ImportSummaryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/network/import [post]
func (h *NetworkHandler) Import(c *fiber.Ctx) error {
	networkID := GetNetworkID(c)
	if networkID == "" {
		return unauthorized(c)
	}
	charset := ""
	if _, params, err := mime.ParseMediaType(c.Get(fiber.HeaderContentType)); err == nil {
		charset = params["charset"]
	}
	in, err := dto.ReadNetworkImport(bytes.NewReader(c.Body()), charset)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	if in.NetworkID == "" {
		in.NetworkID = networkID
	}
	if in.NetworkID != networkID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo puede importar su propia red"})
	}
	sum, err := h.uc.Import(c.Context(), in.ToEntities())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewImportSummaryDTO(sum))
}
