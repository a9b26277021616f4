package http

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/planning"
)

// ForecastHandler expone el pronóstico de demanda (protegido).
type ForecastHandler struct {
	uc *planning.ForecastUseCase
}

// NewForecastHandler construye el handler.
func NewForecastHandler(uc *planning.ForecastUseCase) *ForecastHandler {
	return &ForecastHandler{uc: uc}
}

// Get godoc
// @Summary      Pronóstico de demanda y stock de seguridad
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Param        ndc            query  string  true   "NDC"
// @Param        site_id        query  string  true   "Sitio"
// @Param        seasonality    query  number  false  "factor estacional (defecto 1)"
// @Param        acuity         query  number  false  "factor de agudeza (defecto 1)"
// @Param        service_level  query  number  false  "0.90, 0.95, 0.98 o 0.99"
// @Param        lead_time_days query  number  false  "días de reposición (defecto 2)"
// @Param        lead_time_var  query  number  false  "varianza del tiempo de reposición"
// @Success      200  {object}  dto.ForecastDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/forecasts [get]
func (h *ForecastHandler) Get(c *fiber.Ctx) error {
	networkID := GetNetworkID(c)
	if networkID == "" {
		return unauthorized(c)
	}
	req := planning.ForecastRequest{
		NetworkID: networkID,
		SiteID:    c.Query("site_id"),
		NDC:       c.Query("ndc"),
	}
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"seasonality", &req.Seasonality},
		{"acuity", &req.Acuity},
		{"service_level", &req.ServiceLevel},
		{"lead_time_days", &req.LeadTimeDays},
		{"lead_time_var", &req.LeadTimeVariance},
	} {
		raw := c.Query(f.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: f.key + " debe ser un número finito no negativo"})
		}
		*f.dst = v
	}

	res, err := h.uc.Forecast(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewForecastDTO(res))
}
