package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/planning"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// PlanningHandler maneja las pasadas de planeación (protegido).
type PlanningHandler struct {
	passes  *planning.PassUseCase
	reports *planning.ReportUseCase
}

// NewPlanningHandler construye el handler.
func NewPlanningHandler(passes *planning.PassUseCase, reports *planning.ReportUseCase) *PlanningHandler {
	return &PlanningHandler{passes: passes, reports: reports}
}

// RunPass godoc
// @Summary      Ejecutar una pasada de planeación
// @Description  Lee la red del token, agrega demanda y devuelve propuestas de transferencia
//
//	o compra con su traza regulatoria. Las propuestas son consultivas.
//
// @Tags         planning
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RunPassRequest  false  "patient_setting: inpatient | outpatient"
// @Success      201   {object}  dto.PlanningRunDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/planning/passes [post]
func (h *PlanningHandler) RunPass(c *fiber.Ctx) error {
	networkID := GetNetworkID(c)
	if networkID == "" {
		return unauthorized(c)
	}
	var in dto.RunPassRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	setting := entity.PatientSetting(in.PatientSetting)
	if setting != "" && setting != entity.SettingInpatient && setting != entity.SettingOutpatient {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "patient_setting debe ser inpatient u outpatient"})
	}

	run, err := h.passes.Run(c.Context(), planning.PassRequest{
		NetworkID:      networkID,
		RequestedBy:    GetUserID(c),
		PatientSetting: setting,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPlanningRunDTO(run))
}

// GetPass godoc
// @Summary      Consultar una pasada
// @Tags         planning
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la pasada"
// @Success      200  {object}  dto.PlanningRunDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/planning/passes/{id} [get]
func (h *PlanningHandler) GetPass(c *fiber.Ctx) error {
	networkID := GetNetworkID(c)
	if networkID == "" {
		return unauthorized(c)
	}
	run, err := h.passes.Get(c.Context(), networkID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewPlanningRunDTO(run))
}

// ListPasses godoc
// @Summary      Listar pasadas recientes
// @Tags         planning
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo de filas (1-100, defecto 20)"
// @Success      200  {array}  dto.PlanningRunSummaryDTO
// @Router       /api/planning/passes [get]
func (h *PlanningHandler) ListPasses(c *fiber.Ctx) error {
	networkID := GetNetworkID(c)
	if networkID == "" {
		return unauthorized(c)
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20)}
	page.DefaultPage()
	if page.Limit > 100 {
		page.Limit = 100
	}
	runs, err := h.passes.List(c.Context(), networkID, page.Limit)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.PlanningRunSummaryDTO, 0, len(runs))
	for i := range runs {
		out = append(out, dto.NewPlanningRunSummaryDTO(&runs[i]))
	}
	return c.JSON(out)
}

// GetReport godoc
// @Summary      Reporte PDF de una pasada
// @Tags         planning
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la pasada"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/planning/passes/{id}/report [get]
func (h *PlanningHandler) GetReport(c *fiber.Ctx) error {
	networkID := GetNetworkID(c)
	if networkID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	pdf, err := h.reports.Render(c.Context(), networkID, id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="pasada-`+id+`.pdf"`)
	return c.Send(pdf)
}
