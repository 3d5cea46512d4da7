// file: internals/features/reports/monthly/controller/monthly_report_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	agentService "agentposition_backend/internals/features/agents/service"
	"agentposition_backend/internals/features/reports/monthly/dto"
	"agentposition_backend/internals/features/reports/monthly/service"
	helper "agentposition_backend/internals/helpers"
)

type MonthlyReportController struct {
	DB         *gorm.DB
	Aggregator *service.MonthlyAggregatorService
}

func NewMonthlyReportController(db *gorm.DB) *MonthlyReportController {
	return &MonthlyReportController{
		DB:         db,
		Aggregator: service.NewMonthlyAggregatorService(db),
	}
}

/* ===================== GENERATE ===================== */
// POST /api/a/reports/monthly/generate
// Regenerates one agent's month, or every active agent's month when no
// agent_id is given. Safe to re-run.
func (ctrl *MonthlyReportController) Generate(c *fiber.Ctx) error {
	var req dto.GenerateMonthlyReportRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload invalide")
	}

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if req.AgentID != nil {
		rep, err := ctrl.Aggregator.GenerateMonthlyReport(nil, *req.AgentID, req.Month)
		if err != nil {
			return ctrl.respondServiceError(c, err)
		}
		return helper.JsonOK(c, "Rapport mensuel généré", dto.FromMonthlyReportModel(*rep))
	}

	reports, failures, err := ctrl.Aggregator.GenerateForAllAgents(nil, req.Month)
	if err != nil {
		return ctrl.respondServiceError(c, err)
	}

	failed := make(map[string]string, len(failures))
	for id, ferr := range failures {
		failed[id.String()] = ferr.Error()
	}
	return helper.JsonOK(c, "Rapports mensuels générés", fiber.Map{
		"generated": dto.FromMonthlyReportModels(reports),
		"failed":    failed,
	})
}

/* ===================== DETAIL ===================== */
// GET /api/u/agents/:id/reports/:month
func (ctrl *MonthlyReportController) GetByAgentMonth(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID invalide")
	}
	month := c.Params("month")

	rep, err := ctrl.Aggregator.FindByAgentMonth(nil, agentID, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Aucun rapport pour ce mois")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "ok", dto.FromMonthlyReportModel(*rep))
}

/* ===================== EXPORT ===================== */
// GET /api/a/reports/monthly/:month/export
// Read-only denormalized rows; the caller formats CSV/HTML itself.
func (ctrl *MonthlyReportController) Export(c *fiber.Ctx) error {
	month := c.Params("month")

	rows, err := ctrl.Aggregator.ExportMonthlyReport(nil, month)
	if err != nil {
		return ctrl.respondServiceError(c, err)
	}

	return helper.JsonOK(c, "ok", rows)
}

func (ctrl *MonthlyReportController) respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidMonthKey):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, agentService.ErrAgentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}
