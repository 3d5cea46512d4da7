// file: internals/features/presence/missions/controller/mission_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"agentposition_backend/internals/features/presence/missions/dto"
	"agentposition_backend/internals/features/presence/missions/service"
	helper "agentposition_backend/internals/helpers"
)

type MissionController struct {
	DB        *gorm.DB
	Lifecycle *service.MissionLifecycleService
}

func NewMissionController(db *gorm.DB) *MissionController {
	return &MissionController{
		DB:        db,
		Lifecycle: service.NewMissionLifecycleService(db),
	}
}

/* ===================== START (explicit) ===================== */
// POST /api/u/missions/start
// Redundant start is an error; the active mission is returned so the
// client can reconcile.
func (ctrl *MissionController) StartMission(c *fiber.Ctx) error {
	var req dto.StartMissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload invalide")
	}

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	mission, err := ctrl.Lifecycle.StartExplicit(nil, req.AgentID, req.VillageRef)
	if err != nil {
		if errors.Is(err, service.ErrMissionAlreadyActive) {
			return helper.JsonErrorWithData(c, fiber.StatusConflict,
				"Une mission est déjà active pour cet agent", dto.FromMissionModel(*mission))
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Mission démarrée", dto.FromMissionModel(*mission))
}

/* ===================== END ===================== */
// POST /api/u/missions/end
func (ctrl *MissionController) EndMission(c *fiber.Ctx) error {
	var req dto.EndMissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload invalide")
	}

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	mission, err := ctrl.Lifecycle.EndMission(nil, req.AgentID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveMission) {
			return helper.JsonError(c, fiber.StatusConflict, "Aucune mission active pour cet agent")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "Mission terminée", dto.FromMissionModel(*mission))
}

/* ===================== ACTIVE ===================== */
// GET /api/u/agents/:id/missions/active
func (ctrl *MissionController) ActiveMission(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID invalide")
	}

	mission, err := ctrl.Lifecycle.ActiveMission(nil, agentID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveMission) {
			return helper.JsonError(c, fiber.StatusNotFound, "Aucune mission active pour cet agent")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "ok", dto.FromMissionModel(*mission))
}

/* ===================== LIST ===================== */
// GET /api/u/agents/:id/missions?page=&per_page=
func (ctrl *MissionController) ListMissions(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID invalide")
	}

	paging := helper.ResolvePaging(c, 20, 200)

	rows, total, err := ctrl.Lifecycle.ListByAgent(nil, agentID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "ok", dto.FromMissionModels(rows),
		helper.BuildPaginationFromOffset(total, paging.Offset, paging.Limit))
}
