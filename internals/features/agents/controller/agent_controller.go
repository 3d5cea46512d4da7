// file: internals/features/agents/controller/agent_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"agentposition_backend/internals/constants"
	"agentposition_backend/internals/features/agents/dto"
	"agentposition_backend/internals/features/agents/model"
	"agentposition_backend/internals/features/agents/service"
	helper "agentposition_backend/internals/helpers"
)

type AgentController struct {
	DB   *gorm.DB
	Refs *service.ReferencePointService
}

func NewAgentController(db *gorm.DB) *AgentController {
	return &AgentController{
		DB:   db,
		Refs: service.NewReferencePointService(db),
	}
}

/* ===================== CREATE ===================== */
// POST /api/a/agents
func (ctrl *AgentController) CreateAgent(c *fiber.Ctx) error {
	var req dto.CreateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload invalide")
	}

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if req.Role != nil && *req.Role != "" && !constants.IsValidRole(*req.Role) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Rôle invalide")
	}

	mdl := req.ToModel()
	if err := ctrl.DB.Create(&mdl).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Création de l'agent impossible")
	}

	return helper.JsonCreated(c, "Agent créé", dto.FromAgentModel(mdl))
}

/* ===================== DETAIL ===================== */
// GET /api/a/agents/:id
func (ctrl *AgentController) GetAgent(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID invalide")
	}

	var agent model.AgentModel
	if err := ctrl.DB.Where("id = ?", agentID).Take(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Agent introuvable")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "ok", dto.FromAgentModel(agent))
}

/* ===================== LIST ===================== */
// GET /api/a/agents?page=&per_page=&commune=
func (ctrl *AgentController) ListAgents(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 200)

	q := ctrl.DB.Model(&model.AgentModel{})
	if commune := c.Query("commune"); commune != "" {
		q = q.Where("commune = ?", commune)
	}
	if dep := c.Query("departement"); dep != "" {
		q = q.Where("departement = ?", dep)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.AgentModel
	if err := q.Order("full_name ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "ok", dto.FromAgentModels(rows),
		helper.BuildPaginationFromOffset(total, paging.Offset, paging.Limit))
}

/* ===================== REFERENCE POINT ===================== */
// PATCH /api/a/agents/:id/reference-point
// Admin override of the bootstrap: always writes.
func (ctrl *AgentController) SetReferencePoint(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID invalide")
	}

	var req dto.SetReferencePointRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload invalide")
	}

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	agent, err := ctrl.Refs.SetReferencePoint(nil, agentID, *req.Lat, *req.Lng, req.ToleranceRadiusM)
	if err != nil {
		if errors.Is(err, service.ErrAgentNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Agent introuvable")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "Point de référence mis à jour", dto.FromAgentModel(*agent))
}

/* ===================== SETTINGS (partial) ===================== */
// PATCH /api/a/agents/:id/settings
func (ctrl *AgentController) UpdateSettings(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID invalide")
	}

	var req dto.UpdateAgentSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload invalide")
	}

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	updates := map[string]any{}
	if req.ToleranceRadiusM != nil {
		updates["tolerance_radius_m"] = *req.ToleranceRadiusM
	}
	if req.ExpectedDaysPerMonth != nil {
		updates["expected_days_per_month"] = *req.ExpectedDaysPerMonth
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "Aucune modification", fiber.Map{"id": agentID})
	}

	res := ctrl.DB.Model(&model.AgentModel{}).
		Where("id = ?", agentID).
		Updates(updates)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Mise à jour impossible")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Agent introuvable")
	}

	var agent model.AgentModel
	if err := ctrl.DB.Where("id = ?", agentID).Take(&agent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Paramètres mis à jour", dto.FromAgentModel(agent))
}
