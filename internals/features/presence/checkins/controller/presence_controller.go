// file: internals/features/presence/checkins/controller/presence_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	agentService "agentposition_backend/internals/features/agents/service"
	"agentposition_backend/internals/features/presence/checkins/dto"
	checkinService "agentposition_backend/internals/features/presence/checkins/service"
	missionDto "agentposition_backend/internals/features/presence/missions/dto"
	missionService "agentposition_backend/internals/features/presence/missions/service"
	helper "agentposition_backend/internals/helpers"
)

// PresenceController drives the daily presence flows. Each flow runs as
// one transaction: the check-in and its presence record commit together
// or not at all, so a half-recorded day cannot happen.
type PresenceController struct {
	DB        *gorm.DB
	Lifecycle *missionService.MissionLifecycleService
	Validator *checkinService.PresenceValidatorService
}

func NewPresenceController(db *gorm.DB) *PresenceController {
	return &PresenceController{
		DB:        db,
		Lifecycle: missionService.NewMissionLifecycleService(db),
		Validator: checkinService.NewPresenceValidatorService(db),
	}
}

/* ===================== START OF DAY ===================== */
// POST /api/u/presence/start
// ensure mission -> record check-in -> validate, one transaction.
func (ctrl *PresenceController) StartPresence(c *fiber.Ctx) error {
	req, err := ctrl.parseCheckRequest(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var resp dto.PresenceCheckResponse
	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		mission, err := ctrl.Lifecycle.EnsureActiveMission(tx, req.AgentID, req.VillageRef)
		if err != nil {
			return err
		}

		checkin, err := ctrl.Lifecycle.RecordCheckin(tx, mission.MissionID, missionService.CheckinInput{
			Lat:        *req.Lat,
			Lng:        *req.Lng,
			Note:       req.Note,
			PhotoURL:   req.PhotoURL,
			DeviceMeta: req.DeviceMeta,
		})
		if err != nil {
			return err
		}

		// First check-in of an unconfigured agent fixes its reference point.
		record, err := ctrl.Validator.RecordValidation(tx, req.AgentID, checkin, true)
		if err != nil {
			return err
		}

		resp = dto.PresenceCheckResponse{
			Mission:    missionDto.FromMissionModel(*mission),
			Checkin:    dto.FromCheckinModel(*checkin),
			Validation: dto.FromPresenceRecordModel(*record),
		}
		return nil
	})
	if txErr != nil {
		return ctrl.respondServiceError(c, txErr)
	}

	return helper.JsonCreated(c, "Présence enregistrée", resp)
}

/* ===================== END OF DAY ===================== */
// POST /api/u/presence/end
// require active mission -> check-in -> validate -> end mission.
func (ctrl *PresenceController) EndPresence(c *fiber.Ctx) error {
	req, err := ctrl.parseCheckRequest(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var resp dto.PresenceCheckResponse
	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		mission, err := ctrl.Lifecycle.ActiveMission(tx, req.AgentID)
		if err != nil {
			return err
		}

		checkin, err := ctrl.Lifecycle.RecordCheckin(tx, mission.MissionID, missionService.CheckinInput{
			Lat:        *req.Lat,
			Lng:        *req.Lng,
			Note:       req.Note,
			PhotoURL:   req.PhotoURL,
			DeviceMeta: req.DeviceMeta,
		})
		if err != nil {
			return err
		}

		record, err := ctrl.Validator.RecordValidation(tx, req.AgentID, checkin, true)
		if err != nil {
			return err
		}

		ended, err := ctrl.Lifecycle.EndMission(tx, req.AgentID)
		if err != nil {
			return err
		}

		resp = dto.PresenceCheckResponse{
			Mission:    missionDto.FromMissionModel(*ended),
			Checkin:    dto.FromCheckinModel(*checkin),
			Validation: dto.FromPresenceRecordModel(*record),
		}
		return nil
	})
	if txErr != nil {
		return ctrl.respondServiceError(c, txErr)
	}

	return helper.JsonCreated(c, "Fin de présence enregistrée", resp)
}

func (ctrl *PresenceController) parseCheckRequest(c *fiber.Ctx) (dto.PresenceCheckRequest, error) {
	var req dto.PresenceCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return req, errors.New("Payload invalide")
	}
	v := validator.New()
	if err := v.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}

// respondServiceError maps the service sentinels to transport errors.
// Storage errors stay untouched and surface as 500s.
func (ctrl *PresenceController) respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, agentService.ErrAgentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, agentService.ErrReferenceNotConfigured):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, missionService.ErrMissionNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, missionService.ErrNoActiveMission):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, missionService.ErrMissionAlreadyActive):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}
