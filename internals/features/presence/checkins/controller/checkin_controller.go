// file: internals/features/presence/checkins/controller/checkin_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"agentposition_backend/internals/features/presence/checkins/dto"
	checkinService "agentposition_backend/internals/features/presence/checkins/service"
	missionService "agentposition_backend/internals/features/presence/missions/service"
	helper "agentposition_backend/internals/helpers"
)

type CheckinController struct {
	DB        *gorm.DB
	Lifecycle *missionService.MissionLifecycleService
	Validator *checkinService.PresenceValidatorService
}

func NewCheckinController(db *gorm.DB) *CheckinController {
	return &CheckinController{
		DB:        db,
		Lifecycle: missionService.NewMissionLifecycleService(db),
		Validator: checkinService.NewPresenceValidatorService(db),
	}
}

/* ===================== CREATE ===================== */
// POST /api/u/checkins
// Raw check-in on a known mission, validated in the same transaction.
func (ctrl *CheckinController) CreateCheckin(c *fiber.Ctx) error {
	var req dto.RecordCheckinRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload invalide")
	}

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var (
		checkinResp dto.CheckinResponse
		recordResp  dto.PresenceRecordResponse
	)
	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		checkin, err := ctrl.Lifecycle.RecordCheckin(tx, req.MissionID, missionService.CheckinInput{
			Lat:        *req.Lat,
			Lng:        *req.Lng,
			Note:       req.Note,
			PhotoURL:   req.PhotoURL,
			DeviceMeta: req.DeviceMeta,
		})
		if err != nil {
			return err
		}

		record, err := ctrl.Validator.RecordValidation(tx, checkin.CheckinAgentID, checkin, true)
		if err != nil {
			return err
		}

		checkinResp = dto.FromCheckinModel(*checkin)
		recordResp = dto.FromPresenceRecordModel(*record)
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, missionService.ErrMissionNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, txErr.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, txErr.Error())
	}

	return helper.JsonCreated(c, "Pointage enregistré", fiber.Map{
		"checkin":    checkinResp,
		"validation": recordResp,
	})
}

/* ===================== LIST ===================== */
// GET /api/u/agents/:id/checkins?page=&per_page=
func (ctrl *CheckinController) ListByAgent(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID invalide")
	}

	paging := helper.ResolvePaging(c, 20, 200)

	rows, total, err := ctrl.Validator.ListCheckinsByAgent(nil, agentID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "ok", dto.FromCheckinModels(rows),
		helper.BuildPaginationFromOffset(total, paging.Offset, paging.Limit))
}

/* ===================== MANUAL REVIEW ===================== */
// POST /api/a/presence-records/:id/review
// One-shot audited override; a second attempt is rejected.
func (ctrl *CheckinController) ReviewPresenceRecord(c *fiber.Ctx) error {
	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID invalide")
	}

	var req dto.ManualReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload invalide")
	}

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	record, err := ctrl.Validator.ApplyManualReview(nil, recordID, req.Status, req.ReviewerID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, checkinService.ErrPresenceRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, checkinService.ErrAlreadyReviewed):
			return helper.JsonErrorWithData(c, fiber.StatusConflict, err.Error(),
				dto.FromPresenceRecordModel(*record))
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return helper.JsonUpdated(c, "Validation révisée", dto.FromPresenceRecordModel(*record))
}
