package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	eventDTO "umuganda_backend/internals/features/events/dto"
	eventService "umuganda_backend/internals/features/events/service"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

var validate = validator.New()

type EventController struct {
	DB      *gorm.DB
	Service *eventService.EventService
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{
		DB:      db,
		Service: eventService.NewEventService(db),
	}
}

// POST /api/umuganda-events
func (ctl *EventController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var req eventDTO.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	event, err := ctl.Service.Create(c.Context(), actor, req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Umuganda event created", event)
}

// GET /api/umuganda-events
func (ctl *EventController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	events, err := ctl.Service.List(c.Context(), actor)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Umuganda events fetched", events)
}

// GET /api/umuganda-events/:event_id
func (ctl *EventController) GetByID(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event id")
	}

	event, err := ctl.Service.GetByID(c.Context(), actor, eventID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Umuganda event fetched", event)
}

// PATCH /api/umuganda-events/:event_id
func (ctl *EventController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event id")
	}

	var req eventDTO.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	event, err := ctl.Service.Update(c.Context(), actor, eventID, req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Umuganda event updated", event)
}

// DELETE /api/umuganda-events/:event_id
func (ctl *EventController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event id")
	}

	if err := ctl.Service.Delete(c.Context(), actor, eventID); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Umuganda event deleted", nil)
}

// POST /api/umuganda-events/:event_id/attendance
func (ctl *EventController) CheckIn(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event id")
	}

	var req eventDTO.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Token = strings.TrimSpace(req.Token)
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	attendance, err := ctl.Service.CheckIn(c.Context(), actor, eventID, req.Token)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Member checked in", attendance)
}

// GET /api/umuganda-events/:event_id/attendance
func (ctl *EventController) ListAttendance(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event id")
	}

	rows, err := ctl.Service.ListAttendance(c.Context(), actor, eventID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Event attendance fetched", rows)
}
