package controller

import (
	"errors"
	"log"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"

	"pipedesk/lead"
	"pipedesk/models"
	"pipedesk/store"
	"pipedesk/utils"
)

type LeadController struct {
	Store     store.Store
	Cache     *lead.Cache
	Hub       *lead.Hub
	Manager   *lead.Manager
	Converter *lead.Orchestrator
	Intake    *lead.Intake
	Logger    *log.Logger
}

func NewLeadController(st store.Store, cache *lead.Cache, hub *lead.Hub, manager *lead.Manager, converter *lead.Orchestrator, intake *lead.Intake, logger *log.Logger) *LeadController {
	return &LeadController{
		Store:     st,
		Cache:     cache,
		Hub:       hub,
		Manager:   manager,
		Converter: converter,
		Intake:    intake,
		Logger:    logger,
	}
}

// GetLeads returns the current snapshot filtered by status, category and
// temperature. Each selector defaults to "all".
func (lc *LeadController) GetLeads(c *fiber.Ctx) error {
	filters := lead.Filters{
		Status:      c.Query("status", models.FilterAll),
		Category:    c.Query("category", models.FilterAll),
		Temperature: c.Query("temperature", models.FilterAll),
	}

	if filters.Status != models.FilterAll && !models.LeadStatus(filters.Status).Valid() {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown status filter", nil)
	}

	leads := lead.Filter(lc.Cache.Leads(), filters)
	return c.JSON(utils.SuccessResponse(leads))
}

// GetLead returns a single lead from the snapshot.
func (lc *LeadController) GetLead(c *fiber.Ctx) error {
	entry, ok := lc.Cache.Get(c.Params("id"))
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
	}
	return c.JSON(utils.SuccessResponse(entry.Lead))
}

// CreateLead adds a manually entered lead.
func (lc *LeadController) CreateLead(c *fiber.Ctx) error {
	var input lead.IntakeInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if err := utils.ValidateEmailFormat(input.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	created, err := lc.Intake.CreateLead(c.Context(), input)
	if err != nil {
		if errors.Is(err, lead.ErrMissingContact) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Name and email are required", nil)
		}
		lc.captureError(err, "lead_create", "")
		// resynchronize with the store after any failed write
		if rerr := lc.Manager.Refresh(c.Context()); rerr != nil {
			lc.Logger.Printf("resync after failed insert: %v", rerr)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create lead", err)
	}

	lc.Logger.Printf("created lead %s", created.ID)
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(created))
}

// ChangeStatus moves a lead through the pipeline. On a failed write the
// manager has already forced a refresh, so the response error is the only
// thing left to surface.
func (lc *LeadController) ChangeStatus(c *fiber.Ctx) error {
	leadID := c.Params("id")

	var input struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	newStatus := models.LeadStatus(input.Status)
	if !newStatus.Valid() {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown lead status", nil)
	}

	if err := lc.Manager.ChangeStatus(c.Context(), leadID, newStatus); err != nil {
		lc.captureError(err, "lead_status_change", leadID)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update lead status", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"id": leadID, "status": newStatus}))
}

// AddNote appends a note entry to the lead's history.
func (lc *LeadController) AddNote(c *fiber.Ctx) error {
	leadID := c.Params("id")

	var input struct {
		Content string `json:"content" validate:"required,max=2000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if err := lc.Manager.AddNote(c.Context(), leadID, input.Content); err != nil {
		switch {
		case errors.Is(err, lead.ErrLeadNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		case errors.Is(err, lead.ErrHistoryUnsupported):
			return utils.ErrorResponse(c, fiber.StatusConflict, "Lead record does not support notes", nil)
		default:
			lc.captureError(err, "lead_add_note", leadID)
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add note", err)
		}
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"id": leadID}))
}

// ConvertLead turns a lead into a project, guarded by the per-lead
// single-flight gate.
func (lc *LeadController) ConvertLead(c *fiber.Ctx) error {
	leadID := c.Params("id")

	var input struct {
		MarkLeadClosed bool `json:"markLeadClosed"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	entry, ok := lc.Cache.Get(leadID)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
	}

	opts := lead.ConvertOptions{MarkLeadClosed: input.MarkLeadClosed}
	if err := lc.Converter.Convert(c.Context(), entry.Lead, opts); err != nil {
		if errors.Is(err, lead.ErrConversionInFlight) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Conversion already in progress", nil)
		}
		lc.captureError(err, "lead_convert", leadID)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to convert lead", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"id": leadID, "converted": true}))
}

// GetConversionState exposes the in-flight flag so the console can disable
// the convert action while one is outstanding.
func (lc *LeadController) GetConversionState(c *fiber.Ctx) error {
	leadID := c.Params("id")
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"id":         leadID,
		"converting": lc.Converter.Converting(leadID),
	}))
}

// RefreshLeads discards the local snapshot and reloads from the store.
func (lc *LeadController) RefreshLeads(c *fiber.Ctx) error {
	if err := lc.Manager.Refresh(c.Context()); err != nil {
		lc.captureError(err, "lead_refresh", "")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to refresh leads", err)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"leads": lc.Cache.Len()}))
}

func (lc *LeadController) captureError(err error, operation, leadID string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("operation", operation)
		if leadID != "" {
			scope.SetTag("lead_id", leadID)
		}
		sentry.CaptureException(err)
	})
}
