package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fee-tracker-console/internal/dto"
	"github.com/noah-isme/fee-tracker-console/internal/models"
	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
	"github.com/noah-isme/fee-tracker-console/pkg/response"
)

type settingsService interface {
	Snapshot(ctx context.Context) (models.ConsoleSettings, error)
	SetTheme(ctx context.Context, theme models.Theme) error
	ToggleTheme(ctx context.Context) (models.Theme, error)
	SetTerm(ctx context.Context, term string) error
	SetToken(ctx context.Context, token string) error
}

// SettingsHandler manages the persisted console settings.
type SettingsHandler struct {
	service settingsService
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(service settingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get godoc
// @Summary Current console settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	h.respond(c)
}

// SetTheme godoc
// @Summary Set the display theme
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body dto.ThemeRequest true "Theme"
// @Success 200 {object} response.Envelope
// @Router /settings/theme [put]
func (h *SettingsHandler) SetTheme(c *gin.Context) {
	var req dto.ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid theme payload"))
		return
	}
	if err := h.service.SetTheme(c.Request.Context(), models.Theme(req.Theme)); err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c)
}

// ToggleTheme flips between dark and light.
func (h *SettingsHandler) ToggleTheme(c *gin.Context) {
	if _, err := h.service.ToggleTheme(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c)
}

// SetTerm godoc
// @Summary Select the active term
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body dto.TermRequest true "Term"
// @Success 200 {object} response.Envelope
// @Router /settings/term [put]
func (h *SettingsHandler) SetTerm(c *gin.Context) {
	var req dto.TermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid term payload"))
		return
	}
	if err := h.service.SetTerm(c.Request.Context(), req.Term); err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c)
}

// SetToken stores the bearer credential. An empty token clears it.
func (h *SettingsHandler) SetToken(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid token payload"))
		return
	}
	if err := h.service.SetToken(c.Request.Context(), req.Token); err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c)
}

func (h *SettingsHandler) respond(c *gin.Context) {
	settings, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}
