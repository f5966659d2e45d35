package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fee-tracker-console/internal/dto"
	"github.com/noah-isme/fee-tracker-console/internal/service"
	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
	"github.com/noah-isme/fee-tracker-console/pkg/response"
)

type activityViewRegistry interface {
	MountActivities(ctx context.Context) (*service.ActivityView, error)
	Activities(id string) (*service.ActivityView, error)
	UnmountActivities(id string) error
}

// ActivityViewHandler exposes the activity payments page state container.
type ActivityViewHandler struct {
	views activityViewRegistry
}

// NewActivityViewHandler builds a new handler.
func NewActivityViewHandler(views activityViewRegistry) *ActivityViewHandler {
	return &ActivityViewHandler{views: views}
}

func activityState(view *service.ActivityView) dto.ActivityViewState {
	return dto.ActivityViewState{
		ViewID:     view.ID(),
		Loaded:     view.Loaded(),
		Total:      view.Total(),
		Filter:     view.Filter(),
		Activities: view.Visible(),
	}
}

func (h *ActivityViewHandler) view(c *gin.Context) (*service.ActivityView, bool) {
	view, err := h.views.Activities(viewID(c))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return view, true
}

// Mount godoc
// @Summary Mount an activity payments view
// @Tags Activities
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /views/activities [post]
func (h *ActivityViewHandler) Mount(c *gin.Context) {
	view, err := h.views.MountActivities(c.Request.Context())
	if view == nil {
		response.Error(c, err)
		return
	}
	meta := notificationsMeta(view)
	if err != nil {
		if meta == nil {
			meta = map[string]interface{}{}
		}
		meta["load_error"] = appErrors.FromError(err)
	}
	response.Created(c, activityState(view), meta)
}

// Get godoc
// @Summary Visible rows of an activity view
// @Tags Activities
// @Produce json
// @Param viewId path string true "View ID"
// @Success 200 {object} response.Envelope
// @Router /views/activities/{viewId} [get]
func (h *ActivityViewHandler) Get(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, activityState(view), notificationsMeta(view))
}

func (h *ActivityViewHandler) Reload(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	if err := view.Load(c.Request.Context()); err != nil {
		response.Error(c, err, notificationsMeta(view))
		return
	}
	response.JSON(c, http.StatusOK, activityState(view), notificationsMeta(view))
}

func (h *ActivityViewHandler) Unmount(c *gin.Context) {
	if err := h.views.UnmountActivities(viewID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateFilter applies grade and admission search predicates.
func (h *ActivityViewHandler) UpdateFilter(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	var req dto.FilterPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter payload"))
		return
	}
	if req.Grade != nil {
		if err := view.SetGrade(*req.Grade); err != nil {
			response.Error(c, err)
			return
		}
	}
	if req.AdmissionNumber != nil {
		view.SetSearch(*req.AdmissionNumber)
	}
	response.JSON(c, http.StatusOK, activityState(view))
}

func (h *ActivityViewHandler) ClearFilter(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	view.ClearFilter()
	response.JSON(c, http.StatusOK, activityState(view))
}

func (h *ActivityViewHandler) ClearGrade(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	view.ClearGrade()
	response.JSON(c, http.StatusOK, activityState(view))
}

func (h *ActivityViewHandler) ClearSearch(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	view.ClearSearch()
	response.JSON(c, http.StatusOK, activityState(view))
}

// LookupStudent godoc
// @Summary Activities recorded for one student
// @Tags Activities
// @Produce json
// @Param viewId path string true "View ID"
// @Param admission path string true "Admission number"
// @Success 200 {object} response.Envelope
// @Router /views/activities/{viewId}/lookup/{admission} [get]
func (h *ActivityViewHandler) LookupStudent(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	student, err := view.LookupStudent(c.Request.Context(), c.Param("admission"))
	if err != nil {
		response.Error(c, err, notificationsMeta(view))
		return
	}
	response.JSON(c, http.StatusOK, student, notificationsMeta(view))
}

// UpdatePayment godoc
// @Summary Overwrite an activity payment
// @Tags Activities
// @Accept json
// @Produce json
// @Param viewId path string true "View ID"
// @Param admission path string true "Admission number"
// @Param payload body dto.UpdateActivityPaymentRequest true "Activity payment"
// @Success 200 {object} response.Envelope
// @Router /views/activities/{viewId}/payments/{admission} [patch]
func (h *ActivityViewHandler) UpdatePayment(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	var req dto.UpdateActivityPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid activity payment payload"))
		return
	}
	message, err := view.UpdatePayment(c.Request.Context(), c.Param("admission"), req)
	if err != nil {
		response.Error(c, err, notificationsMeta(view))
		return
	}
	response.JSON(c, http.StatusOK, dto.RemoteMessage{Message: message}, notificationsMeta(view))
}

// RecordPayment godoc
// @Summary Record a new activity payment
// @Tags Activities
// @Accept json
// @Produce json
// @Param viewId path string true "View ID"
// @Param admission path string true "Admission number"
// @Param payload body dto.RecordActivityPaymentRequest true "Activity payment"
// @Success 201 {object} response.Envelope
// @Router /views/activities/{viewId}/payments/{admission} [post]
func (h *ActivityViewHandler) RecordPayment(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	var req dto.RecordActivityPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid activity payment payload"))
		return
	}
	message, err := view.RecordPayment(c.Request.Context(), c.Param("admission"), req)
	if err != nil {
		response.Error(c, err, notificationsMeta(view))
		return
	}
	response.Created(c, dto.RemoteMessage{Message: message}, notificationsMeta(view))
}

func (h *ActivityViewHandler) StageDelete(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	staged, err := view.StageDelete(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, staged)
}

func (h *ActivityViewHandler) StagedDelete(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	if staged, ok := view.StagedDelete(); ok {
		response.JSON(c, http.StatusOK, staged)
		return
	}
	response.JSON(c, http.StatusOK, nil)
}

// ConfirmDelete removes the staged activity record remotely and from the cache.
func (h *ActivityViewHandler) ConfirmDelete(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	if err := view.ConfirmDelete(c.Request.Context()); err != nil {
		response.Error(c, err, notificationsMeta(view))
		return
	}
	response.JSON(c, http.StatusOK, activityState(view), notificationsMeta(view))
}

func (h *ActivityViewHandler) CancelDelete(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	view.CancelDelete()
	response.NoContent(c)
}
