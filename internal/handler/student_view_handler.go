package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fee-tracker-console/internal/dto"
	"github.com/noah-isme/fee-tracker-console/internal/models"
	"github.com/noah-isme/fee-tracker-console/internal/service"
	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
	"github.com/noah-isme/fee-tracker-console/pkg/response"
)

type studentViewRegistry interface {
	MountStudents(ctx context.Context) (*service.StudentFeeView, error)
	Students(id string) (*service.StudentFeeView, error)
	UnmountStudents(id string) error
}

type studentExporter interface {
	ExportStudentsJSON(students []models.Student) (*service.ExportResult, error)
}

// StudentViewHandler exposes the student fee page state container.
type StudentViewHandler struct {
	views    studentViewRegistry
	exporter studentExporter
}

// NewStudentViewHandler builds a new handler.
func NewStudentViewHandler(views studentViewRegistry, exporter studentExporter) *StudentViewHandler {
	return &StudentViewHandler{views: views, exporter: exporter}
}

func studentState(view *service.StudentFeeView) dto.StudentViewState {
	return dto.StudentViewState{
		ViewID:   view.ID(),
		Loaded:   view.Loaded(),
		Total:    view.Total(),
		Filter:   view.Filter(),
		Students: view.Visible(),
	}
}

func (h *StudentViewHandler) view(c *gin.Context) (*service.StudentFeeView, bool) {
	view, err := h.views.Students(viewID(c))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return view, true
}

// Mount godoc
// @Summary Mount a student fee view
// @Description Creates a view and loads the full student collection once. A failed load still mounts the view.
// @Tags Students
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /views/students [post]
func (h *StudentViewHandler) Mount(c *gin.Context) {
	view, err := h.views.MountStudents(c.Request.Context())
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
	response.Created(c, studentState(view), meta)
}

// Get godoc
// @Summary Visible rows of a student fee view
// @Tags Students
// @Produce json
// @Param viewId path string true "View ID"
// @Success 200 {object} response.Envelope
// @Router /views/students/{viewId} [get]
func (h *StudentViewHandler) Get(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, studentState(view), notificationsMeta(view))
}

// Reload re-reads the collection into the view.
func (h *StudentViewHandler) Reload(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	if err := view.Load(c.Request.Context()); err != nil {
		response.Error(c, err, notificationsMeta(view))
		return
	}
	response.JSON(c, http.StatusOK, studentState(view), notificationsMeta(view))
}

// Unmount discards the view.
func (h *StudentViewHandler) Unmount(c *gin.Context) {
	if err := h.views.UnmountStudents(viewID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateFilter godoc
// @Summary Update the view filter
// @Tags Students
// @Accept json
// @Produce json
// @Param viewId path string true "View ID"
// @Param payload body dto.FilterPatch true "Filter predicates"
// @Success 200 {object} response.Envelope
// @Router /views/students/{viewId}/filter [patch]
func (h *StudentViewHandler) UpdateFilter(c *gin.Context) {
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
	response.JSON(c, http.StatusOK, studentState(view))
}

func (h *StudentViewHandler) ClearFilter(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	view.ClearFilter()
	response.JSON(c, http.StatusOK, studentState(view))
}

func (h *StudentViewHandler) ClearGrade(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	view.ClearGrade()
	response.JSON(c, http.StatusOK, studentState(view))
}

func (h *StudentViewHandler) ClearSearch(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	view.ClearSearch()
	response.JSON(c, http.StatusOK, studentState(view))
}

// UpdateFee godoc
// @Summary Optimistically update a student's paid amount
// @Description The cached record changes immediately and is restored verbatim if the fee service rejects the write.
// @Tags Students
// @Accept json
// @Produce json
// @Param viewId path string true "View ID"
// @Param id path int true "Student ID"
// @Param payload body dto.UpdateFeeRequest true "New paid amount"
// @Success 200 {object} response.Envelope
// @Router /views/students/{viewId}/students/{id}/fee [patch]
func (h *StudentViewHandler) UpdateFee(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AmountPaid == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "amountPaid is required"))
		return
	}
	row, err := view.UpdateFee(c.Request.Context(), id, *req.AmountPaid)
	if err != nil {
		response.Error(c, err, notificationsMeta(view))
		return
	}
	response.JSON(c, http.StatusOK, row, notificationsMeta(view))
}

// Create godoc
// @Summary Add a student
// @Tags Students
// @Accept json
// @Produce json
// @Param viewId path string true "View ID"
// @Param payload body dto.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /views/students/{viewId}/students [post]
func (h *StudentViewHandler) Create(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}
	row, err := view.CreateStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err, notificationsMeta(view))
		return
	}
	response.Created(c, row, notificationsMeta(view))
}

// StageDelete marks a student for deletion.
func (h *StudentViewHandler) StageDelete(c *gin.Context) {
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

// StagedDelete returns the pending candidate or null.
func (h *StudentViewHandler) StagedDelete(c *gin.Context) {
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

// ConfirmDelete godoc
// @Summary Delete the staged student
// @Tags Students
// @Produce json
// @Param viewId path string true "View ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /views/students/{viewId}/delete/confirm [post]
func (h *StudentViewHandler) ConfirmDelete(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	if err := view.ConfirmDelete(c.Request.Context()); err != nil {
		response.Error(c, err, notificationsMeta(view))
		return
	}
	response.JSON(c, http.StatusOK, studentState(view), notificationsMeta(view))
}

func (h *StudentViewHandler) CancelDelete(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	view.CancelDelete()
	response.NoContent(c)
}

// Lookup godoc
// @Summary Find a student by admission number
// @Tags Students
// @Produce json
// @Param viewId path string true "View ID"
// @Param admission path string true "Admission number"
// @Success 200 {object} response.Envelope
// @Router /views/students/{viewId}/lookup/{admission} [get]
func (h *StudentViewHandler) Lookup(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	row, err := view.Lookup(c.Request.Context(), c.Param("admission"))
	if err != nil {
		response.Error(c, err, notificationsMeta(view))
		return
	}
	response.JSON(c, http.StatusOK, row, notificationsMeta(view))
}

// RecordPaymentUpdate forwards an update_payment for an admission number.
func (h *StudentViewHandler) RecordPaymentUpdate(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}
	message, err := view.RecordPaymentUpdate(c.Request.Context(), c.Param("admission"), req)
	if err != nil {
		response.Error(c, err, notificationsMeta(view))
		return
	}
	response.JSON(c, http.StatusOK, dto.RemoteMessage{Message: message}, notificationsMeta(view))
}

// RecordFeePayment forwards a general fee payment for an admission number.
func (h *StudentViewHandler) RecordFeePayment(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	var req dto.FeePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}
	message, err := view.RecordFeePayment(c.Request.Context(), c.Param("admission"), req)
	if err != nil {
		response.Error(c, err, notificationsMeta(view))
		return
	}
	response.Created(c, dto.RemoteMessage{Message: message}, notificationsMeta(view))
}

// Export godoc
// @Summary Download the view's cached students as JSON
// @Tags Students
// @Produce json
// @Param viewId path string true "View ID"
// @Success 200 {file} file
// @Router /views/students/{viewId}/export [get]
func (h *StudentViewHandler) Export(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	result, err := h.exporter.ExportStudentsJSON(view.Students())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}
