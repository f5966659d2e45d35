package handler

import "github.com/gin-gonic/gin"

// RegisterViewRoutes mounts the per-view state container endpoints on group.
func RegisterViewRoutes(group *gin.RouterGroup, students *StudentViewHandler, activities *ActivityViewHandler) {
	studentViews := group.Group("/views/students")
	studentViews.POST("", students.Mount)
	studentViews.GET("/:viewId", students.Get)
	studentViews.DELETE("/:viewId", students.Unmount)
	studentViews.POST("/:viewId/reload", students.Reload)
	studentViews.PATCH("/:viewId/filter", students.UpdateFilter)
	studentViews.DELETE("/:viewId/filter", students.ClearFilter)
	studentViews.DELETE("/:viewId/filter/grade", students.ClearGrade)
	studentViews.DELETE("/:viewId/filter/search", students.ClearSearch)
	studentViews.POST("/:viewId/students", students.Create)
	studentViews.PATCH("/:viewId/students/:id/fee", students.UpdateFee)
	studentViews.POST("/:viewId/students/:id/delete", students.StageDelete)
	studentViews.GET("/:viewId/delete", students.StagedDelete)
	studentViews.DELETE("/:viewId/delete", students.CancelDelete)
	studentViews.POST("/:viewId/delete/confirm", students.ConfirmDelete)
	studentViews.GET("/:viewId/lookup/:admission", students.Lookup)
	studentViews.POST("/:viewId/payments/:admission", students.RecordPaymentUpdate)
	studentViews.POST("/:viewId/fees/:admission", students.RecordFeePayment)
	studentViews.GET("/:viewId/export", students.Export)

	activityViews := group.Group("/views/activities")
	activityViews.POST("", activities.Mount)
	activityViews.GET("/:viewId", activities.Get)
	activityViews.DELETE("/:viewId", activities.Unmount)
	activityViews.POST("/:viewId/reload", activities.Reload)
	activityViews.PATCH("/:viewId/filter", activities.UpdateFilter)
	activityViews.DELETE("/:viewId/filter", activities.ClearFilter)
	activityViews.DELETE("/:viewId/filter/grade", activities.ClearGrade)
	activityViews.DELETE("/:viewId/filter/search", activities.ClearSearch)
	activityViews.GET("/:viewId/lookup/:admission", activities.LookupStudent)
	activityViews.PATCH("/:viewId/payments/:admission", activities.UpdatePayment)
	activityViews.POST("/:viewId/payments/:admission", activities.RecordPayment)
	activityViews.POST("/:viewId/activities/:id/delete", activities.StageDelete)
	activityViews.GET("/:viewId/delete", activities.StagedDelete)
	activityViews.DELETE("/:viewId/delete", activities.CancelDelete)
	activityViews.POST("/:viewId/delete/confirm", activities.ConfirmDelete)
}
