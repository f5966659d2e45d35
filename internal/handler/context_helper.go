package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fee-tracker-console/internal/service"
	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
	"github.com/noah-isme/fee-tracker-console/pkg/logger"
)

type notificationSource interface {
	Notifications() *service.NotificationFeed
}

func viewID(c *gin.Context) string {
	return c.Param(logger.ViewIDParam)
}

func int64Param(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+" "+raw)
	}
	return id, nil
}

// notificationsMeta drains the view's pending notifications into response metadata.
func notificationsMeta(src notificationSource) map[string]interface{} {
	notes := src.Notifications().Drain()
	if len(notes) == 0 {
		return nil
	}
	return map[string]interface{}{"notifications": notes}
}
