package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"hvac-service/internal/entities"
	"hvac-service/internal/services"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService services.ReportServiceInterface
	location      *time.Location
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, location *time.Location, logger *zap.Logger) *ReportController {
	if location == nil {
		location = time.UTC
	}
	return &ReportController{reportService: reportService, location: location, logger: logger}
}

func (c *ReportController) Summary(ctx echo.Context) error {
	res, err := c.reportService.Summary(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Summary", http.StatusOK)
}

// ExportWorkOrders streams an xlsx workbook. Supported query parameters:
// date_from, date_to (YYYY-MM-DD, inclusive), site_id and status (comma separated).
func (c *ReportController) ExportWorkOrders(ctx echo.Context) error {
	filter, err := c.parseFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	buf, err := c.reportService.ExportWorkOrders(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileName := fmt.Sprintf("work-orders-%s.xlsx", time.Now().In(c.location).Format("20060102-1504"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (c *ReportController) parseFilter(ctx echo.Context) (entities.ReportFilter, error) {
	var filter entities.ReportFilter
	for name, dst := range map[string]**time.Time{"date_from": &filter.DateFrom, "date_to": &filter.DateTo} {
		raw := strings.TrimSpace(ctx.QueryParam(name))
		if raw == "" {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02", raw, c.location)
		if err != nil {
			return filter, apperrors.NewInvalidInputError("%s must be a date in YYYY-MM-DD format", name)
		}
		*dst = &t
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return filter, apperrors.NewInvalidInputError("date_to must not be before date_from")
	}

	filter.SiteID = strings.TrimSpace(ctx.QueryParam("site_id"))

	if raw := ctx.QueryParam("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			s := constants.WorkOrderStatus(strings.ToUpper(strings.TrimSpace(part)))
			if s == "" {
				continue
			}
			if !s.Valid() {
				return filter, apperrors.NewInvalidInputError("unknown status %q", part)
			}
			filter.Statuses = append(filter.Statuses, s)
		}
	}
	return filter, nil
}
