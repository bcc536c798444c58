package services

import (
	"fmt"
	"time"

	"hvac-service/internal/entities"
)

const displayFallbackLength = 8

// FormatNumberPrefix renders the YYMMDD prefix of a display number. The year is
// shifted by yearOffset (543 for the Buddhist calendar) before taking its last
// two digits.
func FormatNumberPrefix(date time.Time, yearOffset int) string {
	year := (date.Year() + yearOffset) % 100
	return fmt.Sprintf("%02d%02d%02d", year, int(date.Month()), date.Day())
}

func FormatNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// DisplayNumber returns the stored number, or the tail of the id for rows
// created before numbering existed.
func DisplayNumber(wo *entities.WorkOrder) string {
	if wo.Number != nil && *wo.Number != "" {
		return *wo.Number
	}
	if len(wo.ID) <= displayFallbackLength {
		return wo.ID
	}
	return wo.ID[len(wo.ID)-displayFallbackLength:]
}
