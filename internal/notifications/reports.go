package notifications

import (
	"context"
	"fmt"

	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/sirupsen/logrus"
)

const maxTargetLabelLength = 30

// TargetLabeler resolves a human-readable label for a reported object: the
// song title, the user's name, or the moment/comment text.
type TargetLabeler interface {
	Label(ctx context.Context, targetType, targetID string) (string, error)
}

// NotifyReportResolved composes and sends the one-shot notification telling a
// reporter their report was handled. It reuses the create path directly: these
// are rare, one-per-report events and never merge. Reports still pending, or
// without a reporter, produce nothing.
func (e *Engine) NotifyReportResolved(ctx context.Context, report *models.Report, resolverID string) error {
	if report.Status == models.ReportStatusPending || report.ReporterID == "" {
		return nil
	}

	label := report.TargetID
	if e.labeler != nil {
		resolved, err := e.labeler.Label(ctx, report.TargetType, report.TargetID)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"target_type": report.TargetType,
				"target_id":   report.TargetID,
			}).Warn("report target label lookup failed")
		} else if resolved != "" {
			label = resolved
		}
	}
	label = truncateLabel(label)

	var action string
	switch report.Status {
	case models.ReportStatusResolved:
		action = "has been handled"
	case models.ReportStatusRejected:
		action = "was dismissed"
	default:
		return nil
	}

	message := fmt.Sprintf("Your report about the %s %q %s.", targetTypeText(report.TargetType), label, action)
	reportID := report.ID
	_, err := e.createAndSend(report.ReporterID, resolverID, &reportID, models.NotificationTypeSystem, TitleFor(models.NotificationTypeSystem), message)
	return err
}

func targetTypeText(targetType string) string {
	switch targetType {
	case models.ReportTargetSong:
		return "song"
	case models.ReportTargetUser:
		return "user"
	case models.ReportTargetMoment:
		return "post"
	case models.ReportTargetComment:
		return "comment"
	default:
		return "item"
	}
}

func truncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= maxTargetLabelLength {
		return label
	}
	return string(runes[:maxTargetLabelLength]) + "..."
}
