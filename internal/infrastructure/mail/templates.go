package mail

import (
	"fmt"

	"shelf-market.backend/internal/domain/entities"
)

// TemplateContext carries the values the fixed per-event templates render
type TemplateContext struct {
	RecipientName string
	CompanyName   string
	RecordID      string // formId or orderId
	FromStatus    string
	ToStatus      string
	Reason        string
	Notes         string
}

// Render builds subject, HTML body and text body for a notification event
func Render(event entities.NotificationEvent, ctx TemplateContext) (subject, htmlBody, textBody string) {
	switch event {
	case entities.NotificationFormSubmitted:
		subject = fmt.Sprintf("Transfer application received for %s", ctx.CompanyName)
		textBody = fmt.Sprintf(
			"Dear %s,\n\nWe have received your ownership transfer application %s for %s. "+
				"It is now under review. We will contact you if any amendments are required.\n",
			ctx.RecipientName, ctx.RecordID, ctx.CompanyName)

	case entities.NotificationAmendmentRequired:
		subject = fmt.Sprintf("Amendments required for %s", ctx.CompanyName)
		textBody = fmt.Sprintf(
			"Dear %s,\n\nYour transfer application %s requires amendments before it can proceed.\n\n%s\n\n"+
				"Please update the application and resubmit.\n",
			ctx.RecipientName, ctx.RecordID, ctx.Notes)

	case entities.NotificationTransferComplete:
		subject = fmt.Sprintf("Ownership transfer complete for %s", ctx.CompanyName)
		textBody = fmt.Sprintf(
			"Dear %s,\n\nThe ownership transfer for %s (application %s) is complete. "+
				"The company is now registered to the new owners.\n",
			ctx.RecipientName, ctx.CompanyName, ctx.RecordID)

	case entities.NotificationFormStatusChanged:
		subject = fmt.Sprintf("Application %s status update", ctx.RecordID)
		textBody = fmt.Sprintf(
			"Dear %s,\n\nYour transfer application %s moved from %s to %s.\n",
			ctx.RecipientName, ctx.RecordID, ctx.FromStatus, ctx.ToStatus)

	case entities.NotificationOrderStatusChanged:
		subject = fmt.Sprintf("Order %s status update", ctx.RecordID)
		textBody = fmt.Sprintf(
			"Dear %s,\n\nYour order %s for %s moved from %s to %s.\n",
			ctx.RecipientName, ctx.RecordID, ctx.CompanyName, ctx.FromStatus, ctx.ToStatus)

	case entities.NotificationRefundResolved:
		subject = fmt.Sprintf("Refund update for order %s", ctx.RecordID)
		textBody = fmt.Sprintf(
			"Dear %s,\n\nYour refund request for order %s has been %s.\n\n%s\n",
			ctx.RecipientName, ctx.RecordID, ctx.ToStatus, ctx.Notes)

	default:
		subject = fmt.Sprintf("Update on %s", ctx.RecordID)
		textBody = fmt.Sprintf("Dear %s,\n\nThere is an update on %s.\n", ctx.RecipientName, ctx.RecordID)
	}

	htmlBody = toHTML(textBody)
	return subject, htmlBody, textBody
}

func toHTML(text string) string {
	return "<html><body><p style=\"white-space: pre-line; font-family: sans-serif;\">" +
		text + "</p></body></html>"
}
