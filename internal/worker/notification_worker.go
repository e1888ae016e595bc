package worker

// notification_worker.go
// Processes sample-order lifecycle emails from QueueNotification.
// Submission events go to the approval inbox, decision events to the order
// owner. A PDF summary of the order is attached when it can be generated.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Verone2021/Verone-V1-sub003/internal/infra"
	"github.com/Verone2021/Verone-V1-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type NotificationWorker struct {
	orderRepo      repository.SampleOrderRepository
	userRepo       repository.UserRepository
	mailer         *infra.Mailer
	pdfStoragePath string
	approvalEmail  string
}

func NewNotificationWorker(
	orderRepo repository.SampleOrderRepository,
	userRepo repository.UserRepository,
	mailer *infra.Mailer,
	pdfStoragePath string,
	approvalEmail string,
) *NotificationWorker {
	return &NotificationWorker{
		orderRepo:      orderRepo,
		userRepo:       userRepo,
		mailer:         mailer,
		pdfStoragePath: pdfStoragePath,
		approvalEmail:  approvalEmail,
	}
}

// Process loads the order, renders the PDF summary and sends the email for
// the event. Any failure is logged and the job is dropped, a lost email
// never blocks the order lifecycle.
func (w *NotificationWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload NotificationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Str("order_id", payload.OrderID).Msg("notification_worker: invalid order_id")
		return
	}

	order, err := w.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("notification_worker: order not found")
		return
	}

	pdfPath, pdfErr := infra.GenerateSampleOrderPDF(order, w.pdfStoragePath)
	if pdfErr != nil {
		log.Warn().Err(pdfErr).Str("order_id", payload.OrderID).Msg("notification_worker: PDF generation failed, sending without attachment")
		pdfPath = ""
	}

	var to, subject, body string
	switch payload.Event {
	case EventOrderSubmitted:
		to = w.approvalEmail
		subject = fmt.Sprintf("Commande d'échantillons à valider — %s", shortID(order.ID))
		body = fmt.Sprintf(
			"Une commande d'échantillons (%d article(s), total estimé %s €) attend votre validation.",
			len(order.Items), order.EstimatedTotal.StringFixed(2))
	case EventOrderApproved:
		owner, err := w.userRepo.FindByID(ctx, order.OwnerID)
		if err != nil {
			log.Error().Err(err).Str("order_id", payload.OrderID).Msg("notification_worker: owner not found")
			return
		}
		to = owner.Email
		subject = fmt.Sprintf("Commande d'échantillons approuvée — %s", shortID(order.ID))
		body = fmt.Sprintf(
			"Votre commande d'échantillons a été approuvée et peut être transmise au fournisseur.\nTotal estimé : %s €",
			order.EstimatedTotal.StringFixed(2))
	default:
		log.Warn().Str("event", payload.Event).Msg("notification_worker: unknown event — skipping")
		return
	}

	if to == "" {
		log.Warn().Str("event", payload.Event).Msg("notification_worker: empty recipient — skipping")
		return
	}

	if err := w.mailer.SendSampleOrder(to, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", to).Str("order_id", payload.OrderID).Msg("notification_worker: failed to send email")
		return
	}
	log.Info().Str("to", to).Str("event", payload.Event).Msg("notification_worker: email sent")
}

func shortID(id uuid.UUID) string {
	s := id.String()
	return s[:8]
}
