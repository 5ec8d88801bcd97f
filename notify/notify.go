package notify

import (
	"context"

	"buildflow-api/models"
)

// Notifier bundles the outbound collaborators behind the task queue. Handlers
// call these after the primary write commits; nothing here can fail a request.
type Notifier struct {
	Queue  *Queue
	Mailer Mailer
	Pusher Pusher
}

func New(queue *Queue, mailer Mailer, pusher Pusher) *Notifier {
	return &Notifier{Queue: queue, Mailer: mailer, Pusher: pusher}
}

func (n *Notifier) OrderConfirmation(email, customerName string, order *models.Order) {
	if n == nil || email == "" {
		return
	}
	n.Queue.Enqueue("order-confirmation", func(ctx context.Context) error {
		return n.Mailer.SendOrderConfirmation(ctx, email, customerName, order)
	})
}

func (n *Notifier) OrderStatusEmail(email string, order *models.Order, status models.OrderStatus) {
	if n == nil || email == "" {
		return
	}
	n.Queue.Enqueue("order-status-email", func(ctx context.Context) error {
		return n.Mailer.SendOrderStatusUpdate(ctx, email, order, status)
	})
}

func (n *Notifier) Push(token, title, body string, data map[string]string) {
	if n == nil || token == "" {
		return
	}
	n.Queue.Enqueue("push", func(ctx context.Context) error {
		return n.Pusher.Send(ctx, token, title, body, data)
	})
}
