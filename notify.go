package main

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/slog"
)

// Routing keys for admin-action events. Handlers publish these after the
// primary mutation commits; the notification worker turns them into email.
const (
	RKPhotoApproved = "photo.approved"
	RKPhotoRejected = "photo.rejected"
	RKPhotoBest     = "photo.best"
	RKPhotoDeleted  = "photo.deleted"

	RKAdminCreated         = "admin.created"
	RKAdminPasswordChanged = "admin.password_changed"
)

type PhotoModeratedEvent struct {
	PhotoID int64  `json:"photo_id"`
	Name    string `json:"name"`
	Admin   string `json:"admin"`
}

type AdminCreatedEvent struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	AddedBy string `json:"added_by"`
}

type AdminPasswordChangedEvent struct {
	AdminID int64  `json:"admin_id"`
	Email   string `json:"email"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
	Close() error
}

type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        b,
	})
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}

	return nil
}

// LogPublisher is used when no broker is configured; events are visible in
// the logs but nothing is delivered.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, key string, v any) error {
	slog.Info("Event published (log only)", "routing_key", key, "event", v)

	return nil
}

func (LogPublisher) Close() error { return nil }

// NotificationWorker consumes admin-action events and emails the configured
// recipient. It runs in-process alongside the HTTP server.
type NotificationWorker struct {
	cfg    Config
	mailer Mailer

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewNotificationWorker(cfg Config, mailer Mailer) *NotificationWorker {
	return &NotificationWorker{cfg: cfg, mailer: mailer}
}

func (w *NotificationWorker) Connect() error {
	conn, err := amqp.Dial(w.cfg.RabbitURL)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(w.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(w.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range []string{"photo.#", "admin.#"} {
		if err := ch.QueueBind(q.Name, key, w.cfg.Exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("bind queue key=%s: %w", key, err)
		}
	}

	w.conn = conn
	w.ch = ch

	return nil
}

func (w *NotificationWorker) Close() {
	if w.ch != nil {
		_ = w.ch.Close()
	}
	if w.conn != nil {
		_ = w.conn.Close()
	}
}

func (w *NotificationWorker) Run(ctx context.Context) error {
	msgs, err := w.ch.ConsumeWithContext(ctx, w.cfg.Queue, "photoshare-notifier", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			// Email is best-effort: a failed send is logged and the
			// delivery acked so it is not redelivered forever.
			if err := w.handleDelivery(d); err != nil {
				slog.Error("Notification failed", "routing_key", d.RoutingKey, "error", err)
			}
			_ = d.Ack(false)
		}
	}
}

func (w *NotificationWorker) handleDelivery(d amqp.Delivery) error {
	subject, body, err := formatNotification(d.RoutingKey, d.Body)
	if err != nil {
		return err
	}
	if subject == "" {
		slog.Debug("Skipping unknown event", "routing_key", d.RoutingKey)
		return nil
	}

	return w.mailer.Send(w.cfg.NotifyEmail, subject, body)
}

func formatNotification(key string, body []byte) (subject, text string, err error) {
	switch key {
	case RKPhotoApproved:
		ev, err := unmarshalEvent[PhotoModeratedEvent](body)
		if err != nil {
			return "", "", err
		}
		return "Photo approved",
			fmt.Sprintf("Photo %d (%s) was approved by %s.", ev.PhotoID, ev.Name, ev.Admin), nil

	case RKPhotoRejected:
		ev, err := unmarshalEvent[PhotoModeratedEvent](body)
		if err != nil {
			return "", "", err
		}
		return "Photo rejected",
			fmt.Sprintf("Photo %d (%s) was rejected by %s.", ev.PhotoID, ev.Name, ev.Admin), nil

	case RKPhotoBest:
		ev, err := unmarshalEvent[PhotoModeratedEvent](body)
		if err != nil {
			return "", "", err
		}
		return "Photo marked as best",
			fmt.Sprintf("Photo %d (%s) was marked as best by %s.", ev.PhotoID, ev.Name, ev.Admin), nil

	case RKPhotoDeleted:
		ev, err := unmarshalEvent[PhotoModeratedEvent](body)
		if err != nil {
			return "", "", err
		}
		return "Photo deleted",
			fmt.Sprintf("Photo %d (%s) was deleted by %s.", ev.PhotoID, ev.Name, ev.Admin), nil

	case RKAdminCreated:
		ev, err := unmarshalEvent[AdminCreatedEvent](body)
		if err != nil {
			return "", "", err
		}
		return "New admin added",
			fmt.Sprintf("Admin %s <%s> was added by %s.", ev.Name, ev.Email, ev.AddedBy), nil

	case RKAdminPasswordChanged:
		ev, err := unmarshalEvent[AdminPasswordChangedEvent](body)
		if err != nil {
			return "", "", err
		}
		return "Admin password changed",
			fmt.Sprintf("The password for admin %s was changed.", ev.Email), nil
	}

	return "", "", nil
}

func unmarshalEvent[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload: %w", err)
	}

	return t, nil
}
