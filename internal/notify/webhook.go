package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// webhookDispatcher posts messages to the notification delivery service.
type webhookDispatcher struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookDispatcher creates a Dispatcher backed by an HTTP endpoint.
func NewWebhookDispatcher(url string, logger *zap.Logger) Dispatcher {
	return &webhookDispatcher{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type messageBody struct {
	Kind           Kind      `json:"kind"`
	BookingID      string    `json:"booking_id"`
	OwnerID        string    `json:"owner_id,omitempty"`
	EventTypeName  string    `json:"event_type_name"`
	RecipientName  string    `json:"recipient_name"`
	RecipientEmail string    `json:"recipient_email"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Timezone       string    `json:"timezone"`
	MeetingLink    string    `json:"meeting_link,omitempty"`
	Reason         string    `json:"reason,omitempty"`
}

func (d *webhookDispatcher) send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(messageBody{
		Kind:           msg.Kind,
		BookingID:      msg.BookingID,
		OwnerID:        msg.OwnerID,
		EventTypeName:  msg.EventTypeName,
		RecipientName:  msg.RecipientName,
		RecipientEmail: msg.RecipientEmail,
		StartTime:      msg.StartTime,
		EndTime:        msg.EndTime,
		Timezone:       msg.Timezone,
		MeetingLink:    msg.MeetingLink,
		Reason:         msg.Reason,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	backoff := retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("notification service returned %d", resp.StatusCode))
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("notification service returned %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("send %s notification: %w", msg.Kind, err)
	}

	d.logger.Debug("notification sent",
		zap.String("kind", string(msg.Kind)),
		zap.String("booking_id", msg.BookingID),
		zap.String("recipient", msg.RecipientEmail))
	return nil
}

func (d *webhookDispatcher) SendConfirmation(ctx context.Context, msg Message) error {
	if msg.Kind == "" {
		msg.Kind = KindConfirmation
	}
	return d.send(ctx, msg)
}

func (d *webhookDispatcher) SendCancellation(ctx context.Context, msg Message) error {
	if msg.Kind == "" {
		msg.Kind = KindCancellation
	}
	return d.send(ctx, msg)
}

func (d *webhookDispatcher) SendReminder(ctx context.Context, msg Message) error {
	msg.Kind = KindReminder
	return d.send(ctx, msg)
}

// logDispatcher is used when no delivery endpoint is configured. It keeps
// local development working without an external service.
type logDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a Dispatcher that only logs.
func NewLogDispatcher(logger *zap.Logger) Dispatcher {
	return &logDispatcher{logger: logger}
}

func (d *logDispatcher) log(msg Message, kind Kind) error {
	if msg.Kind == "" {
		msg.Kind = kind
	}
	d.logger.Info("notification (log only)",
		zap.String("kind", string(msg.Kind)),
		zap.String("booking_id", msg.BookingID),
		zap.String("recipient", msg.RecipientEmail))
	return nil
}

func (d *logDispatcher) SendConfirmation(_ context.Context, msg Message) error {
	return d.log(msg, KindConfirmation)
}

func (d *logDispatcher) SendCancellation(_ context.Context, msg Message) error {
	return d.log(msg, KindCancellation)
}

func (d *logDispatcher) SendReminder(_ context.Context, msg Message) error {
	return d.log(msg, KindReminder)
}
