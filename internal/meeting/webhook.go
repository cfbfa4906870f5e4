package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// webhookProvisioner talks to the conferencing provider over a simple
// JSON-over-HTTP contract. Only the call contract matters here; the
// provider's own wire protocol is behind its endpoint.
type webhookProvisioner struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewWebhookProvisioner creates a Provisioner backed by an HTTP endpoint.
func NewWebhookProvisioner(baseURL string, logger *zap.Logger) Provisioner {
	return &webhookProvisioner{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type meetingRequest struct {
	RequestID     string    `json:"request_id"`
	BookingID     string    `json:"booking_id"`
	EventTypeName string    `json:"event_type_name"`
	GuestName     string    `json:"guest_name"`
	GuestEmail    string    `json:"guest_email"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

type meetingResponse struct {
	Link       string `json:"link"`
	ExternalID string `json:"external_id"`
}

func (p *webhookProvisioner) do(ctx context.Context, method, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal meeting request: %w", err)
	}

	backoff := retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("meeting provider returned %d", resp.StatusCode))
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("meeting provider returned %d", resp.StatusCode)
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decode meeting provider response: %w", err)
			}
		}
		return nil
	})
}

func (p *webhookProvisioner) Create(ctx context.Context, spec Spec) (*Details, error) {
	payload := meetingRequest{
		RequestID:     uuid.NewString(),
		BookingID:     spec.BookingID,
		EventTypeName: spec.EventTypeName,
		GuestName:     spec.GuestName,
		GuestEmail:    spec.GuestEmail,
		StartTime:     spec.StartTime,
		EndTime:       spec.EndTime,
	}

	var out meetingResponse
	if err := p.do(ctx, http.MethodPost, p.baseURL+"/meetings", payload, &out); err != nil {
		return nil, err
	}

	p.logger.Info("meeting provisioned",
		zap.String("booking_id", spec.BookingID),
		zap.String("external_id", out.ExternalID))

	return &Details{Link: out.Link, ExternalID: out.ExternalID}, nil
}

func (p *webhookProvisioner) Update(ctx context.Context, externalID string, spec Spec) error {
	payload := meetingRequest{
		RequestID:     uuid.NewString(),
		BookingID:     spec.BookingID,
		EventTypeName: spec.EventTypeName,
		GuestName:     spec.GuestName,
		GuestEmail:    spec.GuestEmail,
		StartTime:     spec.StartTime,
		EndTime:       spec.EndTime,
	}
	return p.do(ctx, http.MethodPut, p.baseURL+"/meetings/"+externalID, payload, nil)
}

func (p *webhookProvisioner) Delete(ctx context.Context, externalID string) error {
	return p.do(ctx, http.MethodDelete, p.baseURL+"/meetings/"+externalID, struct{}{}, nil)
}
