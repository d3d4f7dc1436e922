package httpgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"taxdesk/internal/config"
	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

type gateway struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewGateway creates an AuthorityGateway that talks to the tax authority's
// REST submission API.
func NewGateway(cfg *config.AuthorityConfig) port.AuthorityGateway {
	return &gateway{
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

type submitPayload struct {
	TaxNumber string            `json:"tax_number,omitempty"`
	TaxType   domain.TaxType    `json:"tax_type"`
	TaxYear   int               `json:"tax_year"`
	Period    string            `json:"period"`
	Declared  decimal.Decimal   `json:"declared_amount"`
	Taxable   decimal.Decimal   `json:"taxable_amount"`
	TaxDue    decimal.Decimal   `json:"tax_due"`
	Lines     []submitLine      `json:"lines"`
	Reference map[string]string `json:"reference"`
}

type submitLine struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Taxable     decimal.Decimal `json:"taxable_amount"`
}

type submitResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (g *gateway) Transmit(ctx context.Context, filing *domain.TaxFiling, schedules []domain.FilingSchedule) (*port.TransmitResult, error) {
	payload := submitPayload{
		TaxType:  filing.TaxType,
		TaxYear:  filing.TaxYear,
		Period:   filing.Period,
		Declared: filing.DeclaredAmount,
		Taxable:  filing.TaxableAmount,
		TaxDue:   filing.ComputedTax,
		Reference: map[string]string{
			"filing_id": filing.ID.String(),
		},
	}
	for i := range schedules {
		payload.Lines = append(payload.Lines, submitLine{
			Description: schedules[i].Description,
			Amount:      schedules[i].Amount,
			Taxable:     schedules[i].TaxableAmount,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("authority.Transmit marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/filings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("authority.Transmit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authority.Transmit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("authority.Transmit: unexpected status %d", resp.StatusCode)
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("authority.Transmit decode: %w", err)
	}
	return &port.TransmitResult{
		Reference: out.Reference,
		Status:    mapStatus(out.Status),
	}, nil
}

// statusAttempts bounds retries on the status poll. The poll is an idempotent
// GET; Transmit is never retried.
const statusAttempts = 3

func (g *gateway) Status(ctx context.Context, reference string) (domain.AuthorityStatus, error) {
	var lastErr error
	for attempt := 0; attempt < statusAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		status, err := g.fetchStatus(ctx, reference)
		if err == nil {
			return status, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func (g *gateway) fetchStatus(ctx context.Context, reference string) (domain.AuthorityStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/filings/"+reference, nil)
	if err != nil {
		return "", fmt.Errorf("authority.Status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("authority.Status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("authority.Status: unexpected status %d", resp.StatusCode)
	}

	var out statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("authority.Status decode: %w", err)
	}
	return mapStatus(out.Status), nil
}

func mapStatus(s string) domain.AuthorityStatus {
	switch s {
	case "accepted":
		return domain.AuthorityStatusAccepted
	case "rejected":
		return domain.AuthorityStatusRejected
	default:
		return domain.AuthorityStatusPending
	}
}
