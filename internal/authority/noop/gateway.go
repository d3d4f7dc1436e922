package noop

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

type gateway struct{}

// NewGateway creates an AuthorityGateway stand-in for environments without a
// real authority endpoint. Every transmission is acknowledged as pending.
func NewGateway() port.AuthorityGateway {
	return &gateway{}
}

func (g *gateway) Transmit(_ context.Context, filing *domain.TaxFiling, schedules []domain.FilingSchedule) (*port.TransmitResult, error) {
	ref := fmt.Sprintf("NOOP-%s", uuid.New().String()[:8])
	log.Printf("[NOOP AUTHORITY] transmit filing %s (%s %d, %d lines) -> %s",
		filing.ID, filing.TaxType, filing.TaxYear, len(schedules), ref)
	return &port.TransmitResult{Reference: ref, Status: domain.AuthorityStatusPending}, nil
}

func (g *gateway) Status(_ context.Context, reference string) (domain.AuthorityStatus, error) {
	log.Printf("[NOOP AUTHORITY] status poll for %s", reference)
	return domain.AuthorityStatusPending, nil
}
