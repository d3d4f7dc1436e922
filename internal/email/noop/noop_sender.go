package noop

import (
	"context"
	"log"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs notices to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendOnBehalfNotice(_ context.Context, toEmail, toName, associateName string, action *domain.OnBehalfAction) error {
	log.Printf("[NOOP EMAIL] On-behalf notice for %s (%s): %s did %s %s", toName, toEmail, associateName, action.Action, action.EntityType)
	return nil
}

func (s *noopSender) SendPermissionNotice(_ context.Context, toEmail, toName string, perm *domain.AssociatePermission) error {
	log.Printf("[NOOP EMAIL] Permission notice for %s (%s): %s on %s", toName, toEmail, perm.Level, perm.Area)
	return nil
}
