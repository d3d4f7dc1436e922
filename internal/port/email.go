package port

import (
	"context"

	"taxdesk/internal/domain"
)

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendOnBehalfNotice(ctx context.Context, toEmail, toName, associateName string, action *domain.OnBehalfAction) error
	SendPermissionNotice(ctx context.Context, toEmail, toName string, perm *domain.AssociatePermission) error
}
