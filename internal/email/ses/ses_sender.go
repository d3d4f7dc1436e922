package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func (s *sesSender) SendOnBehalfNotice(ctx context.Context, toEmail, toName, associateName string, action *domain.OnBehalfAction) error {
	subject := "An action was taken on your account"
	textBody := fmt.Sprintf(
		"Hi %s,\n\n%s performed the following action on your behalf: %s %s.\nReason given: %s\nTime: %s\n\nIf you did not expect this, contact your practice administrator.\n\nTaxDesk Team",
		toName, associateName, action.Action, action.EntityType, action.Reason,
		action.CreatedAt.Format("2 Jan 2006 15:04 MST"))
	htmlBody := buildOnBehalfHTML(toName, associateName, action)
	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendPermissionNotice(ctx context.Context, toEmail, toName string, perm *domain.AssociatePermission) error {
	subject := "Delegated access to your account was updated"
	expiry := "no expiry"
	if perm.ExpiresAt != nil {
		expiry = perm.ExpiresAt.Format("2 Jan 2006")
	}
	textBody := fmt.Sprintf(
		"Hi %s,\n\nAn associate of your practice was granted %s access to your %s (%s).\n\nIf you did not expect this, contact your practice administrator.\n\nTaxDesk Team",
		toName, perm.Level, perm.Area, expiry)
	htmlBody := buildPermissionHTML(toName, perm, expiry)
	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func buildOnBehalfHTML(name, associateName string, action *domain.OnBehalfAction) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Action taken on your account</h2>
  <p>Hi %s,</p>
  <p><strong>%s</strong> performed the following action on your behalf:</p>
  <p style="background: #f5f5f5; padding: 12px; border-radius: 6px;">%s %s<br>
  Reason: %s<br>
  Time: %s</p>
  <p>If you did not expect this, contact your practice administrator.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">TaxDesk - Tax Practice Management</p>
</body>
</html>`, name, associateName, action.Action, action.EntityType, action.Reason,
		action.CreatedAt.Format("2 Jan 2006 15:04 MST"))
}

func buildPermissionHTML(name string, perm *domain.AssociatePermission, expiry string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Delegated access updated</h2>
  <p>Hi %s,</p>
  <p>An associate of your practice was granted <strong>%s</strong> access to your <strong>%s</strong> (%s).</p>
  <p>If you did not expect this, contact your practice administrator.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">TaxDesk - Tax Practice Management</p>
</body>
</html>`, name, perm.Level, perm.Area, expiry)
}
