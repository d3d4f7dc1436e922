package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tenant represents an isolated tax practice (firm).
type Tenant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated user belonging to a practice.
// Client-role users carry a ClientID linking them to the client business
// record they act for.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TenantID     uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	ClientID     *uuid.UUID `db:"client_id" json:"client_id,omitempty"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Client represents a client business managed by the practice.
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TenantID  uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name      string    `db:"name" json:"name"`
	TaxNumber string    `db:"tax_number" json:"tax_number"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TaxFiling is a single tax submission record for one client, tax type, and
// period. Status transitions are enforced by the filing service; the record
// itself carries the review and authority bookkeeping fields.
type TaxFiling struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	TenantID        uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	ClientID        uuid.UUID       `db:"client_id" json:"client_id"`
	TaxType         TaxType         `db:"tax_type" json:"tax_type"`
	TaxYear         int             `db:"tax_year" json:"tax_year"`
	Period          string          `db:"period" json:"period"`
	DeclaredAmount  decimal.Decimal `db:"declared_amount" json:"declared_amount"`
	TaxableAmount   decimal.Decimal `db:"taxable_amount" json:"taxable_amount"`
	ComputedTax     decimal.Decimal `db:"computed_tax" json:"computed_tax"`
	Status          FilingStatus    `db:"status" json:"status"`
	SubmittedBy     *uuid.UUID      `db:"submitted_by" json:"submitted_by,omitempty"`
	SubmittedAt     *time.Time      `db:"submitted_at" json:"submitted_at,omitempty"`
	ReviewedBy      *uuid.UUID      `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time      `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewComments  string          `db:"review_comments" json:"review_comments"`
	AuthorityStatus AuthorityStatus `db:"authority_status" json:"authority_status"`
	AuthorityRef    string          `db:"authority_ref" json:"authority_ref"`
	TransmittedAt   *time.Time      `db:"transmitted_at" json:"transmitted_at,omitempty"`
	CreatedBy       uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// FilingSchedule is a line item owned by a tax filing. The schedule set is
// replaced wholesale on each save while the parent is in draft.
type FilingSchedule struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	FilingID      uuid.UUID       `db:"filing_id" json:"filing_id"`
	TenantID      uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	Description   string          `db:"description" json:"description"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	TaxableAmount decimal.Decimal `db:"taxable_amount" json:"taxable_amount"`
	Position      int             `db:"position" json:"position"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// AssociatePermission is a grant of delegated authority: an associate may act
// on a client's data within one functional area up to a permission level.
// At most one row exists per (associate, client, area); grants past their
// expiry authorize nothing but are only checked at evaluation time.
type AssociatePermission struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	TenantID    uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	AssociateID uuid.UUID       `db:"associate_id" json:"associate_id"`
	ClientID    uuid.UUID       `db:"client_id" json:"client_id"`
	Area        PermissionArea  `db:"area" json:"area"`
	Level       PermissionLevel `db:"level" json:"level"`
	ExpiresAt   *time.Time      `db:"expires_at" json:"expires_at,omitempty"`
	GrantedBy   uuid.UUID       `db:"granted_by" json:"granted_by"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Expired reports whether the grant is past its expiry at the given instant.
func (p *AssociatePermission) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !p.ExpiresAt.After(now)
}

// OnBehalfAction is an append-only audit record of an action an associate
// performed while acting for a client. Only the notification fields are ever
// updated after creation.
type OnBehalfAction struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	TenantID       uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	AssociateID    uuid.UUID       `db:"associate_id" json:"associate_id"`
	ClientID       uuid.UUID       `db:"client_id" json:"client_id"`
	Action         ActionVerb      `db:"action" json:"action"`
	EntityType     EntityType      `db:"entity_type" json:"entity_type"`
	EntityID       uuid.UUID       `db:"entity_id" json:"entity_id"`
	BeforeState    json.RawMessage `db:"before_state" json:"before_state,omitempty"`
	AfterState     json.RawMessage `db:"after_state" json:"after_state,omitempty"`
	Reason         string          `db:"reason" json:"reason"`
	IPAddress      string          `db:"ip_address" json:"ip_address"`
	UserAgent      string          `db:"user_agent" json:"user_agent"`
	ClientNotified bool            `db:"client_notified" json:"client_notified"`
	NotifiedAt     *time.Time      `db:"notified_at" json:"notified_at,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// OnBehalfActionCount is an aggregate row for the audit dashboard.
type OnBehalfActionCount struct {
	Action     ActionVerb `db:"action" json:"action"`
	EntityType EntityType `db:"entity_type" json:"entity_type"`
	Count      int        `db:"count" json:"count"`
}

// FilingAttachment stores metadata about a supporting document uploaded
// against a filing.
type FilingAttachment struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FilingID     uuid.UUID `db:"filing_id" json:"filing_id"`
	TenantID     uuid.UUID `db:"tenant_id" json:"tenant_id"`
	UploadedBy   uuid.UUID `db:"uploaded_by" json:"uploaded_by"`
	FileName     string    `db:"file_name" json:"file_name"`
	OriginalName string    `db:"original_name" json:"original_name"`
	FileType     FileType  `db:"file_type" json:"file_type"`
	FileSize     int64     `db:"file_size" json:"file_size"`
	S3Bucket     string    `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string    `db:"s3_key" json:"s3_key"`
	ContentType  string    `db:"content_type" json:"content_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ValidationIssue is one finding from the pre-submission check.
type ValidationIssue struct {
	Field    string `json:"field"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Blocking bool   `json:"blocking"`
}

// ValidationReport is the result of the read-only pre-submission check.
type ValidationReport struct {
	FilingID  uuid.UUID         `json:"filing_id"`
	CanSubmit bool              `json:"can_submit"`
	Issues    []ValidationIssue `json:"issues"`
}

// BlockingIssues returns only the issues that prevent submission.
func (r *ValidationReport) BlockingIssues() []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Blocking {
			out = append(out, issue)
		}
	}
	return out
}
