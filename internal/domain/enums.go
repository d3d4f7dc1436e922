package domain

// UserRole defines the role hierarchy within a practice.
type UserRole string

const (
	RoleSystemAdmin UserRole = "system_admin"
	RoleAdmin       UserRole = "admin"
	RoleAssociate   UserRole = "associate"
	RoleClient      UserRole = "client"
)

// IsReviewer reports whether the role may review submitted filings.
func (r UserRole) IsReviewer() bool {
	return r == RoleAdmin || r == RoleSystemAdmin
}

// TaxType enumerates the filing tax regimes supported by the platform.
type TaxType string

const (
	TaxTypeGST                TaxType = "gst"
	TaxTypeIncomeTax          TaxType = "income_tax"
	TaxTypePAYE               TaxType = "paye"
	TaxTypeWithholdingTax     TaxType = "withholding_tax"
	TaxTypeCorporateIncomeTax TaxType = "corporate_income_tax"
	TaxTypeExciseDuty         TaxType = "excise_duty"
)

// ValidTaxTypes lists every accepted tax type for input validation.
var ValidTaxTypes = map[TaxType]bool{
	TaxTypeGST:                true,
	TaxTypeIncomeTax:          true,
	TaxTypePAYE:               true,
	TaxTypeWithholdingTax:     true,
	TaxTypeCorporateIncomeTax: true,
	TaxTypeExciseDuty:         true,
}

// FilingStatus represents the lifecycle of a tax filing.
// Draft filings are mutable; submitted filings await review; approved and
// rejected are terminal for the submission cycle.
type FilingStatus string

const (
	FilingStatusDraft     FilingStatus = "draft"
	FilingStatusSubmitted FilingStatus = "submitted"
	FilingStatusApproved  FilingStatus = "approved"
	FilingStatusRejected  FilingStatus = "rejected"
)

// ReviewDecision is the outcome an admin records on a submitted filing.
type ReviewDecision string

const (
	ReviewDecisionApprove ReviewDecision = "approve"
	ReviewDecisionReject  ReviewDecision = "reject"
)

// PermissionArea is a closed set of functional domains over which delegated
// access is granted independently.
type PermissionArea string

const (
	AreaTaxFilings PermissionArea = "tax_filings"
	AreaDocuments  PermissionArea = "documents"
	AreaPayments   PermissionArea = "payments"
	AreaCompliance PermissionArea = "compliance"
)

// ValidPermissionAreas lists every accepted permission area.
var ValidPermissionAreas = map[PermissionArea]bool{
	AreaTaxFilings: true,
	AreaDocuments:  true,
	AreaPayments:   true,
	AreaCompliance: true,
}

// PermissionLevel is an ordinal capability tier for delegated access.
type PermissionLevel string

const (
	PermissionRead   PermissionLevel = "read"
	PermissionCreate PermissionLevel = "create"
	PermissionUpdate PermissionLevel = "update"
	PermissionSubmit PermissionLevel = "submit"
)

// PermissionRank maps a permission level to its ordinal rank.
// read < create < update < submit; unknown levels rank below read.
func PermissionRank(level PermissionLevel) int {
	switch level {
	case PermissionRead:
		return 1
	case PermissionCreate:
		return 2
	case PermissionUpdate:
		return 3
	case PermissionSubmit:
		return 4
	default:
		return 0
	}
}

// ValidPermissionLevels lists every accepted permission level.
var ValidPermissionLevels = map[PermissionLevel]bool{
	PermissionRead:   true,
	PermissionCreate: true,
	PermissionUpdate: true,
	PermissionSubmit: true,
}

// ActionVerb identifies the operation recorded in an on-behalf action entry.
type ActionVerb string

const (
	ActionCreate ActionVerb = "create"
	ActionUpdate ActionVerb = "update"
	ActionSubmit ActionVerb = "submit"
	ActionDelete ActionVerb = "delete"
	ActionUpload ActionVerb = "upload"
)

// EntityType identifies the kind of record an on-behalf action touched.
type EntityType string

const (
	EntityTaxFiling        EntityType = "tax_filing"
	EntityFilingSchedule   EntityType = "filing_schedule"
	EntityFilingAttachment EntityType = "filing_attachment"
)

// AuthorityStatus tracks the external tax authority's view of a transmitted
// filing.
type AuthorityStatus string

const (
	AuthorityStatusNotSent  AuthorityStatus = "not_sent"
	AuthorityStatusPending  AuthorityStatus = "pending"
	AuthorityStatusAccepted AuthorityStatus = "accepted"
	AuthorityStatusRejected AuthorityStatus = "rejected"
)

// FileType represents the allowed attachment file types.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// FileContentTypes maps each FileType to the MIME content type stored with
// the object.
var FileContentTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}
