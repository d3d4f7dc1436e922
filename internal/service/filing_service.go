package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"taxdesk/internal/domain"
	"taxdesk/internal/export"
	"taxdesk/internal/port"
)

// exportMaxRows caps the number of filings a single register export returns.
const exportMaxRows = 10000

// ScheduleInput is one line item in a filing save request.
type ScheduleInput struct {
	Description   string          `json:"description" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	TaxableAmount decimal.Decimal `json:"taxable_amount" binding:"required"`
}

// CreateFilingInput is the DTO for creating a filing.
type CreateFilingInput struct {
	ClientID       uuid.UUID       `json:"client_id" binding:"required"`
	TaxType        domain.TaxType  `json:"tax_type" binding:"required"`
	TaxYear        int             `json:"tax_year" binding:"required"`
	Period         string          `json:"period" binding:"required"`
	DeclaredAmount decimal.Decimal `json:"declared_amount"`
	Schedules      []ScheduleInput `json:"schedules"`
	Reason         string          `json:"reason"`
}

// UpdateFilingInput is the DTO for updating a draft filing. Nil fields are
// left unchanged; Schedules, when present, replaces the full set.
type UpdateFilingInput struct {
	TaxType        *domain.TaxType  `json:"tax_type"`
	TaxYear        *int             `json:"tax_year"`
	Period         *string          `json:"period"`
	DeclaredAmount *decimal.Decimal `json:"declared_amount"`
	Schedules      []ScheduleInput  `json:"schedules"`
	Reason         string           `json:"reason"`
}

// ReviewInput is the DTO for approving or rejecting a submitted filing.
type ReviewInput struct {
	Decision domain.ReviewDecision `json:"decision" binding:"required"`
	Comments string                `json:"comments"`
}

// FilingService orchestrates the tax filing lifecycle: draft creation and
// mutation, pre-submission validation, submission, review, and transmission
// to the tax authority. Every associate-initiated mutation writes an
// on-behalf audit record in the same transaction.
type FilingService interface {
	Create(ctx context.Context, actor domain.ActorContext, input CreateFilingInput, meta domain.RequestMeta) (*domain.TaxFiling, error)
	Get(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) (*domain.TaxFiling, error)
	List(ctx context.Context, actor domain.ActorContext, filter port.FilingFilter, page, pageSize int) ([]domain.TaxFiling, int, error)
	Update(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID, input UpdateFilingInput, meta domain.RequestMeta) (*domain.TaxFiling, error)
	Delete(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) error
	Validate(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) (*domain.ValidationReport, error)
	Submit(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID, reason string, meta domain.RequestMeta) (*domain.TaxFiling, error)
	Review(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID, input ReviewInput) (*domain.TaxFiling, error)
	ListSchedules(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) ([]domain.FilingSchedule, error)
	SaveSchedules(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID, schedules []ScheduleInput, reason string, meta domain.RequestMeta) ([]domain.FilingSchedule, error)
	Transmit(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) (*domain.TaxFiling, error)
	RefreshAuthorityStatus(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) (*domain.TaxFiling, error)
	ExportRegister(ctx context.Context, actor domain.ActorContext, filter port.FilingFilter) ([]export.RegisterRow, error)
}

type filingService struct {
	filingRepo   port.FilingRepository
	scheduleRepo port.FilingScheduleRepository
	clientRepo   port.ClientRepository
	permRepo     port.AssociatePermissionRepository
	authz        AuthzService
	audit        OnBehalfService
	tx           port.TxManager
	authority    port.AuthorityGateway
}

// NewFilingService creates the filing lifecycle service.
func NewFilingService(
	filingRepo port.FilingRepository,
	scheduleRepo port.FilingScheduleRepository,
	clientRepo port.ClientRepository,
	permRepo port.AssociatePermissionRepository,
	authz AuthzService,
	audit OnBehalfService,
	tx port.TxManager,
	authority port.AuthorityGateway,
) FilingService {
	return &filingService{
		filingRepo:   filingRepo,
		scheduleRepo: scheduleRepo,
		clientRepo:   clientRepo,
		permRepo:     permRepo,
		authz:        authz,
		audit:        audit,
		tx:           tx,
		authority:    authority,
	}
}

func (s *filingService) requireLevel(ctx context.Context, actor domain.ActorContext, clientID uuid.UUID, required domain.PermissionLevel) error {
	decision, err := s.authz.Authorize(ctx, actor, clientID, domain.AreaTaxFilings, required)
	if err != nil {
		return fmt.Errorf("filing.authorize: %w", err)
	}
	if !decision.Allowed {
		log.Printf("filing.authorize: denied user=%s client=%s required=%s", actor.UserID, clientID, required)
		return domain.ErrForbidden
	}
	return nil
}

func (s *filingService) Create(ctx context.Context, actor domain.ActorContext, input CreateFilingInput, meta domain.RequestMeta) (*domain.TaxFiling, error) {
	if !domain.ValidTaxTypes[input.TaxType] {
		return nil, domain.ErrInvalidTaxType
	}
	if input.TaxYear < 2000 || input.TaxYear > time.Now().Year()+1 {
		return nil, domain.ErrInvalidPeriod
	}
	if input.Period == "" {
		return nil, domain.ErrInvalidPeriod
	}
	if err := validateScheduleInputs(input.Schedules); err != nil {
		return nil, err
	}

	if err := s.requireLevel(ctx, actor, input.ClientID, domain.PermissionCreate); err != nil {
		return nil, err
	}

	// The client must exist in this tenant before a filing is attached.
	if _, err := s.clientRepo.GetByID(ctx, actor.TenantID, input.ClientID); err != nil {
		return nil, err
	}

	taxable := sumTaxable(input.Schedules)
	filing := &domain.TaxFiling{
		ID:              uuid.New(),
		TenantID:        actor.TenantID,
		ClientID:        input.ClientID,
		TaxType:         input.TaxType,
		TaxYear:         input.TaxYear,
		Period:          input.Period,
		DeclaredAmount:  input.DeclaredAmount,
		TaxableAmount:   taxable,
		ComputedTax:     domain.ComputeLiability(input.TaxType, taxable),
		Status:          domain.FilingStatusDraft,
		AuthorityStatus: domain.AuthorityStatusNotSent,
		CreatedBy:       actor.UserID,
	}

	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.filingRepo.Create(txCtx, filing); err != nil {
			return err
		}
		if err := s.scheduleRepo.ReplaceAll(txCtx, actor.TenantID, filing.ID, toSchedules(input.Schedules)); err != nil {
			return err
		}
		return s.recordIfDelegated(txCtx, actor, filing, nil, domain.ActionCreate, input.Reason, meta)
	})
	if err != nil {
		return nil, fmt.Errorf("filing.Create: %w", err)
	}
	return filing, nil
}

func (s *filingService) Get(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) (*domain.TaxFiling, error) {
	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, filingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLevel(ctx, actor, filing.ClientID, domain.PermissionRead); err != nil {
		return nil, err
	}
	return filing, nil
}

// scopeFilter narrows a filing filter to what the actor may see. Clients are
// pinned to their own client record; associates without an explicit client
// filter are restricted to their unexpired delegated clients.
func (s *filingService) scopeFilter(ctx context.Context, actor domain.ActorContext, filter port.FilingFilter) (port.FilingFilter, error) {
	switch actor.Role {
	case domain.RoleClient:
		if actor.ClientID == nil {
			return filter, domain.ErrForbidden
		}
		filter.ClientID = actor.ClientID
		filter.ClientIDs = nil
	case domain.RoleAssociate:
		if filter.ClientID != nil {
			if err := s.requireLevel(ctx, actor, *filter.ClientID, domain.PermissionRead); err != nil {
				return filter, err
			}
		} else {
			perms, err := s.permRepo.ListByAssociate(ctx, actor.TenantID, actor.UserID, domain.AreaTaxFilings)
			if err != nil {
				return filter, fmt.Errorf("filing.scopeFilter: %w", err)
			}
			now := time.Now().UTC()
			clientIDs := make([]uuid.UUID, 0, len(perms))
			for i := range perms {
				if !perms[i].Expired(now) {
					clientIDs = append(clientIDs, perms[i].ClientID)
				}
			}
			filter.ClientIDs = clientIDs
		}
	}
	return filter, nil
}

func (s *filingService) List(ctx context.Context, actor domain.ActorContext, filter port.FilingFilter, page, pageSize int) ([]domain.TaxFiling, int, error) {
	filter, err := s.scopeFilter(ctx, actor, filter)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	filings, total, err := s.filingRepo.List(ctx, actor.TenantID, filter, offset, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("filing.List: %w", err)
	}
	return filings, total, nil
}

func (s *filingService) ExportRegister(ctx context.Context, actor domain.ActorContext, filter port.FilingFilter) ([]export.RegisterRow, error) {
	filter, err := s.scopeFilter(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	filings, _, err := s.filingRepo.List(ctx, actor.TenantID, filter, 0, exportMaxRows)
	if err != nil {
		return nil, fmt.Errorf("filing.ExportRegister: %w", err)
	}

	clients := make(map[uuid.UUID]*domain.Client)
	rows := make([]export.RegisterRow, 0, len(filings))
	for i := range filings {
		client, ok := clients[filings[i].ClientID]
		if !ok {
			client, err = s.clientRepo.GetByID(ctx, actor.TenantID, filings[i].ClientID)
			if err != nil {
				return nil, fmt.Errorf("filing.ExportRegister: %w", err)
			}
			clients[filings[i].ClientID] = client
		}
		rows = append(rows, export.RegisterRow{Filing: filings[i], Client: *client})
	}
	return rows, nil
}

func (s *filingService) Update(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID, input UpdateFilingInput, meta domain.RequestMeta) (*domain.TaxFiling, error) {
	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, filingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLevel(ctx, actor, filing.ClientID, domain.PermissionUpdate); err != nil {
		return nil, err
	}
	if filing.Status != domain.FilingStatusDraft {
		return nil, domain.NewInvalidState("update", filing.Status, domain.FilingStatusDraft)
	}

	before := *filing

	if input.TaxType != nil {
		if !domain.ValidTaxTypes[*input.TaxType] {
			return nil, domain.ErrInvalidTaxType
		}
		filing.TaxType = *input.TaxType
	}
	if input.TaxYear != nil {
		if *input.TaxYear < 2000 || *input.TaxYear > time.Now().Year()+1 {
			return nil, domain.ErrInvalidPeriod
		}
		filing.TaxYear = *input.TaxYear
	}
	if input.Period != nil {
		if *input.Period == "" {
			return nil, domain.ErrInvalidPeriod
		}
		filing.Period = *input.Period
	}
	if input.DeclaredAmount != nil {
		filing.DeclaredAmount = *input.DeclaredAmount
	}
	if input.Schedules != nil {
		if err := validateScheduleInputs(input.Schedules); err != nil {
			return nil, err
		}
		filing.TaxableAmount = sumTaxable(input.Schedules)
	}
	filing.ComputedTax = domain.ComputeLiability(filing.TaxType, filing.TaxableAmount)

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.filingRepo.Update(txCtx, filing); err != nil {
			return err
		}
		if input.Schedules != nil {
			if err := s.scheduleRepo.ReplaceAll(txCtx, actor.TenantID, filing.ID, toSchedules(input.Schedules)); err != nil {
				return err
			}
		}
		return s.recordIfDelegated(txCtx, actor, filing, &before, domain.ActionUpdate, input.Reason, meta)
	})
	if err != nil {
		return nil, fmt.Errorf("filing.Update: %w", err)
	}
	return filing, nil
}

func (s *filingService) Delete(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) error {
	if !actor.Role.IsReviewer() {
		return domain.ErrForbidden
	}
	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, filingID)
	if err != nil {
		return err
	}
	if filing.Status != domain.FilingStatusDraft {
		return domain.NewInvalidState("delete", filing.Status, domain.FilingStatusDraft)
	}
	return s.filingRepo.Delete(ctx, actor.TenantID, filingID)
}

func (s *filingService) Validate(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) (*domain.ValidationReport, error) {
	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, filingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLevel(ctx, actor, filing.ClientID, domain.PermissionRead); err != nil {
		return nil, err
	}
	schedules, err := s.scheduleRepo.ListByFiling(ctx, actor.TenantID, filingID)
	if err != nil {
		return nil, fmt.Errorf("filing.Validate: %w", err)
	}
	return buildValidationReport(filing, schedules), nil
}

func (s *filingService) Submit(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID, reason string, meta domain.RequestMeta) (*domain.TaxFiling, error) {
	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, filingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLevel(ctx, actor, filing.ClientID, domain.PermissionSubmit); err != nil {
		return nil, err
	}
	if filing.Status != domain.FilingStatusDraft {
		return nil, domain.NewInvalidState("submit", filing.Status, domain.FilingStatusDraft)
	}

	schedules, err := s.scheduleRepo.ListByFiling(ctx, actor.TenantID, filingID)
	if err != nil {
		return nil, fmt.Errorf("filing.Submit: %w", err)
	}
	report := buildValidationReport(filing, schedules)
	if !report.CanSubmit {
		return nil, domain.ErrValidationFailed
	}

	before := *filing
	now := time.Now().UTC()
	filing.Status = domain.FilingStatusSubmitted
	filing.SubmittedBy = &actor.UserID
	filing.SubmittedAt = &now

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.filingRepo.UpdateStatus(txCtx, filing); err != nil {
			return err
		}
		return s.recordIfDelegated(txCtx, actor, filing, &before, domain.ActionSubmit, reason, meta)
	})
	if err != nil {
		return nil, fmt.Errorf("filing.Submit: %w", err)
	}
	return filing, nil
}

func (s *filingService) Review(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID, input ReviewInput) (*domain.TaxFiling, error) {
	if !actor.Role.IsReviewer() {
		return nil, domain.ErrForbidden
	}
	if input.Decision != domain.ReviewDecisionApprove && input.Decision != domain.ReviewDecisionReject {
		return nil, domain.ErrInvalidDecision
	}

	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, filingID)
	if err != nil {
		return nil, err
	}
	if filing.Status != domain.FilingStatusSubmitted {
		return nil, domain.NewInvalidState("review", filing.Status, domain.FilingStatusSubmitted)
	}

	now := time.Now().UTC()
	if input.Decision == domain.ReviewDecisionApprove {
		filing.Status = domain.FilingStatusApproved
	} else {
		filing.Status = domain.FilingStatusRejected
	}
	filing.ReviewedBy = &actor.UserID
	filing.ReviewedAt = &now
	filing.ReviewComments = input.Comments

	if err := s.filingRepo.UpdateStatus(ctx, filing); err != nil {
		return nil, fmt.Errorf("filing.Review: %w", err)
	}
	return filing, nil
}

func (s *filingService) ListSchedules(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) ([]domain.FilingSchedule, error) {
	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, filingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLevel(ctx, actor, filing.ClientID, domain.PermissionRead); err != nil {
		return nil, err
	}
	return s.scheduleRepo.ListByFiling(ctx, actor.TenantID, filingID)
}

func (s *filingService) SaveSchedules(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID, schedules []ScheduleInput, reason string, meta domain.RequestMeta) ([]domain.FilingSchedule, error) {
	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, filingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLevel(ctx, actor, filing.ClientID, domain.PermissionUpdate); err != nil {
		return nil, err
	}
	if filing.Status != domain.FilingStatusDraft {
		return nil, domain.NewInvalidState("save schedules", filing.Status, domain.FilingStatusDraft)
	}
	if err := validateScheduleInputs(schedules); err != nil {
		return nil, err
	}

	before := *filing
	filing.TaxableAmount = sumTaxable(schedules)
	filing.ComputedTax = domain.ComputeLiability(filing.TaxType, filing.TaxableAmount)

	rows := toSchedules(schedules)
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.scheduleRepo.ReplaceAll(txCtx, actor.TenantID, filingID, rows); err != nil {
			return err
		}
		if err := s.filingRepo.Update(txCtx, filing); err != nil {
			return err
		}
		return s.recordIfDelegated(txCtx, actor, filing, &before, domain.ActionUpdate, reason, meta)
	})
	if err != nil {
		return nil, fmt.Errorf("filing.SaveSchedules: %w", err)
	}
	return rows, nil
}

func (s *filingService) Transmit(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) (*domain.TaxFiling, error) {
	if !actor.Role.IsReviewer() {
		return nil, domain.ErrForbidden
	}
	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, filingID)
	if err != nil {
		return nil, err
	}
	if filing.Status != domain.FilingStatusApproved {
		return nil, domain.ErrNotTransmittable
	}
	if filing.AuthorityStatus != domain.AuthorityStatusNotSent {
		return nil, domain.ErrAlreadyTransmitted
	}

	schedules, err := s.scheduleRepo.ListByFiling(ctx, actor.TenantID, filingID)
	if err != nil {
		return nil, fmt.Errorf("filing.Transmit: %w", err)
	}

	result, err := s.authority.Transmit(ctx, filing, schedules)
	if err != nil {
		log.Printf("filing.Transmit: authority error filing=%s: %v", filingID, err)
		return nil, domain.ErrAuthorityUnavailable
	}

	now := time.Now().UTC()
	filing.AuthorityStatus = result.Status
	filing.AuthorityRef = result.Reference
	filing.TransmittedAt = &now
	if err := s.filingRepo.UpdateAuthority(ctx, filing); err != nil {
		return nil, fmt.Errorf("filing.Transmit: %w", err)
	}
	return filing, nil
}

func (s *filingService) RefreshAuthorityStatus(ctx context.Context, actor domain.ActorContext, filingID uuid.UUID) (*domain.TaxFiling, error) {
	filing, err := s.filingRepo.GetByID(ctx, actor.TenantID, filingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLevel(ctx, actor, filing.ClientID, domain.PermissionRead); err != nil {
		return nil, err
	}
	if filing.AuthorityRef == "" {
		return filing, nil
	}

	status, err := s.authority.Status(ctx, filing.AuthorityRef)
	if err != nil {
		log.Printf("filing.RefreshAuthorityStatus: authority error filing=%s: %v", filingID, err)
		return nil, domain.ErrAuthorityUnavailable
	}
	if status != filing.AuthorityStatus {
		filing.AuthorityStatus = status
		if err := s.filingRepo.UpdateAuthority(ctx, filing); err != nil {
			return nil, fmt.Errorf("filing.RefreshAuthorityStatus: %w", err)
		}
	}
	return filing, nil
}

// recordIfDelegated writes an on-behalf audit entry when the acting user is
// an associate. Client- and admin-initiated actions leave no entry.
func (s *filingService) recordIfDelegated(ctx context.Context, actor domain.ActorContext, filing *domain.TaxFiling, before *domain.TaxFiling, verb domain.ActionVerb, reason string, meta domain.RequestMeta) error {
	if actor.Role != domain.RoleAssociate {
		return nil
	}
	var beforeState interface{}
	if before != nil {
		beforeState = before
	}
	_, err := s.audit.Record(ctx, actor, RecordActionInput{
		ClientID:   filing.ClientID,
		Action:     verb,
		EntityType: domain.EntityTaxFiling,
		EntityID:   filing.ID,
		Before:     beforeState,
		After:      filing,
		Reason:     reason,
		Meta:       meta,
	})
	return err
}

func validateScheduleInputs(schedules []ScheduleInput) error {
	for i := range schedules {
		s := &schedules[i]
		if s.Description == "" {
			return fmt.Errorf("%w: schedule %d has no description", domain.ErrInvalidSchedule, i)
		}
		if s.Amount.IsNegative() || s.TaxableAmount.IsNegative() {
			return fmt.Errorf("%w: schedule %d has a negative amount", domain.ErrInvalidSchedule, i)
		}
	}
	return nil
}

func sumTaxable(schedules []ScheduleInput) decimal.Decimal {
	total := decimal.Zero
	for i := range schedules {
		total = total.Add(schedules[i].TaxableAmount)
	}
	return total
}

func toSchedules(inputs []ScheduleInput) []domain.FilingSchedule {
	out := make([]domain.FilingSchedule, len(inputs))
	for i, in := range inputs {
		out[i] = domain.FilingSchedule{
			Description:   in.Description,
			Amount:        in.Amount,
			TaxableAmount: in.TaxableAmount,
		}
	}
	return out
}

// buildValidationReport runs the read-only pre-submission check. Blocking
// issues prevent submission; advisory issues are surfaced but do not.
func buildValidationReport(filing *domain.TaxFiling, schedules []domain.FilingSchedule) *domain.ValidationReport {
	report := &domain.ValidationReport{FilingID: filing.ID}

	if !domain.ValidTaxTypes[filing.TaxType] {
		report.Issues = append(report.Issues, domain.ValidationIssue{
			Field: "tax_type", Code: "invalid_tax_type",
			Message: "tax type is not recognised", Blocking: true,
		})
	}
	if filing.Period == "" {
		report.Issues = append(report.Issues, domain.ValidationIssue{
			Field: "period", Code: "missing_period",
			Message: "filing period is required", Blocking: true,
		})
	}
	if len(schedules) == 0 {
		report.Issues = append(report.Issues, domain.ValidationIssue{
			Field: "schedules", Code: "no_schedules",
			Message: "at least one schedule line is required", Blocking: true,
		})
	}

	scheduleTaxable := decimal.Zero
	for i := range schedules {
		sc := &schedules[i]
		if sc.Description == "" {
			report.Issues = append(report.Issues, domain.ValidationIssue{
				Field: "schedules", Code: "missing_description",
				Message: fmt.Sprintf("schedule line %d has no description", sc.Position), Blocking: true,
			})
		}
		if sc.Amount.IsNegative() || sc.TaxableAmount.IsNegative() {
			report.Issues = append(report.Issues, domain.ValidationIssue{
				Field: "schedules", Code: "negative_amount",
				Message: fmt.Sprintf("schedule line %d has a negative amount", sc.Position), Blocking: true,
			})
		}
		scheduleTaxable = scheduleTaxable.Add(sc.TaxableAmount)
	}

	if filing.DeclaredAmount.IsZero() {
		report.Issues = append(report.Issues, domain.ValidationIssue{
			Field: "declared_amount", Code: "zero_declared",
			Message: "declared amount is zero", Blocking: false,
		})
	}
	if !scheduleTaxable.Equal(filing.TaxableAmount) {
		report.Issues = append(report.Issues, domain.ValidationIssue{
			Field: "taxable_amount", Code: "taxable_mismatch",
			Message: "filing taxable amount does not match the schedule total", Blocking: false,
		})
	}

	report.CanSubmit = len(report.BlockingIssues()) == 0
	return report
}
