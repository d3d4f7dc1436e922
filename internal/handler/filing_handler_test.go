package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
	"taxdesk/internal/export"
	"taxdesk/internal/handler"
	"taxdesk/internal/middleware"
	"taxdesk/internal/service"
	"taxdesk/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testActor(role domain.UserRole) domain.ActorContext {
	return domain.ActorContext{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Role:     role,
	}
}

// newTestContext builds a Gin test context with an authenticated actor.
func newTestContext(t *testing.T, actor domain.ActorContext, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	c.Request, _ = http.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextKeyActor, actor)
	return c, w
}

func TestFilingHandler_Create_Success(t *testing.T) {
	mockSvc := new(mocks.MockFilingService)
	h := handler.NewFilingHandler(mockSvc, nil)

	actor := testActor(domain.RoleAdmin)
	clientID := uuid.New()
	filing := &domain.TaxFiling{
		ID:       uuid.New(),
		TenantID: actor.TenantID,
		ClientID: clientID,
		TaxType:  domain.TaxTypeGST,
		TaxYear:  2025,
		Period:   "2025-Q2",
		Status:   domain.FilingStatusDraft,
	}

	mockSvc.On("Create", mock.Anything, actor, mock.MatchedBy(func(in service.CreateFilingInput) bool {
		return in.ClientID == clientID && in.TaxType == domain.TaxTypeGST && in.TaxYear == 2025
	}), mock.AnythingOfType("domain.RequestMeta")).Return(filing, nil)

	c, w := newTestContext(t, actor, http.MethodPost, "/api/v1/tax-filings", map[string]interface{}{
		"client_id": clientID,
		"tax_type":  "gst",
		"tax_year":  2025,
		"period":    "2025-Q2",
		"schedules": []map[string]interface{}{
			{"description": "Standard rated sales", "amount": "1000", "taxable_amount": "1000"},
		},
	})

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	mockSvc.AssertExpectations(t)
}

func TestFilingHandler_Create_MissingFields(t *testing.T) {
	mockSvc := new(mocks.MockFilingService)
	h := handler.NewFilingHandler(mockSvc, nil)

	actor := testActor(domain.RoleAdmin)
	c, w := newTestContext(t, actor, http.MethodPost, "/api/v1/tax-filings", map[string]interface{}{
		"tax_type": "gst",
	})

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFilingHandler_Create_Unauthenticated(t *testing.T) {
	mockSvc := new(mocks.MockFilingService)
	h := handler.NewFilingHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/tax-filings", bytes.NewReader(nil))

	h.Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFilingHandler_GetByID_NotFound(t *testing.T) {
	mockSvc := new(mocks.MockFilingService)
	h := handler.NewFilingHandler(mockSvc, nil)

	actor := testActor(domain.RoleAdmin)
	filingID := uuid.New()
	mockSvc.On("Get", mock.Anything, actor, filingID).Return(nil, domain.ErrFilingNotFound)

	c, w := newTestContext(t, actor, http.MethodGet, "/api/v1/tax-filings/"+filingID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: filingID.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFilingHandler_GetByID_InvalidID(t *testing.T) {
	mockSvc := new(mocks.MockFilingService)
	h := handler.NewFilingHandler(mockSvc, nil)

	actor := testActor(domain.RoleAdmin)
	c, w := newTestContext(t, actor, http.MethodGet, "/api/v1/tax-filings/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestFilingHandler_Submit_NotDraftBadRequest(t *testing.T) {
	mockSvc := new(mocks.MockFilingService)
	h := handler.NewFilingHandler(mockSvc, nil)

	actor := testActor(domain.RoleAssociate)
	filingID := uuid.New()
	mockSvc.On("Submit", mock.Anything, actor, filingID, "", mock.AnythingOfType("domain.RequestMeta")).
		Return(nil, domain.NewInvalidState("submit", domain.FilingStatusSubmitted, domain.FilingStatusDraft))

	c, w := newTestContext(t, actor, http.MethodPost, "/api/v1/tax-filings/"+filingID.String()+"/submit", nil)
	c.Params = gin.Params{{Key: "id", Value: filingID.String()}}

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)
}

func TestFilingHandler_Export_CSV(t *testing.T) {
	mockSvc := new(mocks.MockFilingService)
	h := handler.NewFilingHandler(mockSvc, nil)

	actor := testActor(domain.RoleAdmin)
	rows := []export.RegisterRow{{
		Filing: domain.TaxFiling{
			TaxType:        domain.TaxTypeGST,
			TaxYear:        2025,
			Period:         "2025-Q2",
			Status:         domain.FilingStatusDraft,
			DeclaredAmount: decimal.NewFromInt(1000),
			TaxableAmount:  decimal.NewFromInt(1000),
			ComputedTax:    decimal.NewFromInt(150),
		},
		Client: domain.Client{Name: "Acme Ltd", TaxNumber: "GST-123"},
	}}
	mockSvc.On("ExportRegister", mock.Anything, actor, mock.AnythingOfType("port.FilingFilter")).
		Return(rows, nil)

	c, w := newTestContext(t, actor, http.MethodGet, "/api/v1/tax-filings/export?format=csv", nil)

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filings_register_")
	assert.Contains(t, w.Body.String(), "Acme Ltd")
}

func TestFilingHandler_Export_BadFormat(t *testing.T) {
	mockSvc := new(mocks.MockFilingService)
	h := handler.NewFilingHandler(mockSvc, nil)

	actor := testActor(domain.RoleAdmin)
	c, w := newTestContext(t, actor, http.MethodGet, "/api/v1/tax-filings/export?format=pdf", nil)

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "ExportRegister", mock.Anything, mock.Anything, mock.Anything)
}
