package handlers_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/facility_finance_app/internal/core/ports/services"
	"github.com/SscSPs/facility_finance_app/internal/handlers"
	"github.com/SscSPs/facility_finance_app/internal/middleware"
	"github.com/SscSPs/facility_finance_app/internal/platform/config"
	"github.com/SscSPs/facility_finance_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, scope domain.Scope, account domain.Account) (*domain.Account, error) {
	args := m.Called(ctx, scope, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountWithBalance(ctx context.Context, scope domain.Scope, accountID int64) (*domain.AccountWithBalance, error) {
	args := m.Called(ctx, scope, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountWithBalance), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, scope domain.Scope, filter domain.AccountFilter) ([]domain.AccountWithBalance, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountWithBalance), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, scope domain.Scope, accountID int64, patch domain.AccountPatch) (*domain.Account, error) {
	args := m.Called(ctx, scope, accountID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, scope domain.Scope, accountID int64) error {
	args := m.Called(ctx, scope, accountID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock CashbookService ---
type MockCashbookService struct {
	mock.Mock
}

func (m *MockCashbookService) GetEntry(ctx context.Context, scope domain.Scope, entryID int64) (*domain.CashbookEntry, error) {
	args := m.Called(ctx, scope, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashbookEntry), args.Error(1)
}

func (m *MockCashbookService) ListEntries(ctx context.Context, scope domain.Scope, filter domain.EntryFilter) (*domain.EntryPage, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryPage), args.Error(1)
}

func (m *MockCashbookService) CreateEntry(ctx context.Context, scope domain.Scope, draft domain.CashbookEntry) (*domain.CashbookEntry, error) {
	args := m.Called(ctx, scope, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashbookEntry), args.Error(1)
}

func (m *MockCashbookService) UpdateEntry(ctx context.Context, scope domain.Scope, entryID int64, patch domain.CashbookPatch) (*domain.CashbookEntry, error) {
	args := m.Called(ctx, scope, entryID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashbookEntry), args.Error(1)
}

func (m *MockCashbookService) DeleteEntry(ctx context.Context, scope domain.Scope, entryID int64) error {
	args := m.Called(ctx, scope, entryID)
	return args.Error(0)
}

func (m *MockCashbookService) RecomputeAccount(ctx context.Context, scope domain.Scope, accountID int64) (int, error) {
	args := m.Called(ctx, scope, accountID)
	return args.Int(0), args.Error(1)
}

func (m *MockCashbookService) AuditBalances(ctx context.Context, scope domain.Scope) ([]domain.AccountDrift, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountDrift), args.Error(1)
}

var _ portssvc.CashbookSvcFacade = (*MockCashbookService)(nil)

// --- Shared suite plumbing ---

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "finance-test"
)

// routerSuite serves the real route table backed by mock services.
type routerSuite struct {
	suite.Suite
	router              *gin.Engine
	mockAccountService  *MockAccountService
	mockCashbookService *MockCashbookService
}

func (suite *routerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.Default()))

	suite.mockAccountService = new(MockAccountService)
	suite.mockCashbookService = new(MockCashbookService)

	cfg := &config.Config{
		IsProduction:       true,
		JWTSecret:          testSecret,
		JWTIssuer:          testIssuer,
		RateLimit:          "1000-M",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	err := handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Account:  suite.mockAccountService,
		Cashbook: suite.mockCashbookService,
	})
	suite.Require().NoError(err)
}

func (suite *routerSuite) TearDownTest() {
	suite.mockAccountService.AssertExpectations(suite.T())
	suite.mockCashbookService.AssertExpectations(suite.T())
}

// generateTestToken signs an access token for scope.
func (suite *routerSuite) generateTestToken(scope domain.Scope) string {
	token, err := utils.GenerateJWT("clerk-1", scope, testSecret, time.Hour, testIssuer)
	suite.Require().NoError(err)
	return token
}

// do serves a request as scope. An empty body sends no payload.
func (suite *routerSuite) do(method, url, body string, scope domain.Scope) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(scope))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func int64Ptr(v int64) *int64 {
	return &v
}

var (
	countryScope  = domain.CountryScope()
	facilityScope = domain.Scope{Level: domain.LevelFacility, ID: 3}
)
