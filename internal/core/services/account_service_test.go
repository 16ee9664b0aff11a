package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/facility_finance_app/internal/core/ports/services"
	"github.com/SscSPs/facility_finance_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

// --- Implement mock methods for AccountRepositoryFacade ---

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountWithBalance(ctx context.Context, accountID int64) (*domain.AccountWithBalance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountWithBalance), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsWithBalance(ctx context.Context, filter domain.AccountFilter) ([]domain.AccountWithBalance, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountWithBalance), args.Error(1)
}

func (m *MockAccountRepository) ListAccountIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID int64) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func int64Ptr(v int64) *int64 { return &v }

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := domain.Account{Name: "Petty cash", Kind: domain.AccountCash, FacilityID: int64Ptr(3)}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("*domain.Account")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Account).AccountID = 12 }).
		Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, domain.CountryScope(), req)

	suite.Require().NoError(err)
	suite.Equal(int64(12), created.AccountID)
	suite.Equal(req.Name, created.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_FillsFacilityFromScope() {
	ctx := context.Background()
	scope := domain.Scope{Level: domain.LevelFacility, ID: 9}

	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a *domain.Account) bool {
		return a.FacilityID != nil && *a.FacilityID == 9
	})).Return(nil).Once()

	_, err := suite.service.CreateAccount(ctx, scope, domain.Account{Name: "Bank", Kind: domain.AccountBank})
	suite.Require().NoError(err)

	_, err = suite.service.CreateAccount(ctx, scope, domain.Account{Name: "Bank", Kind: domain.AccountBank, FacilityID: int64Ptr(4)})
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Invalid() {
	_, err := suite.service.CreateAccount(context.Background(), domain.CountryScope(), domain.Account{Name: " ", Kind: "SAFE"})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("*domain.Account")).Return(assert.AnError).Once()

	created, err := suite.service.CreateAccount(ctx, domain.CountryScope(), domain.Account{Name: "x", Kind: domain.AccountCash, HospitalID: int64Ptr(1)})

	suite.Nil(created)
	suite.ErrorIs(err, assert.AnError)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountWithBalance() {
	ctx := context.Background()
	acc := &domain.AccountWithBalance{
		Account:        domain.Account{AccountID: 5, Name: "Main", Kind: domain.AccountBank, FacilityID: int64Ptr(2)},
		CurrentBalance: decimal.NewFromInt(70),
	}
	suite.mockRepo.On("FindAccountWithBalance", ctx, int64(5)).Return(acc, nil)

	got, err := suite.service.GetAccountWithBalance(ctx, domain.Scope{Level: domain.LevelFacility, ID: 2}, 5)
	suite.Require().NoError(err)
	suite.Equal("70", got.CurrentBalance.String())

	_, err = suite.service.GetAccountWithBalance(ctx, domain.Scope{Level: domain.LevelFacility, ID: 3}, 5)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AccountServiceTestSuite) TestGetAccountWithBalance_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountWithBalance", ctx, int64(404)).Return(nil, apperrors.ErrNotFound).Once()

	got, err := suite.service.GetAccountWithBalance(ctx, domain.CountryScope(), 404)

	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccounts_NarrowsToScope() {
	ctx := context.Background()
	scope := domain.Scope{Level: domain.LevelHospital, ID: 8}
	suite.mockRepo.On("ListAccountsWithBalance", ctx, domain.AccountFilter{HospitalID: int64Ptr(8), NameContains: "bank"}).
		Return(nil, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, scope, domain.AccountFilter{NameContains: "bank"})
	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)

	accounts, err = suite.service.ListAccounts(ctx, scope, domain.AccountFilter{HospitalID: int64Ptr(9)})
	suite.Require().NoError(err)
	suite.Empty(accounts)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_RepoError() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccountsWithBalance", ctx, domain.AccountFilter{}).Return(nil, assert.AnError).Once()

	accounts, err := suite.service.ListAccounts(ctx, domain.CountryScope(), domain.AccountFilter{})

	suite.Nil(accounts)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount() {
	ctx := context.Background()
	stored := &domain.Account{AccountID: 5, Name: "Main", Kind: domain.AccountBank, FacilityID: int64Ptr(2)}
	renamed := &domain.Account{AccountID: 5, Name: "Operations", Kind: domain.AccountBank, FacilityID: int64Ptr(2)}

	suite.mockRepo.On("FindAccountByID", ctx, int64(5)).Return(stored, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool { return a.Name == "Operations" })).Return(nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, int64(5)).Return(renamed, nil).Once()

	got, err := suite.service.UpdateAccount(ctx, domain.CountryScope(), 5, domain.AccountPatch{Name: domain.Some("Operations")})

	suite.Require().NoError(err)
	suite.Equal("Operations", got.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_StillReferenced() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, int64(5)).
		Return(&domain.Account{AccountID: 5, Name: "Main", Kind: domain.AccountBank, FacilityID: int64Ptr(2)}, nil).Once()
	suite.mockRepo.On("DeleteAccount", ctx, int64(5)).Return(apperrors.ErrValidation).Once()

	err := suite.service.DeleteAccount(ctx, domain.CountryScope(), 5)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertExpectations(suite.T())
}
