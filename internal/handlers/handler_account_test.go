package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/SscSPs/facility_finance_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountHandlerTestSuite struct {
	routerSuite
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	created := &domain.Account{AccountID: 5, Name: "Main bank", Kind: domain.AccountBank, BankName: "CRDB", FacilityID: int64Ptr(3)}
	suite.mockAccountService.On("CreateAccount", mock.Anything, facilityScope,
		mock.MatchedBy(func(a domain.Account) bool {
			return a.Name == "Main bank" && a.Kind == domain.AccountBank && a.FacilityID == nil
		}),
	).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"name":"Main bank","type":"BANK","bank_name":"CRDB"}`, facilityScope)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(5), resp.ID)
	suite.Equal(domain.AccountBank, resp.Type)
	suite.Require().NotNil(resp.BankName)
	suite.Equal("CRDB", *resp.BankName)
	suite.Nil(resp.AccountNumber)
	suite.Nil(resp.CurrentBalance)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidBody() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"name":"Main bank","type":"CHEQUE"}`, facilityScope)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "type must be one of")
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Forbidden() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, facilityScope, mock.Anything).
		Return(nil, fmt.Errorf("%w: facility 9", apperrors.ErrForbidden)).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"name":"Cash box","type":"CASH","facility_id":9}`, facilityScope)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_WithBalance() {
	suite.mockAccountService.On("GetAccountWithBalance", mock.Anything, facilityScope, int64(5)).
		Return(&domain.AccountWithBalance{
			Account:        domain.Account{AccountID: 5, Name: "Main bank", Kind: domain.AccountBank, FacilityID: int64Ptr(3)},
			CurrentBalance: decimal.RequireFromString("70.50"),
		}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/5", "", facilityScope)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.CurrentBalance)
	suite.True(resp.CurrentBalance.Equal(decimal.RequireFromString("70.5")))
}

func (suite *AccountHandlerTestSuite) TestGetAccount_Errors() {
	suite.mockAccountService.On("GetAccountWithBalance", mock.Anything, facilityScope, int64(404)).
		Return(nil, apperrors.ErrNotFound).Once()

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/accounts/404", "", facilityScope).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/accounts/abc", "", facilityScope).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/accounts/0", "", facilityScope).Code)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_PassesFilter() {
	suite.mockAccountService.On("ListAccounts", mock.Anything, countryScope,
		domain.AccountFilter{NameContains: "bank", HospitalID: int64Ptr(2)},
	).Return([]domain.AccountWithBalance{
		{Account: domain.Account{AccountID: 1, Name: "Bank A", Kind: domain.AccountBank}},
		{Account: domain.Account{AccountID: 2, Name: "Bank B", Kind: domain.AccountBank}, CurrentBalance: decimal.NewFromInt(10)},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts?q=bank&hospital_id=2", "", countryScope)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 2)
	suite.Equal("Bank B", resp[1].Name)
}

func (suite *AccountHandlerTestSuite) TestUpdateAccount() {
	suite.mockAccountService.On("UpdateAccount", mock.Anything, facilityScope, int64(5),
		mock.MatchedBy(func(p domain.AccountPatch) bool {
			return p.Name.Set && p.Name.Value == "Renamed" && !p.Kind.Set
		}),
	).Return(&domain.Account{AccountID: 5, Name: "Renamed", Kind: domain.AccountCash}, nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/accounts/5", `{"name":"Renamed"}`, facilityScope)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"name":"Renamed"`)
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount() {
	suite.mockAccountService.On("DeleteAccount", mock.Anything, facilityScope, int64(5)).Return(nil).Once()
	suite.mockAccountService.On("DeleteAccount", mock.Anything, facilityScope, int64(6)).
		Return(fmt.Errorf("%w: record is still referenced", apperrors.ErrValidation)).Once()

	suite.Equal(http.StatusNoContent, suite.do(http.MethodDelete, "/api/v1/accounts/5", "", facilityScope).Code)

	w := suite.do(http.MethodDelete, "/api/v1/accounts/6", "", facilityScope)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "still referenced")
}

func (suite *AccountHandlerTestSuite) TestRecompute() {
	suite.mockCashbookService.On("RecomputeAccount", mock.Anything, countryScope, int64(5)).Return(3, nil).Once()
	suite.mockCashbookService.On("RecomputeAccount", mock.Anything, facilityScope, int64(5)).
		Return(0, apperrors.ErrForbidden).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/5/recompute", "", countryScope)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"account_id":5,"rewritten":3}`, w.Body.String())

	suite.Equal(http.StatusForbidden, suite.do(http.MethodPost, "/api/v1/accounts/5/recompute", "", facilityScope).Code)
}

func (suite *AccountHandlerTestSuite) TestRequiresToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AccountHandlerTestSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
