package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/cipherledger/backend/internal/controllers/v1"
	"github.com/cipherledger/backend/internal/models"
	"github.com/cipherledger/backend/test"
	"github.com/stretchr/testify/assert"
)

// promoteTestAuditor promotes a principal to auditor as the system
// administrator.
func (suite *TestSuiteStandard) promoteTestAuditor(principal string, expectedStatus ...int) v1.AuditorResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = []int{201}
	}

	recorder := test.Request(suite.T(), "POST", "/v1/auditors", v1.AuditorEditable{Principal: principal}, test.AuthHeader(suite.T(), systemAdmin))
	test.AssertHTTPStatus(suite.T(), &recorder, expectedStatus...)

	var response v1.AuditorResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	return response
}

// TestAddAuditor verifies that a promotion grants decrypt capabilities
// for all records existing at that moment, and only those.
func (suite *TestSuiteStandard) TestAddAuditor() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})
	before := suite.createTestRecord("alice", models.RecordTypeIncome, department.Data.ID, 700)

	response := suite.promoteTestAuditor("carol")
	assert.Equal(suite.T(), "carol", response.Data.Principal)

	after := suite.createTestRecord("alice", models.RecordTypeExpense, department.Data.ID, 300)

	// Records existing at the promotion are decryptable, later ones are not
	assert.Equal(suite.T(), uint64(700), suite.decrypt("carol", before.Data.Amount).Data.Value)
	suite.decrypt("carol", after.Data.Amount, http.StatusForbidden)
}

// TestAddAuditorAuthorization verifies that only the system administrator
// can promote auditors.
func (suite *TestSuiteStandard) TestAddAuditorAuthorization() {
	tests := []struct {
		name    string
		headers map[string]string
		status  int
		code    string
	}{
		{"Anonymous", nil, http.StatusUnauthorized, "no_principal"},
		{"Unprivileged principal", test.AuthHeader(suite.T(), "mallory"), http.StatusForbidden, "unauthorized"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/auditors", v1.AuditorEditable{Principal: "carol"}, tt.headers)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.AuditorResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.code, *response.Code)
		})
	}
}

// TestAddAuditorEmptyPrincipal verifies that a promotion with an empty
// principal fails before any grant is issued.
func (suite *TestSuiteStandard) TestAddAuditorEmptyPrincipal() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})
	suite.createTestRecord("alice", models.RecordTypeIncome, department.Data.ID, 700)

	for _, principal := range []string{"", "  "} {
		response := suite.promoteTestAuditor(principal, http.StatusBadRequest)
		assert.Equal(suite.T(), "invalid_argument", *response.Code)
	}
}

// TestAddAuditorIdempotence verifies that promoting twice fails cleanly
// and that retrying after a duplicate does not change the grant state.
func (suite *TestSuiteStandard) TestAddAuditorIdempotence() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})
	record := suite.createTestRecord("alice", models.RecordTypeIncome, department.Data.ID, 1000)

	suite.promoteTestAuditor("carol")
	response := suite.promoteTestAuditor("carol", http.StatusConflict)
	assert.Equal(suite.T(), "already_exists", *response.Code)

	assert.Equal(suite.T(), uint64(1000), suite.decrypt("carol", record.Data.Amount).Data.Value)
}

func (suite *TestSuiteStandard) TestGetAuditors() {
	suite.promoteTestAuditor("carol")
	suite.promoteTestAuditor("dave")

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/auditors", nil, test.AuthHeader(suite.T(), systemAdmin))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AuditorListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), "carol", response.Data[0].Principal)
	assert.Equal(suite.T(), "dave", response.Data[1].Principal)

	// The auditor list is only visible to the system administrator
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/auditors", nil, test.AuthHeader(suite.T(), "carol"))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)
}

// TestRemoveAuditor verifies that removal only retracts the role, not the
// grants that were already issued.
func (suite *TestSuiteStandard) TestRemoveAuditor() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})
	record := suite.createTestRecord("alice", models.RecordTypeIncome, department.Data.ID, 1000)

	suite.promoteTestAuditor("carol")

	r := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/auditors/carol", nil, test.AuthHeader(suite.T(), systemAdmin))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// The role gating bulk reads is gone
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/records", nil, test.AuthHeader(suite.T(), "carol"))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)

	// Grants are additive and stay valid
	assert.Equal(suite.T(), uint64(1000), suite.decrypt("carol", record.Data.Amount).Data.Value)

	// Removing a principal that is not an auditor fails
	r = test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/auditors/carol", nil, test.AuthHeader(suite.T(), systemAdmin))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// TestRemoveAuditorAuthorization verifies that only the system
// administrator can remove auditors.
func (suite *TestSuiteStandard) TestRemoveAuditorAuthorization() {
	suite.promoteTestAuditor("carol")

	tests := []struct {
		name    string
		headers map[string]string
		status  int
	}{
		{"Anonymous", nil, http.StatusUnauthorized},
		{"Unprivileged principal", test.AuthHeader(suite.T(), "mallory"), http.StatusForbidden},
		{"Auditor itself", test.AuthHeader(suite.T(), "carol"), http.StatusForbidden},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/auditors/%s", "carol"), nil, tt.headers)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}
