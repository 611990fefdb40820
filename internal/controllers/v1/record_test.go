package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/cipherledger/backend/internal/controllers/v1"
	"github.com/cipherledger/backend/internal/models"
	"github.com/cipherledger/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestRecordsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestRecordsOptions() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})
	record := suite.createTestRecord("alice", models.RecordTypeIncome, department.Data.ID, 1000)

	tests := []struct {
		name   string
		id     string // path at the records endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No record with this ID", "915", http.StatusNotFound},
		{"Not a valid ID", "NotAnInteger", http.StatusBadRequest},
		{"Record exists", fmt.Sprint(record.Data.ID), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/records", tt.id)
			r := test.Request(t, http.MethodOptions, path, nil)
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestCreateRecord() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})
	suite.addTestMember("alice", department.Data.ID, "bob")

	response := suite.createTestRecord("bob", models.RecordTypeIncome, department.Data.ID, 1000)

	assert.Equal(suite.T(), models.RecordTypeIncome, response.Data.Type)
	assert.Equal(suite.T(), department.Data.ID, response.Data.DepartmentID)
	assert.Equal(suite.T(), "bob", response.Data.Creator)
	assert.NotEmpty(suite.T(), response.Data.Amount)

	// The creator and the department admin hold decrypt capabilities for
	// the amount, other members do not
	suite.addTestMember("alice", department.Data.ID, "carl")

	assert.Equal(suite.T(), uint64(1000), suite.decrypt("bob", response.Data.Amount).Data.Value)
	assert.Equal(suite.T(), uint64(1000), suite.decrypt("alice", response.Data.Amount).Data.Value)
	suite.decrypt("carl", response.Data.Amount, http.StatusForbidden)
}

// TestCreateRecordAuthorization verifies that only department members can
// create records.
func (suite *TestSuiteStandard) TestCreateRecordAuthorization() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})

	tests := []struct {
		name         string
		departmentID uint64
		headers      map[string]string
		status       int
		code         string
	}{
		{"Anonymous", department.Data.ID, nil, http.StatusUnauthorized, "no_principal"},
		{"Not a member", department.Data.ID, test.AuthHeader(suite.T(), "mallory"), http.StatusForbidden, "unauthorized"},
		{"No department with this ID", 915, test.AuthHeader(suite.T(), "alice"), http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			ciphertext, proof, err := suite.fhe.EncryptForSubmission(1000)
			assert.Nil(t, err)

			r := test.Request(t, http.MethodPost, "http://example.com/v1/records", v1.RecordEditable{
				Type:         models.RecordTypeIncome,
				Ciphertext:   ciphertext,
				Proof:        proof,
				DepartmentID: tt.departmentID,
				Description:  uuid.NewString(),
			}, tt.headers)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.RecordResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.code, *response.Code)
		})
	}
}

// TestCreateRecordProof verifies that submissions with a broken inclusion
// proof are rejected without storing anything.
func (suite *TestSuiteStandard) TestCreateRecordProof() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})

	ciphertext, proof, err := suite.fhe.EncryptForSubmission(1000)
	suite.Require().Nil(err)

	proof[0] ^= 0xff

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/records", v1.RecordEditable{
		Type:         models.RecordTypeIncome,
		Ciphertext:   ciphertext,
		Proof:        proof,
		DepartmentID: department.Data.ID,
		Description:  "Tampered proof",
	}, test.AuthHeader(suite.T(), "alice"))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnprocessableEntity)

	var response v1.RecordResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "proof_verification_failed", *response.Code)
}

func (suite *TestSuiteStandard) TestCreateRecordInvalid() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})

	ciphertext, proof, err := suite.fhe.EncryptForSubmission(1000)
	suite.Require().Nil(err)

	tests := []struct {
		name     string
		editable v1.RecordEditable
	}{
		{"Invalid type", v1.RecordEditable{Type: "transfer", Ciphertext: ciphertext, Proof: proof, DepartmentID: department.Data.ID, Description: "Transfer"}},
		{"Empty description", v1.RecordEditable{Type: models.RecordTypeIncome, Ciphertext: ciphertext, Proof: proof, DepartmentID: department.Data.ID}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/records", tt.editable, test.AuthHeader(t, "alice"))
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.RecordResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, "invalid_argument", *response.Code)
		})
	}
}

func (suite *TestSuiteStandard) TestGetRecordSingle() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})
	suite.addTestMember("alice", department.Data.ID, "bob")
	record := suite.createTestRecord("bob", models.RecordTypeExpense, department.Data.ID, 500)

	suite.promoteTestAuditor("carol")

	tests := []struct {
		name    string
		id      string
		headers map[string]string
		status  int
	}{
		{"Creator", fmt.Sprint(record.Data.ID), test.AuthHeader(suite.T(), "bob"), http.StatusOK},
		{"Other member", fmt.Sprint(record.Data.ID), test.AuthHeader(suite.T(), "alice"), http.StatusOK},
		{"Auditor", fmt.Sprint(record.Data.ID), test.AuthHeader(suite.T(), "carol"), http.StatusOK},
		{"Not a member", fmt.Sprint(record.Data.ID), test.AuthHeader(suite.T(), "mallory"), http.StatusForbidden},
		{"Anonymous", fmt.Sprint(record.Data.ID), nil, http.StatusUnauthorized},
		{"No record with this ID", "915", test.AuthHeader(suite.T(), "bob"), http.StatusNotFound},
		{"Invalid ID", "NotAnInteger", test.AuthHeader(suite.T(), "bob"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/records/%s", tt.id), nil, tt.headers)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestGetRecordsAuditorOnly verifies that the global record list is
// restricted to auditors.
func (suite *TestSuiteStandard) TestGetRecordsAuditorOnly() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})
	suite.createTestRecord("alice", models.RecordTypeIncome, department.Data.ID, 1000)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/records", nil, test.AuthHeader(suite.T(), "alice"))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)

	suite.promoteTestAuditor("carol")

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/records", nil, test.AuthHeader(suite.T(), "carol"))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.RecordListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 1)
}

func (suite *TestSuiteStandard) TestGetDepartmentRecordsPagination() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})

	for i := 0; i < 5; i++ {
		suite.createTestRecord("alice", models.RecordTypeIncome, department.Data.ID, uint64(i))
	}

	tests := []struct {
		name   string
		query  string
		count  int
		offset uint
		limit  int
	}{
		{"Defaults", "", 5, 0, 50},
		{"Limit", "limit=2", 2, 0, 2},
		{"Offset", "offset=3", 2, 3, 50},
		{"Offset and limit", "offset=1&limit=2", 2, 1, 2},
		{"Offset beyond the last record", "offset=5", 0, 5, 50},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/departments/%d/records?%s", department.Data.ID, tt.query), nil, test.AuthHeader(t, "alice"))
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.RecordListResponse
			test.DecodeResponse(t, &r, &response)

			assert.Len(t, response.Data, tt.count)
			assert.Equal(t, tt.count, response.Pagination.Count)
			assert.Equal(t, tt.offset, response.Pagination.Offset)
			assert.Equal(t, tt.limit, response.Pagination.Limit)
			assert.Equal(t, int64(5), response.Pagination.Total)

			// Records are returned in creation order
			for i := 1; i < len(response.Data); i++ {
				assert.Greater(t, response.Data[i].ID, response.Data[i-1].ID)
			}
		})
	}

	// Unparseable pagination parameters fail with a machine checkable reason
	for _, query := range []string{"limit=abc", "offset=-1"} {
		suite.T().Run(query, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/departments/%d/records?%s", department.Data.ID, query), nil, test.AuthHeader(t, "alice"))
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.RecordListResponse
			test.DecodeResponse(t, &r, &response)

			assert.NotNil(t, response.Error)
			assert.Equal(t, "invalid_argument", *response.Code)
			assert.Nil(t, response.Pagination)
		})
	}
}

// TestGetDepartmentRecordsMemberOnly verifies that department record
// listing is restricted to members.
func (suite *TestSuiteStandard) TestGetDepartmentRecordsMemberOnly() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})
	suite.createTestRecord("alice", models.RecordTypeIncome, department.Data.ID, 1000)

	tests := []struct {
		name    string
		headers map[string]string
		status  int
	}{
		{"Member", test.AuthHeader(suite.T(), "alice"), http.StatusOK},
		{"Not a member", test.AuthHeader(suite.T(), "mallory"), http.StatusForbidden},
		{"Anonymous", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/departments/%d/records", department.Data.ID), nil, tt.headers)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}
