package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/cipherledger/backend/internal/controllers/v1"
	"github.com/cipherledger/backend/internal/models"
	"github.com/cipherledger/backend/test"
	"github.com/stretchr/testify/assert"
)

// computeTestAggregate requests an aggregate as the principal.
func (suite *TestSuiteStandard) computeTestAggregate(principal string, editable v1.AggregateEditable, expectedStatus ...int) v1.AggregateResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = []int{200}
	}

	recorder := test.Request(suite.T(), "POST", "/v1/aggregates", editable, test.AuthHeader(suite.T(), principal))
	test.AssertHTTPStatus(suite.T(), &recorder, expectedStatus...)

	var response v1.AggregateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	return response
}

func (suite *TestSuiteStandard) TestAggregate() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})
	suite.createTestRecord("alice", models.RecordTypeIncome, department.Data.ID, 1000)
	suite.createTestRecord("alice", models.RecordTypeIncome, department.Data.ID, 2000)
	suite.createTestRecord("alice", models.RecordTypeExpense, department.Data.ID, 500)
	suite.createTestRecord("alice", models.RecordTypeExpense, department.Data.ID, 300)

	tests := []struct {
		name  string
		kind  v1.AggregateKind
		value uint64
	}{
		{"Income", v1.AggregateIncome, 3000},
		{"Expense", v1.AggregateExpense, 800},
		{"Net", v1.AggregateNet, 2200},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			response := suite.computeTestAggregate("alice", v1.AggregateEditable{
				Kind:          tt.kind,
				DepartmentIDs: []uint64{department.Data.ID},
			})

			assert.NotEmpty(t, response.Data.Result)
			assert.Equal(t, tt.value, suite.decrypt("alice", response.Data.Result).Data.Value)
		})
	}
}

// TestAggregateMultipleDepartments verifies that aggregation spans all
// selected departments.
func (suite *TestSuiteStandard) TestAggregateMultipleDepartments() {
	engineering := suite.createTestDepartment(v1.DepartmentEditable{Name: "Engineering", Admin: "alice"})
	marketing := suite.createTestDepartment(v1.DepartmentEditable{Name: "Marketing", Admin: "erin"})

	suite.createTestRecord("alice", models.RecordTypeIncome, engineering.Data.ID, 1000)
	suite.createTestRecord("erin", models.RecordTypeIncome, marketing.Data.ID, 2000)

	response := suite.computeTestAggregate("alice", v1.AggregateEditable{
		Kind:          v1.AggregateIncome,
		DepartmentIDs: []uint64{engineering.Data.ID, marketing.Data.ID},
	})

	// A caller does not need decrypt capabilities on the inputs, only
	// the result is granted to them
	assert.Equal(suite.T(), uint64(3000), suite.decrypt("alice", response.Data.Result).Data.Value)
}

// TestAggregateNetWrapping verifies the unsigned wrapping semantics when
// expenses exceed income.
func (suite *TestSuiteStandard) TestAggregateNetWrapping() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})
	suite.createTestRecord("alice", models.RecordTypeIncome, department.Data.ID, 100)
	suite.createTestRecord("alice", models.RecordTypeExpense, department.Data.ID, 300)

	response := suite.computeTestAggregate("alice", v1.AggregateEditable{
		Kind:          v1.AggregateNet,
		DepartmentIDs: []uint64{department.Data.ID},
	})

	// 100 - 300 wraps around the unsigned 64 bit range
	var expected uint64 = 100
	expected -= 300
	assert.Equal(suite.T(), expected, suite.decrypt("alice", response.Data.Result).Data.Value)
}

// TestAggregateGrant verifies that the result is granted exclusively to
// the caller.
func (suite *TestSuiteStandard) TestAggregateGrant() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})
	suite.createTestRecord("alice", models.RecordTypeIncome, department.Data.ID, 1000)

	response := suite.computeTestAggregate("bob", v1.AggregateEditable{
		Kind:          v1.AggregateIncome,
		DepartmentIDs: []uint64{department.Data.ID},
	})

	assert.Equal(suite.T(), uint64(1000), suite.decrypt("bob", response.Data.Result).Data.Value)
	suite.decrypt("alice", response.Data.Result, http.StatusForbidden)
}

// TestAggregateEmpty verifies that an aggregate over no matching records
// is an encrypted zero.
func (suite *TestSuiteStandard) TestAggregateEmpty() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})

	response := suite.computeTestAggregate("alice", v1.AggregateEditable{
		Kind:          v1.AggregateIncome,
		DepartmentIDs: []uint64{department.Data.ID},
	})

	assert.Equal(suite.T(), uint64(0), suite.decrypt("alice", response.Data.Result).Data.Value)
}

func (suite *TestSuiteStandard) TestAggregateInvalid() {
	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})

	tests := []struct {
		name     string
		editable v1.AggregateEditable
		headers  map[string]string
		status   int
		code     string
	}{
		{"Anonymous", v1.AggregateEditable{Kind: v1.AggregateIncome, DepartmentIDs: []uint64{department.Data.ID}}, nil, http.StatusUnauthorized, "no_principal"},
		{"No departments selected", v1.AggregateEditable{Kind: v1.AggregateIncome}, test.AuthHeader(suite.T(), "alice"), http.StatusBadRequest, "invalid_argument"},
		{"Unknown department", v1.AggregateEditable{Kind: v1.AggregateIncome, DepartmentIDs: []uint64{915}}, test.AuthHeader(suite.T(), "alice"), http.StatusNotFound, "not_found"},
		{"Invalid kind", v1.AggregateEditable{Kind: "median", DepartmentIDs: []uint64{department.Data.ID}}, test.AuthHeader(suite.T(), "alice"), http.StatusBadRequest, "invalid_argument"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/aggregates", tt.editable, tt.headers)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.AggregateResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.code, *response.Code)
		})
	}
}
