package v1_test

import (
	"net/http"

	v1 "github.com/cipherledger/backend/internal/controllers/v1"
	"github.com/cipherledger/backend/internal/models"
	"github.com/cipherledger/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) getTestStats() v1.Stats {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/stats", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.StatsResponse
	test.DecodeResponse(suite.T(), &r, &response)

	return *response.Data
}

func (suite *TestSuiteStandard) TestStats() {
	// The bootstrapped System department is always there
	stats := suite.getTestStats()
	assert.Equal(suite.T(), v1.Stats{Departments: 1}, stats)

	department := suite.createTestDepartment(v1.DepartmentEditable{Admin: "alice"})
	suite.createTestRecord("alice", models.RecordTypeIncome, department.Data.ID, 1000)
	suite.createTestRecord("alice", models.RecordTypeExpense, department.Data.ID, 500)
	suite.promoteTestAuditor("carol")
	suite.saveTestCalculation("carol", 500, v1.CalculationEditable{
		Kind:        models.RecordTypeIncome,
		Description: "Offline total",
	})

	stats = suite.getTestStats()
	assert.Equal(suite.T(), v1.Stats{
		Departments:  2,
		Records:      2,
		Calculations: 1,
		Auditors:     1,
	}, stats)
}
