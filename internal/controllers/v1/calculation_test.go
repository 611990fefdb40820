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

// saveTestCalculation submits an externally computed encrypted result as
// the principal.
func (suite *TestSuiteStandard) saveTestCalculation(principal string, value uint64, editable v1.CalculationEditable, expectedStatus ...int) v1.CalculationResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = []int{201}
	}

	ciphertext, proof, err := suite.fhe.EncryptForSubmission(value)
	suite.Require().Nil(err)

	editable.Ciphertext = ciphertext
	editable.Proof = proof

	recorder := test.Request(suite.T(), "POST", "/v1/calculations", editable, test.AuthHeader(suite.T(), principal))
	test.AssertHTTPStatus(suite.T(), &recorder, expectedStatus...)

	var response v1.CalculationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	return response
}

func (suite *TestSuiteStandard) TestSaveCalculation() {
	response := suite.saveTestCalculation("carol", 4200, v1.CalculationEditable{
		Kind:          models.RecordTypeIncome,
		DepartmentIDs: []uint64{2, 3},
		ProjectIDs:    []uint64{0},
		Description:   "Q3 totals, computed offline",
	})

	assert.Equal(suite.T(), models.RecordTypeIncome, response.Data.Kind)
	assert.Equal(suite.T(), []uint64{2, 3}, response.Data.DepartmentIDs)
	assert.Equal(suite.T(), "carol", response.Data.Creator)
	assert.NotEmpty(suite.T(), response.Data.Result)

	// The submitter holds a decrypt capability for the result, nobody
	// else does
	assert.Equal(suite.T(), uint64(4200), suite.decrypt("carol", response.Data.Result).Data.Value)
	suite.decrypt("mallory", response.Data.Result, http.StatusForbidden)
}

// TestSaveCalculationProof verifies that a broken inclusion proof is
// rejected without storing anything.
func (suite *TestSuiteStandard) TestSaveCalculationProof() {
	ciphertext, proof, err := suite.fhe.EncryptForSubmission(4200)
	suite.Require().Nil(err)

	proof[0] ^= 0xff

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/calculations", v1.CalculationEditable{
		Kind:        models.RecordTypeIncome,
		Ciphertext:  ciphertext,
		Proof:       proof,
		Description: "Tampered proof",
	}, test.AuthHeader(suite.T(), "carol"))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnprocessableEntity)

	var response v1.CalculationResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "proof_verification_failed", *response.Code)
}

func (suite *TestSuiteStandard) TestSaveCalculationInvalid() {
	tests := []struct {
		name     string
		editable v1.CalculationEditable
	}{
		{"Invalid kind", v1.CalculationEditable{Kind: "median", Description: "Median"}},
		{"Empty description", v1.CalculationEditable{Kind: models.RecordTypeIncome}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			ciphertext, proof, err := suite.fhe.EncryptForSubmission(4200)
			assert.Nil(t, err)

			tt.editable.Ciphertext = ciphertext
			tt.editable.Proof = proof

			r := test.Request(t, http.MethodPost, "http://example.com/v1/calculations", tt.editable, test.AuthHeader(t, "carol"))
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.CalculationResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, "invalid_argument", *response.Code)
		})
	}
}

// TestSaveCalculationAnonymous verifies that an identity is required.
func (suite *TestSuiteStandard) TestSaveCalculationAnonymous() {
	ciphertext, proof, err := suite.fhe.EncryptForSubmission(4200)
	suite.Require().Nil(err)

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/calculations", v1.CalculationEditable{
		Kind:        models.RecordTypeIncome,
		Ciphertext:  ciphertext,
		Proof:       proof,
		Description: "Anonymous submission",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestGetCalculation() {
	calculation := suite.saveTestCalculation("carol", 4200, v1.CalculationEditable{
		Kind:        models.RecordTypeExpense,
		Description: "Q3 expenses",
	})

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"Existing calculation", fmt.Sprint(calculation.Data.ID), http.StatusOK},
		{"No calculation with this ID", "915", http.StatusNotFound},
		{"Invalid ID", "NotAnInteger", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			// The stored handle is useless without a grant, reading the
			// metadata is world readable
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/calculations/%s", tt.id), nil)
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusOK {
				var response v1.CalculationResponse
				test.DecodeResponse(t, &r, &response)
				assert.Equal(t, calculation.Data.Result, response.Data.Result)
				assert.Equal(t, "carol", response.Data.Creator)
			}
		})
	}
}
