package models_test

import (
	"github.com/cipherledger/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestIsAuditor() {
	err := models.DB.Create(&models.Auditor{Principal: "carol"}).Error
	assert.Nil(suite.T(), err)

	auditor, err := models.IsAuditor(models.DB, "carol")
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), auditor)

	auditor, err = models.IsAuditor(models.DB, "mallory")
	assert.Nil(suite.T(), err)
	assert.False(suite.T(), auditor)
}

func (suite *TestSuiteStandard) TestAuditorUnique() {
	err := models.DB.Create(&models.Auditor{Principal: "carol"}).Error
	assert.Nil(suite.T(), err)

	err = models.DB.Create(&models.Auditor{Principal: "carol"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrAlreadyAuditor)
}

func (suite *TestSuiteStandard) TestAuditorBeforeSave() {
	err := models.DB.Create(&models.Auditor{Principal: "  "}).Error
	assert.ErrorIs(suite.T(), err, models.ErrPrincipalEmpty)
}
