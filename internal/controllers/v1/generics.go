package v1

import (
	"fmt"

	"github.com/cipherledger/backend/internal/models"
)

// getModelByID gets a resource of a specified type by its ID.
//
// If the resource does not exist or the ID is 0, an appropriate error is returned.
func getModelByID[T models.Model](id uint64) (resource T, err error) {
	if id == 0 {
		return resource, fmt.Errorf("no %s ID specified", resource.Self())
	}

	err = models.DB.First(&resource, id).Error
	return
}
