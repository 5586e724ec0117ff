package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentaspace/rentals_backend/models"
)

func CreateLease(c *gin.Context) {
	var input models.NewLease
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	lease, err := models.CreateLease(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lease)
}

func UpdateLease(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewLease
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	lease, err := models.UpdateLease(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lease)
}

func DeleteLease(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	lease, err := models.DeleteLease(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lease)
}

func GetLease(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	lease, err := models.GetLease(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lease)
}

func ListLeases(c *gin.Context) {
	unitId, ok := intQuery(c, "unit_id")
	if !ok {
		return
	}
	tenantId, ok := intQuery(c, "tenant_id")
	if !ok {
		return
	}
	leases, err := models.ListLeases(c.Request.Context(), unitId, tenantId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leases)
}

// BackfillLeaseObligations generates the full obligation schedule for one
// lease, from its start month through the current (or end) month.
func BackfillLeaseObligations(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	results, err := models.GenerateForLeaseRange(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
