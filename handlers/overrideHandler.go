package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentaspace/rentals_backend/models"
)

func UpsertStatementOverride(c *gin.Context) {
	var input models.NewStatementOverride
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	override, err := models.UpsertStatementOverride(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, override)
}

func DeleteStatementOverride(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	override, err := models.DeleteStatementOverride(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, override)
}

func ListStatementOverrides(c *gin.Context) {
	leaseId, ok := intQuery(c, "lease_id")
	if !ok {
		return
	}
	if leaseId == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lease_id is required"})
		return
	}
	overrides, err := models.ListStatementOverrides(c.Request.Context(), leaseId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overrides)
}
