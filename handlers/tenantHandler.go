package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentaspace/rentals_backend/models"
)

func CreateTenant(c *gin.Context) {
	var input models.NewTenant
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	tenant, err := models.CreateTenant(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

func UpdateTenant(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewTenant
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	tenant, err := models.UpdateTenant(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func DeleteTenant(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	tenant, err := models.DeleteTenant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func GetTenant(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	tenant, err := models.GetTenant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func ListTenants(c *gin.Context) {
	tenants, err := models.ListTenants(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenants)
}
