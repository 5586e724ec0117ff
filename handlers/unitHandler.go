package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentaspace/rentals_backend/models"
)

func CreateUnit(c *gin.Context) {
	var input models.NewUnit
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	unit, err := models.CreateUnit(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

func UpdateUnit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewUnit
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	unit, err := models.UpdateUnit(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

func DeleteUnit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	unit, err := models.DeleteUnit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

func GetUnit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	unit, err := models.GetUnit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

func ListUnits(c *gin.Context) {
	propertyId, ok := intQuery(c, "property_id")
	if !ok {
		return
	}
	units, err := models.ListUnits(c.Request.Context(), propertyId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, units)
}
