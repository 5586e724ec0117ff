package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentaspace/rentals_backend/models"
)

type generateObligationRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required"`
}

// GenerateObligation snapshots one (lease, year, month) period. Idempotent:
// regenerating an existing period returns it unchanged.
func GenerateObligation(c *gin.Context) {
	leaseId, ok := idParam(c)
	if !ok {
		return
	}
	var req generateObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	obligation, err := models.GenerateObligation(c.Request.Context(), leaseId, req.Year, req.Month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, obligation)
}

type updateObligationsRequest struct {
	Scope models.ObligationScope `json:"scope" binding:"required"`
}

// UpdateObligations re-derives a lease's obligation snapshots from its
// current charge configuration, for the requested scope.
func UpdateObligations(c *gin.Context) {
	leaseId, ok := idParam(c)
	if !ok {
		return
	}
	var req updateObligationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	obligations, err := models.UpdateObligations(c.Request.Context(), leaseId, req.Scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, obligations)
}

func GetObligation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	obligation, err := models.GetObligation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, obligation)
}

func ListObligations(c *gin.Context) {
	leaseId, ok := idParam(c)
	if !ok {
		return
	}
	obligations, err := models.ListObligations(c.Request.Context(), leaseId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, obligations)
}

type obligationNoteRequest struct {
	Note string `json:"note"`
}

func UpdateObligationNote(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req obligationNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	obligation, err := models.UpdateObligationNote(c.Request.Context(), id, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, obligation)
}

func DeleteObligation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	obligation, err := models.DeleteObligation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, obligation)
}
