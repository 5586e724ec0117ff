package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentaspace/rentals_backend/models"
	"github.com/rentaspace/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

type statementRequest struct {
	PeriodFrom string                     `json:"period_from" binding:"required"`
	PeriodTo   string                     `json:"period_to" binding:"required"`
	Actuals    map[string]decimal.Decimal `json:"actuals"`
}

func parsePeriod(c *gin.Context, fromRaw string, toRaw string) (utils.YearMonth, utils.YearMonth, bool) {
	from, err := utils.ParseYearMonth(fromRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_from: " + err.Error()})
		return from, from, false
	}
	to, err := utils.ParseYearMonth(toRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_to: " + err.Error()})
		return from, to, false
	}
	return from, to, true
}

// PreviewStatement reconciles the requested period without persisting.
// Period bounds come from ?from and ?to query parameters.
func PreviewStatement(c *gin.Context) {
	unitId, ok := idParam(c)
	if !ok {
		return
	}
	from, to, ok := parsePeriod(c, c.Query("from"), c.Query("to"))
	if !ok {
		return
	}
	data, summary, err := models.PreviewStatement(c.Request.Context(), unitId, from, to, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "annual_summary": summary})
}

func CreateStatement(c *gin.Context) {
	unitId, ok := idParam(c)
	if !ok {
		return
	}
	var req statementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	from, to, ok := parsePeriod(c, req.PeriodFrom, req.PeriodTo)
	if !ok {
		return
	}
	statement, err := models.BuildStatement(c.Request.Context(), unitId, from, to, req.Actuals)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, statement)
}

func ListStatements(c *gin.Context) {
	unitId, ok := intQuery(c, "unit_id")
	if !ok {
		return
	}
	statements, err := models.ListStatements(c.Request.Context(), unitId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statements)
}

func GetStatement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	statement, err := models.GetStatement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}

func UpdateStatement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.UpdateStatementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	statement, err := models.UpdateStatement(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}

func DeleteStatement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	statement, err := models.DeleteStatement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}

func ExportStatement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	filename, err := models.ExportStatementExcel(c.Request.Context(), id, &buf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
