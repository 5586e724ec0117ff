package handlers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/rentaspace/rentals_backend/config"
	"github.com/rentaspace/rentals_backend/models"
	"github.com/sirupsen/logrus"
)

type cronGenerateRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// CronGenerateObligations is the monthly batch entry point for the external
// scheduler. Auth is a shared token, not a user session: the run spans all
// landlords. Defaults to the current period when the body omits year/month.
func CronGenerateObligations(c *gin.Context) {
	logger := config.GetLogger()

	token := c.Request.Header.Get("X-Cron-Token")
	if token == "" || token != os.Getenv("CRON_TOKEN") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req cronGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Year == 0 || req.Month == 0 {
		now := time.Now().UTC()
		req.Year = now.Year()
		req.Month = int(now.Month())
	}

	// Redis lock is a best-effort guard against overlapping scheduler runs.
	// Generation itself is idempotent, so a missing lock only costs wasted work.
	var lock *redislock.Lock
	redisLock := config.GetRedisLock()
	if redisLock == nil {
		logger.WithFields(logrus.Fields{
			"field": "CronGenerateObligations",
			"year":  req.Year,
			"month": req.Month,
		}).Warn("redis lock not ready; proceeding without redis lock")
	} else {
		var err error
		lock, err = redisLock.Obtain(c.Request.Context(),
			fmt.Sprintf("lock:obligations:%d-%d", req.Year, req.Month), 30*time.Second, nil)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"field": "CronGenerateObligations",
				"year":  req.Year,
				"month": req.Month,
			}).Warn("could not obtain redis lock; proceeding without redis lock: " + err.Error())
			lock = nil
		}
	}
	defer func() {
		if lock == nil {
			return
		}
		if releaseErr := lock.Release(c.Request.Context()); releaseErr != nil {
			logger.WithFields(logrus.Fields{
				"field": "CronGenerateObligations",
			}).Warn("failed to release redis lock: " + releaseErr.Error())
		}
	}()

	results, err := models.GenerateForAllLeases(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	generated := 0
	failed := 0
	for _, result := range results {
		if result.Status == models.BatchStatusOk {
			generated++
		} else {
			failed++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"year":      req.Year,
		"month":     req.Month,
		"generated": generated,
		"failed":    failed,
		"results":   results,
	})
}
