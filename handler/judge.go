package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"judgewatch/middleware"
	"judgewatch/service/db"
	"judgewatch/service/judge"
	"judgewatch/service/poll"
	"judgewatch/utils"
	"judgewatch/view"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// @summary     IdleJudge
// @description Get the judge watching the fewest jobs and return its ID.
// @tags        judge
// @produce     json
// @success     200 {object} any{judge=string}
// @success     500 {object} any{error=string}
// @router      /judge/idle [get]
func HandleIdleJudge(c *gin.Context) {
	judgeID, _, err := judge.GetIdleJudge()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"judge": judgeID})
}

func viewCacheKey(c *gin.Context, judgeID, mode, jobID string) string {
	return fmt.Sprintf("view:%s:%s:%s:%s", judgeID, mode, jobID, middleware.Locale(c))
}

// @summary     JobWait
// @description Wait for a job to finish and return its view.
// @description Polls the judge every 500ms, at most 1200 times.
// @tags        judge
// @produce     json
// @param       judge_id path     string true  "Judge ID"
// @param       id       path     string true  "Job ID"
// @param       mode     query    string false "task or test"
// @success     200      {object} view.View
// @failure     400      {object} any{error=string}
// @failure     404      {object} any{error=string}
// @failure     502      {object} any{error=string}
// @failure     504      {object} any{error=string,label=string}
// @router      /judge/{judge_id}/job/{id} [get]
func HandleJobWait(c *gin.Context) {
	judgeID := c.Param("judge_id")
	jobID := c.Param("id")
	mode := c.DefaultQuery("mode", judge.ModeTask)
	if mode != judge.ModeTask && mode != judge.ModeTest {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mode"})
		return
	}

	j, err := judge.GetJudge(judgeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	key := viewCacheKey(c, judgeID, mode, jobID)
	if db.RDB != nil {
		var v view.View
		ok, err := db.CachedJSON(ctx, db.RDB, key, &v)
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("Failed to read cached view")
		}
		if ok {
			utils.SetHeaderCacheForever(c)
			c.JSON(http.StatusOK, v)
			return
		}
	}

	// The poll is bound to the request and stops when the client goes away.
	task := j.Watch(ctx, poll.Params{ID: jobID, Mode: mode})
	res, err := task.Wait(ctx)
	if err != nil {
		respondPollError(c, err)
		return
	}

	v := Presenter.Present(ctx, &res)
	if db.RDB != nil {
		if err := db.CacheJSON(ctx, db.RDB, key, v, ResultTTL); err != nil {
			log.WithError(err).WithField("key", key).Warn("Failed to cache view")
		}
	}
	utils.SetHeaderCacheForever(c)
	c.JSON(http.StatusOK, v)
}

func respondPollError(c *gin.Context, err error) {
	utils.SetHeaderNoCache(c)
	var re *judge.ResponseError
	switch {
	case errors.Is(err, poll.ErrTimedOut):
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error": "timed_out",
			"label": Presenter.Translator.Lookup(c.Request.Context(), "timed_out"),
		})
	case errors.Is(err, context.Canceled):
		// The client is gone, nobody reads the answer.
		c.Status(499)
	case errors.As(err, &re) && re.StatusCode == http.StatusNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("Failed to watch job")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

// @summary     JobHistory
// @description List the graded submissions of a task, oldest first.
// @tags        judge
// @produce     json
// @param       judge_id path     string true "Judge ID"
// @param       name     path     string true "Task name"
// @success     200      {object} any{results=[]view.View}
// @failure     400      {object} any{error=string}
// @failure     502      {object} any{error=string}
// @router      /judge/{judge_id}/history/{name} [get]
func HandleJobHistory(c *gin.Context) {
	judgeID := c.Param("judge_id")
	name := c.Param("name")

	j, err := judge.GetJudge(judgeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	results, err := j.History(ctx, name)
	if err != nil {
		log.WithError(err).WithField("task", name).Error("Failed to get history")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	utils.SetHeaderNoCache(c)
	c.JSON(http.StatusOK, gin.H{"results": Presenter.PresentAll(ctx, results)})
}
