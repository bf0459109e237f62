package handler

import (
	"errors"
	"net/http"

	"judgewatch/service/judge"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type submitReq struct {
	Code  string `json:"code" binding:"required"`
	Lang  string `json:"lang" binding:"required"`
	Input string `json:"input"`
}

func backendStatus(err error) int {
	var re *judge.ResponseError
	if errors.As(err, &re) && re.StatusCode < http.StatusInternalServerError {
		return re.StatusCode
	}
	return http.StatusBadGateway
}

// @summary     TaskGet
// @description Get the metadata of a task from the idle judge.
// @tags        task
// @produce     json
// @param       name path     string true "Task name"
// @success     200  {object} any{task=judge.TaskInfo,max_score=int}
// @failure     500  {object} any{error=string}
// @failure     502  {object} any{error=string}
// @router      /task/{name} [get]
func HandleTaskGet(c *gin.Context) {
	name := c.Param("name")

	_, j, err := judge.GetIdleJudge()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	task, err := j.Task(c.Request.Context(), name)
	if err != nil {
		c.JSON(backendStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task, "max_score": task.MaxScore()})
}

// @summary     TaskSubmit
// @description Submit code for a task and return the judge and job IDs.
// @tags        task
// @accept      json
// @produce     json
// @param       name      path     string    true "Task name"
// @param       submitReq body     submitReq true "Code and language"
// @success     200       {object} any{judge=string,id=string}
// @failure     400       {object} any{error=string}
// @failure     502       {object} any{error=string}
// @router      /task/{name} [post]
func HandleTaskSubmit(c *gin.Context) {
	name := c.Param("name")

	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	judgeID, j, err := judge.GetIdleJudge()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s := judge.NewSubmission(name, req.Lang, req.Code)
	id, err := j.Submit(c.Request.Context(), s)
	if err != nil {
		log.WithError(err).WithField("task", name).Error("Failed to submit")
		c.JSON(backendStatus(err), gin.H{"error": err.Error()})
		return
	}

	log.WithField("task", name).WithField("judge", judgeID).WithField("id", id).Info("Submitted")
	c.JSON(http.StatusOK, gin.H{"judge": judgeID, "id": id})
}

// @summary     TestSubmit
// @description Run code of a task against a custom input and return the judge and job IDs.
// @tags        task
// @accept      json
// @produce     json
// @param       name      path     string    true "Task name"
// @param       submitReq body     submitReq true "Code, language and input"
// @success     200       {object} any{judge=string,id=string}
// @failure     400       {object} any{error=string}
// @failure     502       {object} any{error=string}
// @router      /task/{name}/test [post]
func HandleTestSubmit(c *gin.Context) {
	name := c.Param("name")

	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	judgeID, j, err := judge.GetIdleJudge()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s := judge.NewSubmission(name, req.Lang, req.Code).WithInput(req.Input)
	id, err := j.Test(c.Request.Context(), s)
	if err != nil {
		log.WithError(err).WithField("task", name).Error("Failed to submit custom test")
		c.JSON(backendStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"judge": judgeID, "id": id})
}
