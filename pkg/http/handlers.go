package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/device-health-service/pkg/health"
)

const (
	ActionLogHealth        = "log_health"
	ActionSubmitQuiz       = "submit_quiz"
	ActionGetHealthHistory = "get_health_history"
	ActionVerifyAccess     = "verify_access"
	ActionAcceptAlert      = "accept_alert"
)

// actionEnvelope is the part of every action body read before dispatch.
type actionEnvelope struct {
	Action        string `json:"action"`
	CustomerEmail string `json:"customer_email"`
}

func (rs *RestfulServer) PostDeviceHealth(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var env actionEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	if !rs.CheckCustomerLimiter(env.CustomerEmail) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	switch env.Action {
	case ActionLogHealth:
		runAction(c, body, rs.Health.Log.LogHealth)
	case ActionSubmitQuiz:
		runAction(c, body, rs.Health.Quiz.SubmitQuiz)
	case ActionGetHealthHistory:
		runAction(c, body, rs.Health.History.GetHealthHistory)
	case ActionVerifyAccess:
		runAction(c, body, rs.Health.Access.VerifyAccess)
	case ActionAcceptAlert:
		runAction(c, body, health.AcceptAlertWith(rs.Health.Alert))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action: " + env.Action})
	}
}

// runAction decodes body into the request type of call and writes its result.
func runAction[Req any, Res any](c *gin.Context, body []byte, call func(context.Context, *Req) (Res, error)) {
	var req Req
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := call(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
