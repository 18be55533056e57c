package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/health"
)

const (
	actionPath      = "/v1/device-health"
	actionLogHealth = "log_health"

	DefaultRequestTimeout = 10 * time.Second
)

// StatusError is a non 2xx answer from the service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("device health service returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultRequestTimeout},
	}
}

type logHealthBody struct {
	Action string `json:"action"`
	*health.LogHealthRequest
}

func (c *Client) LogHealth(ctx context.Context, req *health.LogHealthRequest) (*health.LogHealthResult, error) {
	payload, err := json.Marshal(logHealthBody{Action: actionLogHealth, LogHealthRequest: req})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+actionPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post log_health: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error  string `json:"error"`
			Reason string `json:"reason"`
		}
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &failure) == nil && failure.Error != "" {
			msg = failure.Error
			if failure.Reason != "" {
				msg += " (" + failure.Reason + ")"
			}
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	var result health.LogHealthResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// Agent samples the host and reports it as one customer's device.
type Agent struct {
	Sampler       Sampler
	Client        *Client
	CustomerEmail string
	CentroID      string
	DeviceID      string
}

func (a *Agent) ReportOnce(ctx context.Context) (*health.LogHealthResult, error) {
	logger := common.GetLoggerWith(common.LoggerNameAgent)

	snapshot, err := a.Sampler.Sample(ctx)
	if err != nil {
		return nil, err
	}

	result, err := a.Client.LogHealth(ctx, snapshot.ToRequest(a.CustomerEmail, a.CentroID, a.DeviceID))
	if err != nil {
		return nil, err
	}

	logger.Info("Reported device health",
		zap.String("centro_id", a.CentroID),
		zap.String("log_id", result.LogID),
		zap.Int("health_score", result.HealthScore),
		zap.Int("anomalies", len(result.Anomalies)),
	)
	return result, nil
}

// Run reports once when interval is zero, otherwise every interval until ctx
// is done. Failed rounds are logged and the loop keeps going.
func (a *Agent) Run(ctx context.Context, interval time.Duration) error {
	logger := common.GetLoggerWith(common.LoggerNameAgent)

	if interval <= 0 {
		_, err := a.ReportOnce(ctx)
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := a.ReportOnce(ctx); err != nil {
			logger.Warn("Report failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
