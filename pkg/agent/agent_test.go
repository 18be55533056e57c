package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "liyu1981.xyz/device-health-service/pkg/testing"

	"liyu1981.xyz/device-health-service/pkg/agent"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/db"
	"liyu1981.xyz/device-health-service/pkg/health"
	dhttp "liyu1981.xyz/device-health-service/pkg/http"
	"liyu1981.xyz/device-health-service/pkg/models"
)

type fakeSampler struct {
	snapshot *agent.Snapshot
	err      error
	calls    atomic.Int32
}

func (f *fakeSampler) Sample(ctx context.Context) (*agent.Snapshot, error) {
	f.calls.Add(1)
	return f.snapshot, f.err
}

func fullDiskSnapshot() *agent.Snapshot {
	return &agent.Snapshot{
		StorageTotalGB:     128,
		StorageUsedGB:      120,
		StorageAvailableGB: 8,
		RAMTotalMB:         16384,
		RAMAvailableMB:     8192,
		HostID:             "host-1",
		Hostname:           "workstation",
		OS:                 "linux",
		Platform:           "ubuntu",
		PlatformVersion:    "24.04",
		KernelVersion:      "6.8.0",
	}
}

func newService(t *testing.T) (*httptest.Server, string, string) {
	t.Helper()

	h := (&health.Health{Db: *db.GetInstance(db.UseMemorySqliteDialector())}).WithDefaultServices()

	email := uuid.NewString() + "@example.com"
	centroID := uuid.NewString()
	customer := models.Customer{Email: email, Name: "Agent", CentroID: centroID}
	require.NoError(t, h.Db.Conn.Create(&customer).Error)
	require.NoError(t, h.Db.Conn.Create(&models.LoyaltyCard{
		CustomerID: customer.ID,
		CentroID:   centroID,
		CardNumber: "DH-" + uuid.NewString(),
		Status:     models.LoyaltyCardActive,
	}).Error)

	gin.SetMode(gin.TestMode)
	rs := &dhttp.RestfulServer{Server: gin.New(), Health: h}
	rs.Setup()

	srv := httptest.NewServer(rs.Server)
	t.Cleanup(srv.Close)
	return srv, email, centroID
}

func TestSnapshotToRequest(t *testing.T) {
	req := fullDiskSnapshot().ToRequest("a@example.com", "centro-1", "")

	assert.Equal(t, string(models.SourceDesktopAgent), req.Source)
	require.NotNil(t, req.DeviceID)
	assert.Equal(t, "host-1", *req.DeviceID, "device id falls back to host id")
	assert.Equal(t, 128.0, *req.StorageTotalGB)
	assert.Equal(t, 120.0, *req.StorageUsedGB)
	assert.Equal(t, 16384.0, *req.RAMTotalMB)
	assert.Equal(t, "ubuntu 24.04", req.OSVersion)
	assert.Equal(t, "workstation", req.DeviceModelInfo)
	assert.Nil(t, req.BatteryLevel)
	assert.NoError(t, req.Validate())

	explicit := fullDiskSnapshot().ToRequest("a@example.com", "centro-1", "laptop-7")
	assert.Equal(t, "laptop-7", *explicit.DeviceID)

	bare := (&agent.Snapshot{KernelVersion: "6.8.0"}).ToRequest("a@example.com", "centro-1", "")
	assert.Nil(t, bare.DeviceID)
	assert.Equal(t, "6.8.0", bare.OSVersion)
}

func TestHostSampler(t *testing.T) {
	snapshot, err := agent.NewHostSampler(t.TempDir()).Sample(context.Background())
	require.NoError(t, err)

	assert.Greater(t, snapshot.StorageTotalGB, 0.0)
	assert.GreaterOrEqual(t, snapshot.StorageAvailableGB, 0.0)
	assert.Greater(t, snapshot.RAMTotalMB, 0.0)
	assert.NotEmpty(t, snapshot.OS)
}

func TestHostSamplerMissingPath(t *testing.T) {
	_, err := agent.NewHostSampler("/does/not/exist/" + uuid.NewString()).Sample(context.Background())
	assert.Error(t, err)
}

func TestReportOnceAgainstService(t *testing.T) {
	common.SetTestLoggerNop()
	srv, email, centroID := newService(t)

	a := &agent.Agent{
		Sampler:       &fakeSampler{snapshot: fullDiskSnapshot()},
		Client:        agent.NewClient(srv.URL + "/"),
		CustomerEmail: email,
		CentroID:      centroID,
	}

	result, err := a.ReportOnce(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.LogID)
	types := []string{}
	for _, anomaly := range result.Anomalies {
		types = append(types, anomaly.Type)
	}
	assert.Contains(t, types, "storage_critical")
	assert.Less(t, result.HealthScore, 100)
}

func TestReportOnceUnknownCustomer(t *testing.T) {
	common.SetTestLoggerNop()
	srv, _, centroID := newService(t)

	a := &agent.Agent{
		Sampler:       &fakeSampler{snapshot: fullDiskSnapshot()},
		Client:        agent.NewClient(srv.URL),
		CustomerEmail: uuid.NewString() + "@example.com",
		CentroID:      centroID,
	}

	_, err := a.ReportOnce(context.Background())
	var statusErr *agent.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestClientSendsAction(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/device-health", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(health.LogHealthResult{Success: true, HealthScore: 90, LogID: "log-1"})
	}))
	defer srv.Close()

	result, err := agent.NewClient(srv.URL).LogHealth(context.Background(), fullDiskSnapshot().ToRequest("a@example.com", "c1", ""))
	require.NoError(t, err)

	assert.Equal(t, "log-1", result.LogID)
	assert.Equal(t, "log_health", got["action"])
	assert.Equal(t, "a@example.com", got["customer_email"])
	assert.Equal(t, "desktop_agent", got["source"])
	assert.Equal(t, 128.0, got["storage_total_gb"])
}

func TestClientErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"access denied","reason":"service_disabled"}`))
	}))
	defer srv.Close()

	_, err := agent.NewClient(srv.URL).LogHealth(context.Background(), fullDiskSnapshot().ToRequest("a@example.com", "c1", ""))
	var statusErr *agent.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "access denied (service_disabled)", statusErr.Message)
}

func TestRunOnceReturnsSamplerError(t *testing.T) {
	common.SetTestLoggerNop()
	sampler := &fakeSampler{err: errors.New("no disk")}
	a := &agent.Agent{Sampler: sampler, Client: agent.NewClient("http://127.0.0.1:0")}

	err := a.Run(context.Background(), 0)
	assert.EqualError(t, err, "no disk")
	assert.Equal(t, int32(1), sampler.calls.Load())
}

func TestRunLoopsUntilCancelled(t *testing.T) {
	common.SetTestLoggerNop()
	var posts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		_ = json.NewEncoder(w).Encode(health.LogHealthResult{Success: true})
	}))
	defer srv.Close()

	a := &agent.Agent{
		Sampler:       &fakeSampler{snapshot: fullDiskSnapshot()},
		Client:        agent.NewClient(srv.URL),
		CustomerEmail: "a@example.com",
		CentroID:      "c1",
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, 10*time.Millisecond) }()

	assert.Eventually(t, func() bool { return posts.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("agent did not stop after cancel")
	}
}
