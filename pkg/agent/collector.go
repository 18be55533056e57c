package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"liyu1981.xyz/device-health-service/pkg/health"
	"liyu1981.xyz/device-health-service/pkg/models"
)

const (
	bytesPerGB = 1024 * 1024 * 1024
	bytesPerMB = 1024 * 1024

	DefaultDiskPath = "/"
	AppVersion      = "device-health-agent/1"
)

// Snapshot is one reading of the host, already in the units log_health expects.
type Snapshot struct {
	StorageTotalGB     float64
	StorageUsedGB      float64
	StorageAvailableGB float64

	RAMTotalMB     float64
	RAMAvailableMB float64

	HostID          string
	Hostname        string
	OS              string
	Platform        string
	PlatformVersion string
	KernelVersion   string
}

type Sampler interface {
	Sample(ctx context.Context) (*Snapshot, error)
}

// HostSampler reads disk usage of DiskPath, virtual memory and host info.
type HostSampler struct {
	DiskPath string
}

func NewHostSampler(diskPath string) *HostSampler {
	if diskPath == "" {
		diskPath = DefaultDiskPath
	}
	return &HostSampler{DiskPath: diskPath}
}

func (s *HostSampler) Sample(ctx context.Context) (*Snapshot, error) {
	usage, err := disk.UsageWithContext(ctx, s.DiskPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get disk usage of %s: %w", s.DiskPath, err)
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get virtual memory: %w", err)
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get host info: %w", err)
	}

	return &Snapshot{
		StorageTotalGB:     float64(usage.Total) / bytesPerGB,
		StorageUsedGB:      float64(usage.Used) / bytesPerGB,
		StorageAvailableGB: float64(usage.Free) / bytesPerGB,
		RAMTotalMB:         float64(vm.Total) / bytesPerMB,
		RAMAvailableMB:     float64(vm.Available) / bytesPerMB,
		HostID:             info.HostID,
		Hostname:           info.Hostname,
		OS:                 info.OS,
		Platform:           info.Platform,
		PlatformVersion:    info.PlatformVersion,
		KernelVersion:      info.KernelVersion,
	}, nil
}

// ToRequest builds a desktop_agent log_health request. The device id falls
// back to the host id.
func (s *Snapshot) ToRequest(customerEmail, centroID, deviceID string) *health.LogHealthRequest {
	if deviceID == "" {
		deviceID = s.HostID
	}

	req := &health.LogHealthRequest{
		CustomerEmail:      customerEmail,
		CentroID:           centroID,
		Source:             string(models.SourceDesktopAgent),
		StorageTotalGB:     &s.StorageTotalGB,
		StorageUsedGB:      &s.StorageUsedGB,
		StorageAvailableGB: &s.StorageAvailableGB,
		RAMTotalMB:         &s.RAMTotalMB,
		RAMAvailableMB:     &s.RAMAvailableMB,
		OSVersion:          s.osVersion(),
		DeviceManufacturer: s.OS,
		DeviceModelInfo:    s.Hostname,
		AppVersion:         AppVersion,
	}
	if deviceID != "" {
		req.DeviceID = &deviceID
	}
	return req
}

func (s *Snapshot) osVersion() string {
	parts := []string{}
	for _, p := range []string{s.Platform, s.PlatformVersion} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return s.KernelVersion
	}
	return strings.Join(parts, " ")
}
