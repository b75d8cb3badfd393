package license

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryRepository is a Repository kept entirely in memory. It is safe for concurrent use.
type MemoryRepository struct {
	mu       sync.RWMutex
	licenses map[string]License
	devices  map[string][]Device
}

func NewMemoryRepository(licenses ...License) *MemoryRepository {
	repo := &MemoryRepository{
		licenses: map[string]License{},
		devices:  map[string][]Device{},
	}

	for _, lic := range licenses {
		repo.licenses[lic.Key] = lic
	}

	return repo
}

func (r *MemoryRepository) GetLicense(_ context.Context, key string) (License, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lic, found := r.licenses[key]
	if !found {
		return License{}, ErrNotFound
	}

	return lic, nil
}

func (r *MemoryRepository) PutLicense(_ context.Context, lic License) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.licenses[lic.Key] = lic

	return nil
}

func (r *MemoryRepository) ListLicenses(_ context.Context) ([]License, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	licenses := make([]License, 0, len(r.licenses))
	for _, lic := range r.licenses {
		licenses = append(licenses, lic)
	}

	slices.SortFunc(licenses, func(a, b License) int {
		if cmp := a.PurchasedAt.Compare(b.PurchasedAt); cmp != 0 {
			return cmp
		}

		return strings.Compare(a.Key, b.Key)
	})

	return licenses, nil
}

func (r *MemoryRepository) ListDevices(_ context.Context, key string) ([]Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.devices[key]), nil
}

func (r *MemoryRepository) TouchDevice(_ context.Context, key string, deviceID string, when time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.touch(key, deviceID, when)
}

func (r *MemoryRepository) touch(key string, deviceID string, when time.Time) error {
	devices := r.devices[key]
	for idx := range devices {
		if devices[idx].DeviceID == deviceID {
			devices[idx].LastUsed = when

			return nil
		}
	}

	return ErrDeviceNotRegistered
}

func (r *MemoryRepository) RegisterDevice(_ context.Context, device Device, maxDevices int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.touch(device.LicenseKey, device.DeviceID, device.LastUsed) == nil {
		return nil
	}

	if len(r.devices[device.LicenseKey]) >= maxDevices {
		return ErrDeviceQuotaExceeded
	}

	r.devices[device.LicenseKey] = append(r.devices[device.LicenseKey], device)

	return nil
}
