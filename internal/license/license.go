// Package license implements validation of license keys and the binding of devices to them.
package license

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound            = errors.New("license not found")
	ErrInvalidLicense      = errors.New("invalid license key")
	ErrLicenseExpired      = errors.New("license expired")
	ErrLicenseSuspended    = errors.New("license suspended")
	ErrDeviceQuotaExceeded = errors.New("device quota exceeded")
	ErrDeviceNotRegistered = errors.New("device not registered")
	ErrInvalidParams       = errors.New("license key and device id are required")
	ErrInvalidDefinition   = errors.New("invalid license definition")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusSuspended:
		return true
	default:
		return false
	}
}

type Type string

const (
	TypePremium  Type = "premium"
	TypeStandard Type = "standard"
	TypeTrial    Type = "trial"
)

func (t Type) Valid() bool {
	switch t {
	case TypePremium, TypeStandard, TypeTrial:
		return true
	default:
		return false
	}
}

type License struct {
	Key    string
	Status Status
	Type   Type
	// ExpiresAt is nil for licenses that never expire.
	ExpiresAt   *time.Time
	MaxDevices  int
	Owner       string
	PurchasedAt time.Time
}

// New builds an active license purchased at now. An empty key generates a new one, a given key is
// stored exactly as NormalizeKey returns it so that users can enter it as it was handed out. A zero
// validFor never expires.
func New(key string, licenseType Type, maxDevices int, owner string, validFor time.Duration, now time.Time) (License, error) {
	if !licenseType.Valid() {
		return License{}, fmt.Errorf("%w: unknown type %q", ErrInvalidDefinition, licenseType)
	}

	if maxDevices < 1 {
		return License{}, fmt.Errorf("%w: max devices must be at least 1", ErrInvalidDefinition)
	}

	lic := License{
		Key:         NormalizeKey(key),
		Status:      StatusActive,
		Type:        licenseType,
		MaxDevices:  maxDevices,
		Owner:       owner,
		PurchasedAt: now,
	}

	if lic.Key == "" {
		lic.Key = GenerateKey()
	}

	if validFor > 0 {
		expires := now.Add(validFor)
		lic.ExpiresAt = &expires
	}

	return lic, nil
}

// Expired reports whether the license expiry has passed at the given time.
func (l License) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !now.Before(*l.ExpiresAt)
}

// Device is a single device bound to a license.
type Device struct {
	LicenseKey   string
	DeviceID     string
	RegisteredAt time.Time
	LastUsed     time.Time
}

// Info is the license summary reported to an authenticated device.
type Info struct {
	Key          string     `json:"key"`
	Status       Status     `json:"status"`
	Type         Type       `json:"type"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	MaxDevices   int        `json:"maxDevices"`
	TotalDevices int        `json:"totalDevices"`
	Owner        string     `json:"owner"`
}

// Repository is the storage backing the Service.
type Repository interface {
	GetLicense(ctx context.Context, key string) (License, error)
	PutLicense(ctx context.Context, lic License) error
	ListLicenses(ctx context.Context) ([]License, error)
	ListDevices(ctx context.Context, key string) ([]Device, error)
	TouchDevice(ctx context.Context, key string, deviceID string, when time.Time) error
	// RegisterDevice binds a device unless the license already has maxDevices devices bound. The check
	// and insert must be atomic. Already bound devices are accepted.
	RegisterDevice(ctx context.Context, device Device, maxDevices int) error
}

// Gate answers whether a license key may be used from a device.
type Gate interface {
	Verify(ctx context.Context, key string, deviceID string) (Verification, error)
	Info(ctx context.Context, key string, deviceID string) (Info, error)
	Register(ctx context.Context, key string, deviceID string) error
}

// IsRejection reports whether the error is a definitive answer from a gate, as opposed to a failure to
// reach or query it.
func IsRejection(err error) bool {
	for _, sentinel := range []error{
		ErrNotFound, ErrInvalidLicense, ErrLicenseExpired, ErrLicenseSuspended,
		ErrDeviceQuotaExceeded, ErrDeviceNotRegistered, ErrInvalidParams,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}

// Message returns the user facing text for a gate error.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidParams):
		return "Please enter a license key"
	case errors.Is(err, ErrInvalidLicense), errors.Is(err, ErrNotFound):
		return "Invalid license key"
	case errors.Is(err, ErrLicenseExpired):
		return "License has expired"
	case errors.Is(err, ErrLicenseSuspended):
		return "License has been suspended"
	case errors.Is(err, ErrDeviceQuotaExceeded):
		return "Maximum number of devices reached for this license"
	case errors.Is(err, ErrDeviceNotRegistered):
		return "This device is not registered for the license"
	default:
		return "License validation failed, please try again"
	}
}
