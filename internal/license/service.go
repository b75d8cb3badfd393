package license

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Verification is the outcome of a successful Verify call.
type Verification struct {
	// Registered is true when the device is already bound to the license.
	Registered bool
	// CanRegister is true when the device is not bound yet, but a free device slot remains.
	CanRegister bool
	MaxDevices  int
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, used for expiry checks and device timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service is the local Gate implementation backed by a Repository.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, opts ...Option) *Service {
	service := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(service)
	}

	return service
}

func (s *Service) lookup(ctx context.Context, key string) (License, error) {
	lic, err := s.repo.GetLicense(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return License{}, ErrInvalidLicense
		}

		return License{}, err
	}

	return lic, nil
}

func (s *Service) usable(lic License) error {
	switch lic.Status {
	case StatusSuspended:
		return ErrLicenseSuspended
	case StatusExpired:
		return ErrLicenseExpired
	case StatusActive:
	default:
		return ErrInvalidLicense
	}

	if lic.Expired(s.now()) {
		return ErrLicenseExpired
	}

	return nil
}

// Verify checks that the license is usable from the device. A device that is not yet bound passes as long
// as a device slot remains, registration itself happens in Register.
func (s *Service) Verify(ctx context.Context, key string, deviceID string) (Verification, error) {
	key = NormalizeKey(key)
	if key == "" || deviceID == "" {
		return Verification{}, ErrInvalidParams
	}

	lic, errLookup := s.lookup(ctx, key)
	if errLookup != nil {
		return Verification{}, errLookup
	}

	if err := s.usable(lic); err != nil {
		return Verification{MaxDevices: lic.MaxDevices}, err
	}

	errTouch := s.repo.TouchDevice(ctx, key, deviceID, s.now())
	if errTouch == nil {
		return Verification{Registered: true, MaxDevices: lic.MaxDevices}, nil
	}

	if !errors.Is(errTouch, ErrDeviceNotRegistered) {
		return Verification{}, errTouch
	}

	devices, errDevices := s.repo.ListDevices(ctx, key)
	if errDevices != nil {
		return Verification{}, errDevices
	}

	if len(devices) >= lic.MaxDevices {
		return Verification{MaxDevices: lic.MaxDevices}, ErrDeviceQuotaExceeded
	}

	return Verification{CanRegister: true, MaxDevices: lic.MaxDevices}, nil
}

// Info returns the license summary. The device must already be registered.
func (s *Service) Info(ctx context.Context, key string, deviceID string) (Info, error) {
	key = NormalizeKey(key)
	if key == "" || deviceID == "" {
		return Info{}, ErrInvalidParams
	}

	lic, errLookup := s.lookup(ctx, key)
	if errLookup != nil {
		return Info{}, errLookup
	}

	devices, errDevices := s.repo.ListDevices(ctx, key)
	if errDevices != nil {
		return Info{}, errDevices
	}

	registered := false
	for _, device := range devices {
		if device.DeviceID == deviceID {
			registered = true

			break
		}
	}

	if !registered {
		return Info{}, ErrDeviceNotRegistered
	}

	return Info{
		Key:          lic.Key,
		Status:       lic.Status,
		Type:         lic.Type,
		ExpiresAt:    lic.ExpiresAt,
		MaxDevices:   lic.MaxDevices,
		TotalDevices: len(devices),
		Owner:        lic.Owner,
	}, nil
}

// Register binds the device to the license. Registering an already bound device succeeds.
func (s *Service) Register(ctx context.Context, key string, deviceID string) error {
	key = NormalizeKey(key)
	if key == "" || deviceID == "" {
		return ErrInvalidParams
	}

	lic, errLookup := s.lookup(ctx, key)
	if errLookup != nil {
		return errLookup
	}

	if err := s.usable(lic); err != nil {
		return err
	}

	now := s.now()
	if err := s.repo.RegisterDevice(ctx, Device{
		LicenseKey:   key,
		DeviceID:     deviceID,
		RegisteredAt: now,
		LastUsed:     now,
	}, lic.MaxDevices); err != nil {
		return err
	}

	slog.Info("Registered device", slog.String("license", Mask(key)), slog.String("device", deviceID))

	return nil
}

// Mask hides the middle of a key for display and logging, eg: ABCD...WXYZ.
func Mask(key string) string {
	const visible = 4
	if len(key) <= visible*2 {
		return key
	}

	return key[:visible] + "..." + key[len(key)-visible:]
}
