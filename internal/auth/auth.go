// Package auth implements the login session on top of a license.Gate, persisting the license key and
// device id so that later launches can re-authenticate silently.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/leighmacdonald/roster-tui/internal/license"
)

const (
	SettingLicenseKey = "license_key"
	SettingDeviceID   = "device_id"
)

var ErrSettings = errors.New("failed to access saved session")

// SettingsStore persists small string values, store.Queries satisfies it.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key string, value string) error
	DeleteSetting(ctx context.Context, key string) error
}

// Session tracks the authentication state. It is safe for concurrent use.
type Session struct {
	gate     license.Gate
	settings SettingsStore
	deviceID string

	mu            sync.RWMutex
	authenticated bool
	info          license.Info
	key           string
}

func NewSession(gate license.Gate, settings SettingsStore, deviceID string) *Session {
	return &Session{gate: gate, settings: settings, deviceID: deviceID}
}

func (s *Session) DeviceID() string {
	return s.deviceID
}

// Authenticated reports whether a login or restore has succeeded.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.authenticated
}

// Info returns the license summary of the active session.
func (s *Session) Info() license.Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.info
}

// Key returns the license key of the active session.
func (s *Session) Key() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.key
}

// SavedKey returns the persisted license key, if any.
func (s *Session) SavedKey(ctx context.Context) string {
	key, err := s.settings.GetSetting(ctx, SettingLicenseKey)
	if err != nil {
		return ""
	}

	return key
}

// Restore attempts a silent login using the persisted key and device id. When the gate rejects the saved
// values both are cleared so the user is asked to log in again. Other failures leave them in place. It
// returns false when no valid session could be restored.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	key, errKey := s.settings.GetSetting(ctx, SettingLicenseKey)
	if errKey != nil || key == "" {
		return false, nil
	}

	if saved, errDevice := s.settings.GetSetting(ctx, SettingDeviceID); errDevice == nil && saved != s.deviceID {
		slog.Warn("Saved device id does not match this device", slog.String("saved", saved))
	}

	deviceID := s.deviceID

	verification, errVerify := s.gate.Verify(ctx, key, deviceID)
	if errVerify != nil && !license.IsRejection(errVerify) {
		// The gate could not be reached, keep the saved values for a later attempt.
		return false, errVerify
	}

	if errVerify != nil || !verification.Registered {
		slog.Info("Saved license no longer valid", slog.String("license", license.Mask(key)),
			slog.Any("error", errVerify))

		return false, s.clear(ctx, SettingLicenseKey, SettingDeviceID)
	}

	info, errInfo := s.gate.Info(ctx, key, deviceID)
	if errInfo != nil {
		if !license.IsRejection(errInfo) {
			return false, errInfo
		}

		return false, s.clear(ctx, SettingLicenseKey, SettingDeviceID)
	}

	s.set(key, info)

	return true, nil
}

// Login verifies the key, registers this device when required and persists the session.
func (s *Session) Login(ctx context.Context, key string) (license.Info, error) {
	key = license.NormalizeKey(key)

	verification, errVerify := s.gate.Verify(ctx, key, s.deviceID)
	if errVerify != nil {
		return license.Info{}, errVerify
	}

	if !verification.Registered {
		if err := s.gate.Register(ctx, key, s.deviceID); err != nil {
			return license.Info{}, err
		}
	}

	info, errInfo := s.gate.Info(ctx, key, s.deviceID)
	if errInfo != nil {
		return license.Info{}, errInfo
	}

	if err := s.settings.SetSetting(ctx, SettingLicenseKey, key); err != nil {
		return license.Info{}, errors.Join(err, ErrSettings)
	}

	if err := s.settings.SetSetting(ctx, SettingDeviceID, s.deviceID); err != nil {
		return license.Info{}, errors.Join(err, ErrSettings)
	}

	s.set(key, info)
	slog.Info("Logged in", slog.String("license", license.Mask(key)), slog.String("type", string(info.Type)))

	return info, nil
}

// Logout ends the session and forgets the saved license key. The device id is kept.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.authenticated = false
	s.info = license.Info{}
	s.key = ""
	s.mu.Unlock()

	return s.clear(ctx, SettingLicenseKey)
}

func (s *Session) set(key string, info license.Info) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authenticated = true
	s.key = key
	s.info = info
}

func (s *Session) clear(ctx context.Context, keys ...string) error {
	var errs error
	for _, key := range keys {
		if err := s.settings.DeleteSetting(ctx, key); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	if errs != nil {
		return errors.Join(errs, ErrSettings)
	}

	return nil
}
