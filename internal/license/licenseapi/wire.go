// Package licenseapi exposes a license.Gate over http and provides the matching remote client.
package licenseapi

import (
	"errors"

	"github.com/leighmacdonald/roster-tui/internal/license"
)

const (
	ActionVerify   = "verify"
	ActionInfo     = "info"
	ActionRegister = "register"
)

type Request struct {
	Action     string `json:"action"`
	LicenseKey string `json:"licenseKey"`
	HWID       string `json:"hwid"`
}

type Response struct {
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	Code        string        `json:"code,omitempty"`
	Message     string        `json:"message,omitempty"`
	CanRegister bool          `json:"canRegister,omitempty"`
	MaxDevices  int           `json:"maxDevices,omitempty"`
	License     *license.Info `json:"license,omitempty"`
}

// codes maps gate errors to stable machine readable values so clients can restore the sentinel error.
var codes = []struct { //nolint:gochecknoglobals
	code string
	err  error
}{
	{code: "invalid_params", err: license.ErrInvalidParams},
	{code: "invalid_license", err: license.ErrInvalidLicense},
	{code: "license_expired", err: license.ErrLicenseExpired},
	{code: "license_suspended", err: license.ErrLicenseSuspended},
	{code: "device_quota_exceeded", err: license.ErrDeviceQuotaExceeded},
	{code: "device_not_registered", err: license.ErrDeviceNotRegistered},
}

func codeOf(err error) (string, bool) {
	for _, entry := range codes {
		if errors.Is(err, entry.err) {
			return entry.code, true
		}
	}

	return "", false
}

func errorOf(code string) error {
	for _, entry := range codes {
		if entry.code == code {
			return entry.err
		}
	}

	return nil
}
