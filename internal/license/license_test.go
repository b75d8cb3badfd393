package license_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leighmacdonald/roster-tui/internal/license"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

func fixedClock() time.Time {
	return now
}

func testLicenses() []license.License {
	expired := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	return []license.License{
		{Key: "FIVEM-PREM-2023-1234", Status: license.StatusActive, Type: license.TypePremium, MaxDevices: 2},
		{Key: "FIVEM-STD-2023-5678", Status: license.StatusActive, Type: license.TypeStandard, MaxDevices: 1, ExpiresAt: &future},
		{Key: "FIVEM-TRIAL-2023-9012", Status: license.StatusActive, Type: license.TypeTrial, MaxDevices: 1, ExpiresAt: &expired},
		{Key: "FIVEM-SUSP-0000-0000", Status: license.StatusSuspended, Type: license.TypeStandard, MaxDevices: 1},
		{Key: "FIVEM-EXPD-0000-0000", Status: license.StatusExpired, Type: license.TypeStandard, MaxDevices: 1},
	}
}

func newService() *license.Service {
	return license.NewService(license.NewMemoryRepository(testLicenses()...), license.WithClock(fixedClock))
}

func TestVerifyMatrix(t *testing.T) {
	ctx := context.Background()
	service := newService()

	testCases := []struct {
		name string
		key  string
		err  error
	}{
		{name: "unknown", key: "NOPE", err: license.ErrInvalidLicense},
		{name: "active", key: "FIVEM-PREM-2023-1234"},
		{name: "active unexpired", key: "FIVEM-STD-2023-5678"},
		{name: "past expiry", key: "FIVEM-TRIAL-2023-9012", err: license.ErrLicenseExpired},
		{name: "suspended", key: "FIVEM-SUSP-0000-0000", err: license.ErrLicenseSuspended},
		{name: "expired status", key: "FIVEM-EXPD-0000-0000", err: license.ErrLicenseExpired},
		{name: "lowercase input", key: "  fivem-prem-2023-1234 "},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			verification, err := service.Verify(ctx, testCase.key, "device-a")
			if testCase.err != nil {
				require.ErrorIs(t, err, testCase.err)

				return
			}

			require.NoError(t, err)
			require.True(t, verification.CanRegister)
			require.False(t, verification.Registered)
		})
	}
}

func TestVerifyRequiresParams(t *testing.T) {
	_, err := newService().Verify(context.Background(), " ", "device")
	require.ErrorIs(t, err, license.ErrInvalidParams)

	_, err = newService().Verify(context.Background(), "FIVEM-PREM-2023-1234", "")
	require.ErrorIs(t, err, license.ErrInvalidParams)
}

func TestRegisterQuota(t *testing.T) {
	ctx := context.Background()
	service := newService()
	key := "FIVEM-PREM-2023-1234"

	require.NoError(t, service.Register(ctx, key, "device-a"))
	require.NoError(t, service.Register(ctx, key, "device-a"), "re-registering is accepted")
	require.NoError(t, service.Register(ctx, key, "device-b"))
	require.ErrorIs(t, service.Register(ctx, key, "device-c"), license.ErrDeviceQuotaExceeded)

	verification, err := service.Verify(ctx, key, "device-b")
	require.NoError(t, err)
	require.True(t, verification.Registered)

	_, errFull := service.Verify(ctx, key, "device-c")
	require.ErrorIs(t, errFull, license.ErrDeviceQuotaExceeded)
}

func TestRegisterRejectsUnusable(t *testing.T) {
	service := newService()
	require.ErrorIs(t, service.Register(context.Background(), "FIVEM-SUSP-0000-0000", "a"), license.ErrLicenseSuspended)
	require.ErrorIs(t, service.Register(context.Background(), "missing", "a"), license.ErrInvalidLicense)
}

func TestRegisterConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := license.NewMemoryRepository(license.License{
		Key: "SHARED", Status: license.StatusActive, Type: license.TypeStandard, MaxDevices: 3,
	})
	service := license.NewService(repo, license.WithClock(fixedClock))

	var (
		waitGroup sync.WaitGroup
		accepted  atomic.Int32
	)

	for idx := range 20 {
		waitGroup.Add(1)
		go func(deviceID string) {
			defer waitGroup.Done()
			if service.Register(ctx, "SHARED", deviceID) == nil {
				accepted.Add(1)
			}
		}(string(rune('a' + idx)))
	}

	waitGroup.Wait()

	devices, err := repo.ListDevices(ctx, "SHARED")
	require.NoError(t, err)
	require.Len(t, devices, 3)
	require.Equal(t, int32(3), accepted.Load())
}

func TestVerifyTouchesDevice(t *testing.T) {
	ctx := context.Background()
	repo := license.NewMemoryRepository(testLicenses()...)
	clock := now
	service := license.NewService(repo, license.WithClock(func() time.Time { return clock }))

	require.NoError(t, service.Register(ctx, "FIVEM-PREM-2023-1234", "device-a"))

	clock = now.Add(time.Hour)
	_, err := service.Verify(ctx, "FIVEM-PREM-2023-1234", "device-a")
	require.NoError(t, err)

	devices, errDevices := repo.ListDevices(ctx, "FIVEM-PREM-2023-1234")
	require.NoError(t, errDevices)
	require.Len(t, devices, 1)
	require.Equal(t, now, devices[0].RegisteredAt)
	require.Equal(t, now.Add(time.Hour), devices[0].LastUsed)
}

func TestInfo(t *testing.T) {
	ctx := context.Background()
	service := newService()
	key := "FIVEM-PREM-2023-1234"

	_, errUnregistered := service.Info(ctx, key, "device-a")
	require.ErrorIs(t, errUnregistered, license.ErrDeviceNotRegistered)

	require.NoError(t, service.Register(ctx, key, "device-a"))
	require.NoError(t, service.Register(ctx, key, "device-b"))

	info, err := service.Info(ctx, key, "device-a")
	require.NoError(t, err)
	require.Equal(t, license.StatusActive, info.Status)
	require.Equal(t, license.TypePremium, info.Type)
	require.Equal(t, 2, info.MaxDevices)
	require.Equal(t, 2, info.TotalDevices)
	require.Nil(t, info.ExpiresAt)
}

func TestMessage(t *testing.T) {
	require.Empty(t, license.Message(nil))
	require.Equal(t, "Invalid license key", license.Message(license.ErrInvalidLicense))
	require.Equal(t, "License has expired", license.Message(license.ErrLicenseExpired))
	require.NotEqual(t, license.Message(license.ErrLicenseSuspended), license.Message(license.ErrDeviceQuotaExceeded))
}

func TestKeys(t *testing.T) {
	require.Equal(t, "ABCD-EFGH-1234", license.FormatKey(" abcd-efgh1234 "))
	require.Equal(t, "FIVEM-PREM", license.NormalizeKey("  fivem-prem\t"))
	require.Equal(t, "ABCD...WXYZ", license.Mask("ABCD-EFGH-WXYZ"))
	require.Equal(t, "SHORT", license.Mask("SHORT"))

	generated := license.GenerateKey()
	require.Len(t, generated, 19)
	require.Regexp(t, `^[0-9A-F]{4}(-[0-9A-F]{4}){3}$`, generated)
	require.NotEqual(t, generated, license.GenerateKey())
}

func TestIsRejection(t *testing.T) {
	require.True(t, license.IsRejection(license.ErrLicenseExpired))
	require.True(t, license.IsRejection(errors.Join(errors.New("remote"), license.ErrDeviceQuotaExceeded)))
	require.False(t, license.IsRejection(errors.New("dial tcp: connection refused")))
	require.False(t, license.IsRejection(nil))
}

func TestNewLicense(t *testing.T) {
	_, errType := license.New("", license.Type("gold"), 1, "", 0, now)
	require.ErrorIs(t, errType, license.ErrInvalidDefinition)

	_, errDevices := license.New("", license.TypeTrial, 0, "", 0, now)
	require.ErrorIs(t, errDevices, license.ErrInvalidDefinition)

	generated, errGenerated := license.New("", license.TypeTrial, 1, "", 24*time.Hour, now)
	require.NoError(t, errGenerated)
	require.Regexp(t, `^[0-9A-F]{4}(-[0-9A-F]{4}){3}$`, generated.Key)
	require.Equal(t, license.StatusActive, generated.Status)
	require.NotNil(t, generated.ExpiresAt)
	require.Equal(t, now.Add(24*time.Hour), *generated.ExpiresAt)

	// A given key is kept as handed out, without dashes being inserted.
	given, errGiven := license.New(" abcd1234efgh5678 ", license.TypeStandard, 2, "owner", 0, now)
	require.NoError(t, errGiven)
	require.Equal(t, "ABCD1234EFGH5678", given.Key)
	require.Nil(t, given.ExpiresAt)

	service := license.NewService(license.NewMemoryRepository(given), license.WithClock(fixedClock))
	require.NoError(t, service.Register(t.Context(), "abcd1234efgh5678", "device-a"))

	verification, errVerify := service.Verify(t.Context(), "abcd1234efgh5678", "device-a")
	require.NoError(t, errVerify)
	require.True(t, verification.Registered)
}
