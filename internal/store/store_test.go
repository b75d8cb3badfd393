package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/leighmacdonald/roster-tui/internal/license"
	"github.com/leighmacdonald/roster-tui/internal/store"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := store.Open(t.Context(), "", true)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, database.Close())
	})

	return database
}

func TestLicenseRoundTrip(t *testing.T) {
	ctx := t.Context()
	queries := store.New(openDB(t))

	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	purchased := time.Date(2023, 5, 15, 12, 0, 0, 0, time.UTC)
	lic := license.License{
		Key:         "FIVEM-STD-2023-5678",
		Status:      license.StatusActive,
		Type:        license.TypeStandard,
		ExpiresAt:   &expires,
		MaxDevices:  1,
		Owner:       "Example User",
		PurchasedAt: purchased,
	}

	require.NoError(t, queries.PutLicense(ctx, lic))

	fetched, err := queries.GetLicense(ctx, lic.Key)
	require.NoError(t, err)
	require.Equal(t, lic, fetched)

	lic.Status = license.StatusSuspended
	lic.ExpiresAt = nil
	require.NoError(t, queries.PutLicense(ctx, lic))

	updated, errUpdated := queries.GetLicense(ctx, lic.Key)
	require.NoError(t, errUpdated)
	require.Equal(t, license.StatusSuspended, updated.Status)
	require.Nil(t, updated.ExpiresAt)

	licenses, errList := queries.ListLicenses(ctx)
	require.NoError(t, errList)
	require.Len(t, licenses, 1)

	_, errMissing := queries.GetLicense(ctx, "missing")
	require.ErrorIs(t, errMissing, license.ErrNotFound)
}

func TestRegisterDeviceQuota(t *testing.T) {
	ctx := t.Context()
	queries := store.New(openDB(t))

	require.NoError(t, queries.PutLicense(ctx, license.License{
		Key: "KEY", Status: license.StatusActive, Type: license.TypeTrial, MaxDevices: 2, PurchasedAt: time.Now(),
	}))

	registered := time.Unix(1_700_000_000, 0).UTC()
	device := func(id string) license.Device {
		return license.Device{LicenseKey: "KEY", DeviceID: id, RegisteredAt: registered, LastUsed: registered}
	}

	require.NoError(t, queries.RegisterDevice(ctx, device("a"), 2))
	require.NoError(t, queries.RegisterDevice(ctx, device("b"), 2))
	require.NoError(t, queries.RegisterDevice(ctx, device("a"), 2))
	require.ErrorIs(t, queries.RegisterDevice(ctx, device("c"), 2), license.ErrDeviceQuotaExceeded)

	later := registered.Add(time.Hour)
	require.NoError(t, queries.TouchDevice(ctx, "KEY", "b", later))
	require.ErrorIs(t, queries.TouchDevice(ctx, "KEY", "c", later), license.ErrDeviceNotRegistered)

	devices, err := queries.ListDevices(ctx, "KEY")
	require.NoError(t, err)
	require.Len(t, devices, 2)
	require.Equal(t, "a", devices[0].DeviceID)
	require.Equal(t, later, devices[1].LastUsed)
	require.Equal(t, registered, devices[1].RegisteredAt)
}

func TestServiceOverStore(t *testing.T) {
	ctx := t.Context()
	queries := store.New(openDB(t))
	require.NoError(t, queries.PutLicense(ctx, license.License{
		Key: "TEST-LICENSE-KEY", Status: license.StatusActive, Type: license.TypePremium, MaxDevices: 1,
		PurchasedAt: time.Now(),
	}))

	service := license.NewService(queries)
	verification, err := service.Verify(ctx, "test-license-key", "device")
	require.NoError(t, err)
	require.True(t, verification.CanRegister)

	require.NoError(t, service.Register(ctx, "TEST-LICENSE-KEY", "device"))
	require.ErrorIs(t, service.Register(ctx, "TEST-LICENSE-KEY", "other"), license.ErrDeviceQuotaExceeded)

	info, errInfo := service.Info(ctx, "TEST-LICENSE-KEY", "device")
	require.NoError(t, errInfo)
	require.Equal(t, 1, info.TotalDevices)
}

func TestSettings(t *testing.T) {
	ctx := t.Context()
	queries := store.New(openDB(t))

	_, errMissing := queries.GetSetting(ctx, "license_key")
	require.ErrorIs(t, errMissing, store.ErrNotFound)

	require.NoError(t, queries.SetSetting(ctx, "license_key", "ABCD"))
	require.NoError(t, queries.SetSetting(ctx, "license_key", "EFGH"))

	value, err := queries.GetSetting(ctx, "license_key")
	require.NoError(t, err)
	require.Equal(t, "EFGH", value)

	require.NoError(t, queries.DeleteSetting(ctx, "license_key"))
	_, errDeleted := queries.GetSetting(ctx, "license_key")
	require.ErrorIs(t, errDeleted, store.ErrNotFound)
}

func TestMigrateDownUp(t *testing.T) {
	database, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), true)
	require.NoError(t, err)
	defer func() { require.NoError(t, database.Close()) }()

	require.NoError(t, store.Migrate(database, store.MigrateDn))
	require.NoError(t, store.Migrate(database, store.MigrateUp))
	require.NoError(t, store.Migrate(database, store.MigrateUp), "no change is not an error")
}
