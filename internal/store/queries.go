package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/leighmacdonald/roster-tui/internal/license"
)

var (
	ErrQuery    = errors.New("failed to execute query")
	ErrNotFound = errors.New("no results found")
)

// Queries implements the license repository and the settings store on top of any DBTX.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func unixOrNull(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: value.Unix(), Valid: true}
}

func fromUnix(value int64) time.Time {
	return time.Unix(value, 0).UTC()
}

const getLicense = `
SELECT license_key, status, license_type, expires_at, max_devices, owner, purchased_at
FROM licenses WHERE license_key = ?`

func (q *Queries) GetLicense(ctx context.Context, key string) (license.License, error) {
	var (
		lic         license.License
		expiresAt   sql.NullInt64
		purchasedAt int64
	)

	if err := q.db.QueryRowContext(ctx, getLicense, key).Scan(&lic.Key, &lic.Status, &lic.Type, &expiresAt,
		&lic.MaxDevices, &lic.Owner, &purchasedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return license.License{}, errors.Join(err, license.ErrNotFound)
		}

		return license.License{}, errors.Join(err, ErrQuery)
	}

	if expiresAt.Valid {
		expires := fromUnix(expiresAt.Int64)
		lic.ExpiresAt = &expires
	}

	lic.PurchasedAt = fromUnix(purchasedAt)

	return lic, nil
}

const putLicense = `
INSERT INTO licenses (license_key, status, license_type, expires_at, max_devices, owner, purchased_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (license_key) DO UPDATE SET
	status = excluded.status,
	license_type = excluded.license_type,
	expires_at = excluded.expires_at,
	max_devices = excluded.max_devices,
	owner = excluded.owner`

func (q *Queries) PutLicense(ctx context.Context, lic license.License) error {
	if _, err := q.db.ExecContext(ctx, putLicense, lic.Key, lic.Status, lic.Type, unixOrNull(lic.ExpiresAt),
		lic.MaxDevices, lic.Owner, lic.PurchasedAt.Unix()); err != nil {
		return errors.Join(err, ErrQuery)
	}

	return nil
}

const listLicenses = `
SELECT license_key, status, license_type, expires_at, max_devices, owner, purchased_at
FROM licenses ORDER BY purchased_at, license_key`

func (q *Queries) ListLicenses(ctx context.Context) ([]license.License, error) {
	rows, errRows := q.db.QueryContext(ctx, listLicenses)
	if errRows != nil {
		return nil, errors.Join(errRows, ErrQuery)
	}
	defer rows.Close()

	var licenses []license.License
	for rows.Next() {
		var (
			lic         license.License
			expiresAt   sql.NullInt64
			purchasedAt int64
		)

		if err := rows.Scan(&lic.Key, &lic.Status, &lic.Type, &expiresAt, &lic.MaxDevices, &lic.Owner,
			&purchasedAt); err != nil {
			return nil, errors.Join(err, ErrQuery)
		}

		if expiresAt.Valid {
			expires := fromUnix(expiresAt.Int64)
			lic.ExpiresAt = &expires
		}

		lic.PurchasedAt = fromUnix(purchasedAt)
		licenses = append(licenses, lic)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Join(err, ErrQuery)
	}

	return licenses, nil
}

const listDevices = `
SELECT license_key, device_id, registered_at, last_used
FROM devices WHERE license_key = ? ORDER BY registered_at, device_id`

func (q *Queries) ListDevices(ctx context.Context, key string) ([]license.Device, error) {
	rows, errRows := q.db.QueryContext(ctx, listDevices, key)
	if errRows != nil {
		return nil, errors.Join(errRows, ErrQuery)
	}
	defer rows.Close()

	var devices []license.Device
	for rows.Next() {
		var (
			device       license.Device
			registeredAt int64
			lastUsed     int64
		)

		if err := rows.Scan(&device.LicenseKey, &device.DeviceID, &registeredAt, &lastUsed); err != nil {
			return nil, errors.Join(err, ErrQuery)
		}

		device.RegisteredAt = fromUnix(registeredAt)
		device.LastUsed = fromUnix(lastUsed)
		devices = append(devices, device)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Join(err, ErrQuery)
	}

	return devices, nil
}

const touchDevice = `UPDATE devices SET last_used = ? WHERE license_key = ? AND device_id = ?`

// TouchDevice refreshes the last used time of a registered device.
func (q *Queries) TouchDevice(ctx context.Context, key string, deviceID string, when time.Time) error {
	result, err := q.db.ExecContext(ctx, touchDevice, when.Unix(), key, deviceID)
	if err != nil {
		return errors.Join(err, ErrQuery)
	}

	affected, errAffected := result.RowsAffected()
	if errAffected != nil {
		return errors.Join(errAffected, ErrQuery)
	}

	if affected == 0 {
		return license.ErrDeviceNotRegistered
	}

	return nil
}

// insertDeviceBounded only inserts when the license has fewer than the allowed number of devices. Running
// the count and insert as a single statement keeps concurrent registrations from exceeding the quota.
const insertDeviceBounded = `
INSERT INTO devices (license_key, device_id, registered_at, last_used)
SELECT ?, ?, ?, ?
WHERE (SELECT COUNT(*) FROM devices WHERE license_key = ?) < ?
ON CONFLICT (license_key, device_id) DO NOTHING`

// RegisterDevice binds the device to the license unless doing so would exceed maxDevices. Registering
// an already bound device only refreshes its last used time.
func (q *Queries) RegisterDevice(ctx context.Context, device license.Device, maxDevices int) error {
	errTouch := q.TouchDevice(ctx, device.LicenseKey, device.DeviceID, device.LastUsed)
	if errTouch == nil {
		return nil
	}

	if !errors.Is(errTouch, license.ErrDeviceNotRegistered) {
		return errTouch
	}

	result, err := q.db.ExecContext(ctx, insertDeviceBounded, device.LicenseKey, device.DeviceID,
		device.RegisteredAt.Unix(), device.LastUsed.Unix(), device.LicenseKey, maxDevices)
	if err != nil {
		return errors.Join(err, ErrQuery)
	}

	affected, errAffected := result.RowsAffected()
	if errAffected != nil {
		return errors.Join(errAffected, ErrQuery)
	}

	if affected == 0 {
		return license.ErrDeviceQuotaExceeded
	}

	return nil
}

const getSetting = `SELECT value FROM settings WHERE setting_key = ?`

func (q *Queries) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	if err := q.db.QueryRowContext(ctx, getSetting, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errors.Join(err, ErrNotFound)
		}

		return "", errors.Join(err, ErrQuery)
	}

	return value, nil
}

const setSetting = `
INSERT INTO settings (setting_key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (setting_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (q *Queries) SetSetting(ctx context.Context, key string, value string) error {
	if _, err := q.db.ExecContext(ctx, setSetting, key, value, time.Now().Unix()); err != nil {
		return errors.Join(err, ErrQuery)
	}

	return nil
}

const deleteSetting = `DELETE FROM settings WHERE setting_key = ?`

func (q *Queries) DeleteSetting(ctx context.Context, key string) error {
	if _, err := q.db.ExecContext(ctx, deleteSetting, key); err != nil {
		return errors.Join(err, ErrQuery)
	}

	return nil
}
