package device_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/leighmacdonald/roster-tui/internal/device"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	first := device.ID()
	require.Equal(t, first, device.ID())

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	require.Equal(t, uuid.Version(5), parsed.Version())
}

func TestFingerprintChanges(t *testing.T) {
	base := device.Fingerprint{Hostname: "desk", OS: "linux", Arch: "amd64", CPUs: 8, User: "kaan"}
	other := base
	other.Hostname = "laptop"

	require.Equal(t, base.ID(), base.ID())
	require.NotEqual(t, base.ID(), other.ID())
}
