package geoip_test

import (
	"path/filepath"
	"testing"

	"github.com/leighmacdonald/roster-tui/internal/geoip"
	"github.com/stretchr/testify/require"
)

func TestOpenEmptyPath(t *testing.T) {
	database, err := geoip.Open("")
	require.NoError(t, err)
	require.Nil(t, database)

	_, errLookup := database.Lookup(t.Context(), "12.55.66.88")
	require.ErrorIs(t, errLookup, geoip.ErrLookup)
	require.NoError(t, database.Close())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := geoip.Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	require.ErrorIs(t, err, geoip.ErrOpen)
}

func TestRecordName(t *testing.T) {
	var record geoip.Record
	record.Country.ISOCode = "TR"
	require.Equal(t, "TR", record.Name())

	record.Country.Names = map[string]string{"en": "Türkiye"}
	require.Equal(t, "Türkiye", record.Name())
}
