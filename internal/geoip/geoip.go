// Package geoip resolves player endpoints to countries using a maxmind compatible database.
package geoip

import (
	"context"
	"errors"
	"net"
	"net/netip"

	"github.com/oschwald/maxminddb-golang/v2"
)

var (
	ErrOpen      = errors.New("failed to open geoip database")
	ErrInvalidIP = errors.New("invalid ip")
	ErrLookup    = errors.New("error trying to lookup address")
)

type Record struct {
	Country struct {
		ISOCode string            `maxminddb:"iso_code"`
		Names   map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
}

// Name returns the english country name, falling back to the iso code.
func (r Record) Name() string {
	if name, found := r.Country.Names["en"]; found && name != "" {
		return name
	}

	return r.Country.ISOCode
}

// Resolver is implemented by DB. A nil *DB is a valid Resolver that never finds anything, which lets
// callers skip checking whether a database was configured.
type Resolver interface {
	Lookup(ctx context.Context, endpoint string) (Record, error)
}

type DB struct {
	reader *maxminddb.Reader
}

// Open loads the database at path. An empty path returns a nil *DB.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, nil //nolint:nilnil
	}

	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, errors.Join(err, ErrOpen)
	}

	return &DB{reader: reader}, nil
}

func (d *DB) Close() error {
	if d == nil {
		return nil
	}

	return d.reader.Close()
}

// Lookup resolves an endpoint, which may be a bare ip, an ip:port pair or a hostname.
func (d *DB) Lookup(ctx context.Context, endpoint string) (Record, error) {
	var record Record
	if d == nil {
		return record, ErrLookup
	}

	address := endpoint
	if host, _, errSplit := net.SplitHostPort(endpoint); errSplit == nil {
		address = host
	}

	ip, err := netip.ParseAddr(address)
	if err != nil {
		ips, errHost := net.DefaultResolver.LookupHost(ctx, address)
		if errHost != nil || len(ips) == 0 {
			return record, errors.Join(errHost, ErrInvalidIP)
		}

		ip, err = netip.ParseAddr(ips[0])
		if err != nil {
			return record, errors.Join(err, ErrInvalidIP)
		}
	}

	if err = d.reader.Lookup(ip).Decode(&record); err != nil {
		return record, errors.Join(err, ErrLookup)
	}

	return record, nil
}
