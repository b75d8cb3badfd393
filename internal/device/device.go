// Package device derives a stable identifier for the current machine. The identifier is a label used to
// count device slots, it is not a secret and can be spoofed.
package device

import (
	"os"
	"os/user"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// namespace scopes generated ids to this application.
var namespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("roster-tui.device")) //nolint:gochecknoglobals

var machineIDPaths = []string{"/etc/machine-id", "/var/lib/dbus/machine-id"} //nolint:gochecknoglobals

// Fingerprint is the set of machine attributes the id is derived from.
type Fingerprint struct {
	Hostname  string
	OS        string
	Arch      string
	CPUs      int
	User      string
	MachineID string
}

// Collect gathers the fingerprint of the current machine. Attributes that cannot be read are left empty.
func Collect() Fingerprint {
	fingerprint := Fingerprint{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
		CPUs: runtime.NumCPU(),
	}

	if hostname, err := os.Hostname(); err == nil {
		fingerprint.Hostname = hostname
	}

	if current, err := user.Current(); err == nil {
		fingerprint.User = current.Username
	}

	for _, path := range machineIDPaths {
		if content, err := os.ReadFile(path); err == nil {
			fingerprint.MachineID = strings.TrimSpace(string(content))

			break
		}
	}

	return fingerprint
}

// ID returns the deterministic identifier for the fingerprint.
func (f Fingerprint) ID() string {
	parts := []string{f.Hostname, f.OS, f.Arch, strconv.Itoa(f.CPUs), f.User, f.MachineID}

	return uuid.NewSHA1(namespace, []byte(strings.Join(parts, "|"))).String()
}

// ID returns the identifier of the current machine.
func ID() string {
	return Collect().ID()
}
