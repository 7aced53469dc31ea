package device

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// machineIDPaths are read in order; the first non-empty value identifies the host
var machineIDPaths = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
}

// IdentityManager resolves the identifier this console reports to the backend
type IdentityManager struct {
	paths    []string
	hostname func() (string, error)
}

// NewIdentityManager creates an identity manager reading the standard machine-id files
func NewIdentityManager() *IdentityManager {
	return &IdentityManager{
		paths:    machineIDPaths,
		hostname: os.Hostname,
	}
}

// GetOrGenerateConsoleID returns the configured id, else a host-derived id, else a random uuid
func (m *IdentityManager) GetOrGenerateConsoleID(existingID string) (string, error) {
	if existingID != "" {
		return existingID, nil
	}

	if id, err := m.hostConsoleID(); err == nil && id != "" {
		return id, nil
	}

	return "console-" + uuid.NewString(), nil
}

// hostConsoleID derives a stable id from the machine id or the hostname
func (m *IdentityManager) hostConsoleID() (string, error) {
	for _, path := range m.paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if id := strings.TrimSpace(string(raw)); id != "" {
			// the raw machine id never leaves the host
			return "console-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String(), nil
		}
	}

	if m.hostname != nil {
		if hostname, err := m.hostname(); err == nil && hostname != "" {
			return "console-" + hostname, nil
		}
	}

	return "", fmt.Errorf("could not determine host identity")
}
