// Package platform detects the host facts keystone-wsgi derives its defaults
// from and the Apache layout of the running OS family.
package platform

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"runtime"
	"strings"

	"github.com/ksyq12/keystone-wsgi/internal/wsgi"
)

// Family is the OS family as reported by the osfamily fact.
type Family string

const (
	FamilyDebian  Family = "Debian"
	FamilyRedHat  Family = "RedHat"
	FamilyDarwin  Family = "Darwin"
	FamilyUnknown Family = "Unknown"
)

// SSLDirective returns the directive refusing plain HTTP on this family.
// RedHat ships mod_nss for Keystone, everything else mod_ssl.
func (f Family) SSLDirective() wsgi.SSLDirective {
	if f == FamilyRedHat {
		return wsgi.NSSRequireSSL
	}
	return wsgi.SSLRequireSSL
}

// ServiceName returns the Apache service name.
func (f Family) ServiceName() string {
	if f == FamilyDebian {
		return "apache2"
	}
	return "httpd"
}

// LogDir returns the Apache log directory.
func (f Family) LogDir() string {
	switch f {
	case FamilyDebian:
		return "/var/log/apache2"
	case FamilyDarwin:
		return "/usr/local/var/log/httpd"
	default:
		return "/var/log/httpd"
	}
}

// Facts are the detected host facts.
type Facts struct {
	FQDN           string `json:"fqdn"`
	ProcessorCount int    `json:"processorcount"`
	OSFamily       Family `json:"osfamily"`
	OSRelease      string `json:"operatingsystemrelease"`
}

// HostFacts returns the subset the vhost generator defaults from.
func (f *Facts) HostFacts() wsgi.HostFacts {
	return wsgi.HostFacts{
		FQDN:           f.FQDN,
		ProcessorCount: f.ProcessorCount,
		SSLDirective:   f.OSFamily.SSLDirective(),
	}
}

// Overridable for testing.
var (
	osReleasePath = "/etc/os-release"
	goos          = runtime.GOOS
	hostname      = os.Hostname
	lookupCNAME   = net.LookupCNAME
	numCPU        = runtime.NumCPU
)

// DetectFacts gathers the host facts.
func DetectFacts() (*Facts, error) {
	fqdn, err := detectFQDN()
	if err != nil {
		return nil, err
	}

	family, release, err := detectFamily()
	if err != nil {
		return nil, err
	}

	return &Facts{
		FQDN:           fqdn,
		ProcessorCount: numCPU(),
		OSFamily:       family,
		OSRelease:      release,
	}, nil
}

// detectFQDN returns the hostname, qualified through DNS when it has no
// domain part. Resolution failures fall back to the bare hostname.
func detectFQDN() (string, error) {
	host, err := hostname()
	if err != nil {
		return "", fmt.Errorf("failed to get hostname: %w", err)
	}
	if strings.Contains(host, ".") {
		return host, nil
	}

	cname, err := lookupCNAME(host)
	if err != nil || cname == "" {
		return host, nil
	}
	return strings.TrimSuffix(cname, "."), nil
}

// detectFamily maps the running OS to a family and release.
func detectFamily() (Family, string, error) {
	switch goos {
	case "darwin":
		return FamilyDarwin, "", nil
	case "linux":
		return readOSRelease(osReleasePath)
	default:
		return FamilyUnknown, "", fmt.Errorf("unsupported platform: %s", goos)
	}
}

// readOSRelease parses an os-release file into family and VERSION_ID.
func readOSRelease(path string) (Family, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return FamilyUnknown, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[key] = strings.Trim(value, `"'`)
	}
	if err := scanner.Err(); err != nil {
		return FamilyUnknown, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}

	ids := strings.Fields(strings.ToLower(values["ID"] + " " + values["ID_LIKE"]))
	return familyFromIDs(ids), values["VERSION_ID"], nil
}

func familyFromIDs(ids []string) Family {
	for _, id := range ids {
		switch id {
		case "debian", "ubuntu":
			return FamilyDebian
		case "rhel", "fedora", "centos", "rocky", "almalinux":
			return FamilyRedHat
		}
	}
	return FamilyUnknown
}

// PathConfig contains the Apache vhost directories.
type PathConfig struct {
	Available string
	Enabled   string
}

// PathsFor returns the Apache vhost directories of a family.
func PathsFor(family Family) (PathConfig, error) {
	switch family {
	case FamilyDebian:
		return PathConfig{
			Available: "/etc/apache2/sites-available",
			Enabled:   "/etc/apache2/sites-enabled",
		}, nil
	case FamilyRedHat:
		return PathConfig{
			Available: "/etc/httpd/conf.d",
			Enabled:   "/etc/httpd/conf.d",
		}, nil
	case FamilyDarwin:
		// Apple Silicon Homebrew first, then Intel
		if pathExists("/opt/homebrew") {
			return PathConfig{
				Available: "/opt/homebrew/etc/httpd/extra/vhosts",
				Enabled:   "/opt/homebrew/etc/httpd/extra/vhosts",
			}, nil
		}
		return PathConfig{
			Available: "/usr/local/etc/httpd/extra/vhosts",
			Enabled:   "/usr/local/etc/httpd/extra/vhosts",
		}, nil
	default:
		return PathConfig{}, fmt.Errorf("unknown os family: %s (supported: Debian, RedHat, Darwin)", family)
	}
}

// pathExists checks if a path exists on the filesystem.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Platform returns a string describing the current platform.
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
