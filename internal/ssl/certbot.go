package ssl

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ksyq12/keystone-wsgi/internal/executor"
)

// Cert is a Let's Encrypt certificate for the Keystone servername
type Cert struct {
	Domain   string `json:"domain"`
	CertPath string `json:"cert"`
	KeyPath  string `json:"key"`
}

// letsencryptDir is the base directory for Let's Encrypt certificates
const letsencryptDir = "/etc/letsencrypt/live"

// cmdExecutor is the command executor (can be replaced for testing)
var cmdExecutor executor.CommandExecutor = executor.NewSystemExecutor()

// SetExecutor allows tests to inject a mock executor
func SetExecutor(exec executor.CommandExecutor) {
	cmdExecutor = exec
}

// ResetExecutor resets the executor to the default system executor
func ResetExecutor() {
	cmdExecutor = executor.NewSystemExecutor()
}

// IsInstalled checks if certbot is installed
func IsInstalled() bool {
	_, err := cmdExecutor.LookPath("certbot")
	return err == nil
}

func runCertbot(args []string) ([]byte, error) {
	if !IsInstalled() {
		return nil, fmt.Errorf("certbot is not installed. Install it with: apt install certbot python3-certbot-apache")
	}

	output, err := cmdExecutor.Execute("certbot", args...)
	if err != nil {
		return output, fmt.Errorf("certbot failed: %s", strings.TrimSpace(string(output)))
	}
	return output, nil
}

// GetCertPaths returns the certificate paths for a domain
func GetCertPaths(domain string) *Cert {
	return &Cert{
		Domain:   domain,
		CertPath: filepath.Join(letsencryptDir, domain, "fullchain.pem"),
		KeyPath:  filepath.Join(letsencryptDir, domain, "privkey.pem"),
	}
}

// Issue obtains a certificate with the apache plugin, leaving the vhost
// files untouched (certonly)
func Issue(domain, email string) (*Cert, error) {
	return issue(domain, email, "--apache")
}

// IssueWebroot obtains a certificate by placing the challenge under webroot
func IssueWebroot(domain, email, webroot string) (*Cert, error) {
	return issue(domain, email, "--webroot", "-w", webroot)
}

func issue(domain, email string, method ...string) (*Cert, error) {
	if domain == "" {
		return nil, fmt.Errorf("domain cannot be empty")
	}

	args := append([]string{"certonly"}, method...)
	args = append(args,
		"-d", domain,
		"--email", email,
		"--agree-tos",
		"--non-interactive",
	)

	if _, err := runCertbot(args); err != nil {
		return nil, err
	}

	return GetCertPaths(domain), nil
}

// Renew renews the certificate of a domain
func Renew(domain string) error {
	_, err := runCertbot([]string{
		"renew",
		"--cert-name", domain,
		"--non-interactive",
	})
	return err
}

// List returns the names of all certificates certbot manages
func List() ([]string, error) {
	output, err := runCertbot([]string{"certificates"})
	if err != nil {
		return nil, err
	}

	var domains []string
	for _, line := range strings.Split(string(output), "\n") {
		if name, ok := strings.CutPrefix(strings.TrimSpace(line), "Certificate Name:"); ok {
			domains = append(domains, strings.TrimSpace(name))
		}
	}

	return domains, nil
}
