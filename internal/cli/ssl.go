package cli

import (
	"fmt"

	"github.com/ksyq12/keystone-wsgi/internal/config"
	"github.com/ksyq12/keystone-wsgi/internal/output"
	"github.com/ksyq12/keystone-wsgi/internal/ssl"
	"github.com/ksyq12/keystone-wsgi/internal/wsgi"
	"github.com/spf13/cobra"
)

var (
	sslEmail   string
	sslWebroot bool
)

var sslCmd = &cobra.Command{
	Use:   "ssl",
	Short: "SSL certificate management",
	Long:  `Manage the Let's Encrypt certificate of the keystone_wsgi_ssl vhost.`,
}

var sslIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a certificate for the Keystone servername",
	Long: `Issue a Let's Encrypt certificate for the Keystone servername and record
it in the config file, enabling ssl. Run apply afterwards to write the
HTTPS vhost.

Examples:
  sudo keystone-wsgi ssl issue --email ops@example.com
  sudo keystone-wsgi ssl issue --email ops@example.com --webroot`,
	Args: cobra.NoArgs,
	RunE: runSSLIssue,
}

var sslRenewCmd = &cobra.Command{
	Use:   "renew",
	Short: "Renew the certificate of the Keystone servername",
	Args:  cobra.NoArgs,
	RunE:  runSSLRenew,
}

var sslStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the certificates certbot manages",
	Args:  cobra.NoArgs,
	RunE:  runSSLStatus,
}

func init() {
	sslIssueCmd.Flags().StringVarP(&sslEmail, "email", "e", "", "Email address for Let's Encrypt (required)")
	_ = sslIssueCmd.MarkFlagRequired("email")
	sslIssueCmd.Flags().BoolVar(&sslWebroot, "webroot", false, "Answer the challenge from the Keystone docroot instead of the apache plugin")

	sslCmd.AddCommand(sslIssueCmd)
	sslCmd.AddCommand(sslRenewCmd)
	sslCmd.AddCommand(sslStatusCmd)

	rootCmd.AddCommand(sslCmd)
}

// certDomain returns the servername the certificate is issued for
func certDomain(cfg *config.Config) (string, error) {
	if cfg.ServerName != "" {
		return cfg.ServerName, nil
	}
	facts, err := detectFacts()
	if err != nil {
		return "", err
	}
	return facts.FQDN, nil
}

func runSSLIssue(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	domain, err := certDomain(cfg)
	if err != nil {
		return err
	}

	output.Info("Issuing SSL certificate for %s...", domain)
	var cert *ssl.Cert
	if sslWebroot {
		cert, err = ssl.IssueWebroot(domain, sslEmail, wsgi.DocRoot)
	} else {
		cert, err = ssl.Issue(domain, sslEmail)
	}
	if err != nil {
		return fmt.Errorf("failed to issue certificate: %w", err)
	}

	cfg.SSL = true
	cfg.SSLCert = cert.CertPath
	cfg.SSLKey = cert.KeyPath
	if err := deps.ConfigLoader.Save(cfg, configPath); err != nil {
		return fmt.Errorf("certificate issued but config save failed: %w", err)
	}

	if jsonOutput {
		return output.JSON(map[string]interface{}{
			"success":   true,
			"domain":    domain,
			"cert_path": cert.CertPath,
			"key_path":  cert.KeyPath,
		})
	}

	output.Success("SSL certificate issued for %s", domain)
	output.Print("  Certificate: %s", cert.CertPath)
	output.Print("  Private Key: %s", cert.KeyPath)
	output.Info("Run 'keystone-wsgi apply' to write the HTTPS vhost")
	return nil
}

func runSSLRenew(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	domain, err := certDomain(cfg)
	if err != nil {
		return err
	}

	output.Info("Renewing certificate for %s...", domain)
	if err := ssl.Renew(domain); err != nil {
		return err
	}

	return outputResult(
		map[string]interface{}{
			"success": true,
			"domain":  domain,
			"renewed": true,
		},
		"Certificate renewed for %s", domain,
	)
}

func runSSLStatus(cmd *cobra.Command, args []string) error {
	domains, err := ssl.List()
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(domains)
	}

	if len(domains) == 0 {
		output.Info("No SSL certificates found")
		return nil
	}

	output.Print("Managed SSL certificates:")
	for _, domain := range domains {
		output.Print("  - %s", domain)
	}
	return nil
}
