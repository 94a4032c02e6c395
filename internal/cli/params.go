package cli

import (
	"github.com/ksyq12/keystone-wsgi/internal/config"
	"github.com/ksyq12/keystone-wsgi/internal/wsgi"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// paramFlags hold command-line overrides of the config file. Only flags
// given explicitly override the file.
var paramFlags struct {
	serverName   string
	baseURL      string
	port         int
	sslPort      int
	ssl          bool
	sslOnly      bool
	workers      int
	threads      int
	sslDirective string
}

func addParamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&paramFlags.serverName, "servername", "", "Server name (default: host FQDN)")
	f.StringVar(&paramFlags.baseURL, "base-url", wsgi.DefaultBaseURL, "URL path Keystone is served under")
	f.IntVar(&paramFlags.port, "port", wsgi.DefaultPort, "Plain HTTP port")
	f.IntVar(&paramFlags.sslPort, "ssl-port", wsgi.DefaultSSLPort, "HTTPS port")
	f.BoolVar(&paramFlags.ssl, "ssl", false, "Declare the HTTPS vhost")
	f.BoolVar(&paramFlags.sslOnly, "ssl-only", false, "Drop the plain HTTP vhost and require SSL (needs --ssl)")
	f.IntVar(&paramFlags.workers, "workers", 0, "WSGI daemon processes (default: processor count)")
	f.IntVar(&paramFlags.threads, "threads", wsgi.DefaultThreads, "Threads per WSGI daemon process")
	f.StringVar(&paramFlags.sslDirective, "ssl-directive", "", "NSSRequireSSL or SSLRequireSSL (default: per OS family)")
}

// applyParamFlags copies explicitly set flags onto cfg
func applyParamFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags == nil {
		return
	}
	if flags.Changed("servername") {
		cfg.ServerName = paramFlags.serverName
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = paramFlags.baseURL
	}
	if flags.Changed("port") {
		cfg.Port = paramFlags.port
	}
	if flags.Changed("ssl-port") {
		cfg.SSLPort = paramFlags.sslPort
	}
	if flags.Changed("ssl") {
		cfg.SSL = paramFlags.ssl
	}
	if flags.Changed("ssl-only") {
		cfg.SSLOnly = paramFlags.sslOnly
	}
	if flags.Changed("workers") {
		cfg.Workers = paramFlags.workers
	}
	if flags.Changed("threads") {
		cfg.Threads = paramFlags.threads
	}
	if flags.Changed("ssl-directive") {
		cfg.SSLDirective = paramFlags.sslDirective
	}
}
