// Package ssl obtains the Let's Encrypt certificate served by the
// keystone_wsgi_ssl vhost, through Certbot.
//
// Issue uses the apache plugin in certonly mode so Certbot never edits
// the managed vhost files; the resulting paths are recorded as ssl_cert
// and ssl_key and rendered by apply:
//
//	cert, err := ssl.Issue("keystone.example.com", "ops@example.com")
//	cfg.SSLCert, cfg.SSLKey = cert.CertPath, cert.KeyPath
//
// Certificates live in Let's Encrypt's standard directory:
//
//	/etc/letsencrypt/live/{domain}/fullchain.pem
//	/etc/letsencrypt/live/{domain}/privkey.pem
//
// Tests replace the command executor:
//
//	ssl.SetExecutor(&executor.MockExecutor{})
//	defer ssl.ResetExecutor()
package ssl
