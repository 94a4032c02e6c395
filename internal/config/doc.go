// Package config manages the keystone-wsgi parameter file.
//
// The file mirrors the parameters of the vhost generator. Host-dependent
// values left empty (or zero) are filled from detected host facts when the
// configuration is resolved into a wsgi.Input. Configuration is stored at
// ~/.config/keystone-wsgi/config.yaml unless another path is given.
//
// Example config.yaml:
//
//	servername: identity.example.com
//	base_url: /keystone
//	port: 80
//	ssl_port: 443
//	ssl: true
//	ssl_only: true
//	workers: 0          # processor count
//	threads: 1
//	ssl_directive: ""   # per OS family
//	ssl_cert: /etc/ssl/certs/keystone.pem
//	ssl_key: /etc/ssl/private/keystone.key
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	descriptors := wsgi.Generate(cfg.Input(facts.HostFacts()))
//
// # Thread Safety
//
// Config operations are NOT thread-safe. Callers must implement their own
// synchronization if accessing Config from multiple goroutines.
package config
