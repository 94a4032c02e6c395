// Package driver applies rendered Keystone vhost files to Apache httpd.
//
// Each managed vhost (keystone_wsgi, keystone_wsgi_ssl) is one file named
// <name>.conf in the available directory. On Debian the file is activated
// by a symlink in sites-enabled; where the available and enabled
// directories coincide (RedHat conf.d, Homebrew) a written file is active
// immediately and Enable/Disable do nothing.
//
// # Basic Usage
//
//	drv := driver.NewApacheWithExecutor(driver.Paths{
//	    Available: "/etc/apache2/sites-available",
//	    Enabled:   "/etc/apache2/sites-enabled",
//	}, "apache2", executor.NewSystemExecutor())
//
//	loaded, err := drv.ModuleLoaded("wsgi_module")
//	err = drv.Write("keystone_wsgi", content)
//	err = drv.Enable("keystone_wsgi")
//	err = drv.Test()
//	err = drv.Reload()
//
// # Testing
//
// Commands go through executor.CommandExecutor, so tests pass an
// executor.MockExecutor. MockDriver keeps the whole web server state in
// memory for command-level tests.
package driver
