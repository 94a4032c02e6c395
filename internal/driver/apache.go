package driver

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	kerrors "github.com/ksyq12/keystone-wsgi/internal/errors"
	"github.com/ksyq12/keystone-wsgi/internal/executor"
	"github.com/ksyq12/keystone-wsgi/internal/logger"
)

// ErrOwnerUnknown is returned by EnsureDocroot when the directory exists but
// the requested owner or group is not known to the system.
var ErrOwnerUnknown = errors.New("docroot owner does not exist")

// ApacheDriver implements the Driver interface for Apache httpd
type ApacheDriver struct {
	paths   Paths
	service string
	exec    executor.CommandExecutor
	chown   func(path string, uid, gid int) error
}

// NewApacheWithExecutor creates an Apache driver for the given layout and
// service name, running commands through exec
func NewApacheWithExecutor(paths Paths, service string, exec executor.CommandExecutor) *ApacheDriver {
	return &ApacheDriver{
		paths:   paths,
		service: service,
		exec:    exec,
		chown:   os.Chown,
	}
}

// Name returns the driver name
func (a *ApacheDriver) Name() string {
	return "apache"
}

// Paths returns the config paths
func (a *ApacheDriver) Paths() Paths {
	return a.paths
}

// Service returns the service name used for reloads
func (a *ApacheDriver) Service() string {
	return a.service
}

func configFileName(name string) string {
	return name + ".conf"
}

func (a *ApacheDriver) availablePath(name string) string {
	return filepath.Join(a.paths.Available, configFileName(name))
}

func (a *ApacheDriver) enabledPath(name string) string {
	return filepath.Join(a.paths.Enabled, configFileName(name))
}

// Write replaces the vhost file atomically
func (a *ApacheDriver) Write(name, content string) error {
	if err := os.MkdirAll(a.paths.Available, 0755); err != nil {
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to create vhost directory", err)
	}

	path := a.availablePath(name)
	tmp, err := os.CreateTemp(a.paths.Available, "."+configFileName(name)+".*")
	if err != nil {
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to write vhost file", err)
	}
	if err := tmp.Close(); err != nil {
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to write vhost file", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to set vhost file mode", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to install vhost file", err)
	}

	logger.Debug("Wrote %s", path)
	return nil
}

// Read returns the vhost file content
func (a *ApacheDriver) Read(name string) (string, error) {
	data, err := os.ReadFile(a.availablePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", kerrors.NotFound(name)
		}
		return "", kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to read vhost file", err)
	}
	return string(data), nil
}

// Remove deletes a vhost file after disabling it
func (a *ApacheDriver) Remove(name string) error {
	if err := a.Disable(name); err != nil {
		return err
	}

	if err := os.Remove(a.availablePath(name)); err != nil {
		if os.IsNotExist(err) {
			return kerrors.NotFound(name)
		}
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to remove vhost file", err)
	}

	return nil
}

// Enable activates a vhost by creating a symlink in the enabled directory
func (a *ApacheDriver) Enable(name string) error {
	source := a.availablePath(name)
	if _, err := os.Stat(source); os.IsNotExist(err) {
		return kerrors.NotFound(name)
	}

	if a.paths.Shared() {
		return nil
	}

	target := a.enabledPath(name)
	if existing, err := os.Readlink(target); err == nil {
		// a2ensite links relative to the enabled directory
		resolved := existing
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(a.paths.Enabled, resolved)
		}
		if filepath.Clean(resolved) == filepath.Clean(source) {
			return nil
		}
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "enabled link points elsewhere", fmt.Errorf("%s -> %s", target, existing))
	} else if _, statErr := os.Lstat(target); statErr == nil {
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "enabled entry is not a symlink", fmt.Errorf("%s", target))
	}

	if err := os.MkdirAll(a.paths.Enabled, 0755); err != nil {
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to create enabled directory", err)
	}
	if err := os.Symlink(source, target); err != nil {
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to enable vhost", err)
	}

	return nil
}

// Disable deactivates a vhost by removing its symlink
func (a *ApacheDriver) Disable(name string) error {
	if a.paths.Shared() {
		return nil
	}

	target := a.enabledPath(name)
	info, err := os.Lstat(target)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to check vhost status", err)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "enabled entry is not a symlink, refusing to remove", nil)
	}

	if err := os.Remove(target); err != nil {
		return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to disable vhost", err)
	}

	return nil
}

// List returns the names of all .conf files in the available directory
func (a *ApacheDriver) List() ([]string, error) {
	entries, err := os.ReadDir(a.paths.Available)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, kerrors.Wrap(kerrors.ErrCodeDriver, "failed to read vhost directory", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && !strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".conf") {
			names = append(names, strings.TrimSuffix(name, ".conf"))
		}
	}

	return names, nil
}

// IsEnabled checks if a vhost is enabled
func (a *ApacheDriver) IsEnabled(name string) (bool, error) {
	target := a.enabledPath(name)
	_, err := os.Lstat(target)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to check vhost status", err)
	}
	return true, nil
}

// EnsureDocroot creates path and hands it to owner:group. The directory is
// left in place with ErrOwnerUnknown when the account does not exist.
func (a *ApacheDriver) EnsureDocroot(path, owner, group string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeDriver, "failed to create document root", err)
	}

	uid, gid, err := lookupOwner(owner, group)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOwnerUnknown, err)
	}

	if err := a.chown(path, uid, gid); err != nil {
		return kerrors.Wrap(kerrors.ErrCodePermission, "failed to set document root owner", err)
	}

	return nil
}

func lookupOwner(owner, group string) (int, int, error) {
	u, err := user.Lookup(owner)
	if err != nil {
		return 0, 0, err
	}
	g, err := user.LookupGroup(group)
	if err != nil {
		return 0, 0, err
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return 0, 0, fmt.Errorf("non-numeric uid %q", u.Uid)
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return 0, 0, fmt.Errorf("non-numeric gid %q", g.Gid)
	}
	return uid, gid, nil
}

// ctl returns the apachectl flavour installed on this host
func (a *ApacheDriver) ctl() (string, error) {
	name, err := executor.FirstAvailable(a.exec, "apache2ctl", "apachectl")
	if err != nil {
		return "", kerrors.Wrap(kerrors.ErrCodeDriver, "apache control program not found", err)
	}
	return name, nil
}

// ModuleLoaded checks the loaded module list reported by apachectl -M
func (a *ApacheDriver) ModuleLoaded(module string) (bool, error) {
	ctl, err := a.ctl()
	if err != nil {
		return false, err
	}

	output, err := a.exec.Execute(ctl, "-M")
	if err != nil {
		return false, kerrors.Wrap(kerrors.ErrCodeDriver, "failed to list apache modules", fmt.Errorf("%s", strings.TrimSpace(string(output))))
	}

	// lines look like " wsgi_module (shared)"
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 && fields[0] == module {
			return true, nil
		}
	}
	return false, nil
}

// Test validates the apache config syntax
func (a *ApacheDriver) Test() error {
	ctl, err := a.ctl()
	if err != nil {
		return err
	}

	output, err := a.exec.Execute(ctl, "configtest")
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeDriver, "apache config test failed", fmt.Errorf("%s", strings.TrimSpace(string(output))))
	}
	return nil
}

// Reload reloads apache through systemd, falling back to a graceful restart
func (a *ApacheDriver) Reload() error {
	output, err := a.exec.Execute("systemctl", "reload", a.service)
	if err == nil {
		return nil
	}
	logger.Debug("systemctl reload %s failed: %s", a.service, strings.TrimSpace(string(output)))

	ctl, ctlErr := a.ctl()
	if ctlErr != nil {
		return ctlErr
	}
	output, err = a.exec.Execute(ctl, "graceful")
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeDriver, "failed to reload apache", fmt.Errorf("%s", strings.TrimSpace(string(output))))
	}
	return nil
}
