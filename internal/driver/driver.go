package driver

// Driver applies rendered vhost files to a web server.
type Driver interface {
	// Name returns the driver name
	Name() string

	// Write creates or replaces the vhost file for name
	Write(name, content string) error

	// Read returns the current content of the vhost file for name
	Read(name string) (string, error)

	// Remove disables and deletes the vhost file for name
	Remove(name string) error

	// Enable activates a vhost; enabling an enabled vhost is a no-op
	Enable(name string) error

	// Disable deactivates a vhost; disabling a disabled vhost is a no-op
	Disable(name string) error

	// List returns the names of all vhost files
	List() ([]string, error)

	// IsEnabled checks if a vhost is enabled
	IsEnabled(name string) (bool, error)

	// EnsureDocroot creates the document root owned by owner:group
	EnsureDocroot(path, owner, group string) error

	// ModuleLoaded reports whether the web server has module loaded
	ModuleLoaded(module string) (bool, error)

	// Test validates the web server config syntax
	Test() error

	// Reload reloads the web server
	Reload() error

	// Paths returns the driver's config paths
	Paths() Paths
}

// Paths contains the web server config directory paths
type Paths struct {
	Available string // config available directory
	Enabled   string // config enabled directory
}

// Shared reports whether vhosts are active as soon as they are written
// (RedHat conf.d, Homebrew extra/vhosts).
func (p Paths) Shared() bool {
	return p.Available == p.Enabled
}
