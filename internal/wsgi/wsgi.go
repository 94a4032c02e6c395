// Package wsgi derives the Apache vhosts fronting Keystone under mod_wsgi.
//
// Generate is a pure function: given an Input it returns the vhost
// descriptors to declare, in a fixed order, each carrying the rendered
// mod_wsgi fragment. It performs no validation and no I/O; host facts and
// parameter checks belong to the caller.
package wsgi

import (
	"strings"

	"github.com/ksyq12/keystone-wsgi/internal/template"
)

// Fixed values shared by every Keystone vhost.
const (
	DocRoot      = "/usr/lib/cgi-bin/keystone"
	ServiceUser  = "keystone"
	ServiceGroup = "keystone"
	ProcessGroup = "keystone"

	// RequiredModule must be loaded in Apache before any vhost is applied.
	RequiredModule = "wsgi_module"

	DefaultBaseURL = "/keystone"
	DefaultPort    = 80
	DefaultSSLPort = 443
	DefaultThreads = 1
)

// Descriptor names.
const (
	VhostName    = "keystone_wsgi"
	SSLVhostName = "keystone_wsgi_ssl"
)

// ManagedNames returns every descriptor name Generate can emit.
func ManagedNames() []string {
	return []string{VhostName, SSLVhostName}
}

// SSLDirective is the directive placed inside the <Location> block when
// plain HTTP is refused. Which one applies depends on the SSL module the
// platform ships; the caller resolves it.
type SSLDirective string

const (
	NSSRequireSSL SSLDirective = "NSSRequireSSL" // mod_nss
	SSLRequireSSL SSLDirective = "SSLRequireSSL" // mod_ssl
)

// SSLDirectives returns the known directives.
func SSLDirectives() []SSLDirective {
	return []SSLDirective{NSSRequireSSL, SSLRequireSSL}
}

// IsValidSSLDirective reports whether d is a known directive.
func IsValidSSLDirective(d string) bool {
	for _, valid := range SSLDirectives() {
		if SSLDirective(d) == valid {
			return true
		}
	}
	return false
}

// Input is the resolved parameter set for one generation.
type Input struct {
	ServerName      string
	BaseURL         string
	Port            int
	SSLPort         int
	SSL             bool
	SSLOnly         bool
	WorkerProcesses int
	WorkerThreads   int
	DocRoot         string
	SSLDirective    SSLDirective
}

// HostFacts are the values Input defaults are derived from.
type HostFacts struct {
	FQDN           string
	ProcessorCount int
	SSLDirective   SSLDirective
}

// DefaultInput returns an Input carrying the documented defaults, with the
// host-dependent ones taken from facts.
func DefaultInput(facts HostFacts) Input {
	return Input{
		ServerName:      facts.FQDN,
		BaseURL:         DefaultBaseURL,
		Port:            DefaultPort,
		SSLPort:         DefaultSSLPort,
		WorkerProcesses: facts.ProcessorCount,
		WorkerThreads:   DefaultThreads,
		DocRoot:         DocRoot,
		SSLDirective:    facts.SSLDirective,
	}
}

// Descriptor is one vhost to declare, with everything the hosting side
// needs to write it.
type Descriptor struct {
	Name     string `json:"name"`
	Port     int    `json:"port"`
	SSL      bool   `json:"ssl"`
	Fragment string `json:"fragment"`

	ServerName        string `json:"servername"`
	DocRoot           string `json:"docroot"`
	DocRootOwner      string `json:"docroot_owner"`
	DocRootGroup      string `json:"docroot_group"`
	ConfigureFirewall bool   `json:"configure_firewall"`
	Require           string `json:"require"`
}

// Generate returns the descriptors for in: keystone_wsgi unless SSLOnly is
// set, then keystone_wsgi_ssl when SSL is set. SSLOnly without SSL yields
// no descriptors.
func Generate(in Input) []Descriptor {
	docroot := in.DocRoot
	if docroot == "" {
		docroot = DocRoot
	}

	data := template.FragmentData{
		BaseURL:      in.BaseURL,
		DocRoot:      docroot,
		ProcessGroup: ProcessGroup,
		User:         ServiceUser,
		Group:        ServiceGroup,
		Processes:    in.WorkerProcesses,
		Threads:      in.WorkerThreads,
	}

	descriptors := make([]Descriptor, 0, 2)

	if !in.SSLOnly {
		descriptors = append(descriptors, newDescriptor(in, docroot, VhostName, in.Port, false, template.MustRenderFragment(data)))
	}

	if in.SSL {
		if in.SSLOnly {
			data.RequireSSL = true
			data.Location = locationPath(in.BaseURL)
			data.SSLDirective = string(in.SSLDirective)
		}
		descriptors = append(descriptors, newDescriptor(in, docroot, SSLVhostName, in.SSLPort, true, template.MustRenderFragment(data)))
	}

	return descriptors
}

func newDescriptor(in Input, docroot, name string, port int, ssl bool, fragment string) Descriptor {
	return Descriptor{
		Name:              name,
		Port:              port,
		SSL:               ssl,
		Fragment:          fragment,
		ServerName:        in.ServerName,
		DocRoot:           docroot,
		DocRootOwner:      ServiceUser,
		DocRootGroup:      ServiceGroup,
		ConfigureFirewall: false,
		Require:           RequiredModule,
	}
}

// locationPath strips trailing slashes from the base URL; "/" stays "/".
func locationPath(baseURL string) string {
	loc := strings.TrimRight(baseURL, "/")
	if loc == "" && strings.HasPrefix(baseURL, "/") {
		return "/"
	}
	return loc
}
