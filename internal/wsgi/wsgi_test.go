package wsgi

import (
	"fmt"
	"strings"
	"testing"
)

var facts = HostFacts{
	FQDN:           "some.host.tld",
	ProcessorCount: 42,
	SSLDirective:   SSLRequireSSL,
}

const defaultFragment = `WSGIScriptAlias /keystone/main  /usr/lib/cgi-bin/keystone/main
WSGIScriptAlias /keystone/admin  /usr/lib/cgi-bin/keystone/admin

WSGIDaemonProcess keystone user=keystone group=keystone processes=42 threads=1
WSGIProcessGroup keystone
`

func names(ds []Descriptor) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Name)
	}
	return out
}

func TestDefaultInput(t *testing.T) {
	in := DefaultInput(facts)

	if in.ServerName != "some.host.tld" {
		t.Errorf("ServerName = %q, want some.host.tld", in.ServerName)
	}
	if in.BaseURL != "/keystone" {
		t.Errorf("BaseURL = %q, want /keystone", in.BaseURL)
	}
	if in.Port != 80 || in.SSLPort != 443 {
		t.Errorf("ports = %d/%d, want 80/443", in.Port, in.SSLPort)
	}
	if in.SSL || in.SSLOnly {
		t.Error("ssl and ssl_only should default to false")
	}
	if in.WorkerProcesses != 42 {
		t.Errorf("WorkerProcesses = %d, want 42", in.WorkerProcesses)
	}
	if in.WorkerThreads != 1 {
		t.Errorf("WorkerThreads = %d, want 1", in.WorkerThreads)
	}
	if in.DocRoot != DocRoot {
		t.Errorf("DocRoot = %q, want %q", in.DocRoot, DocRoot)
	}
	if in.SSLDirective != SSLRequireSSL {
		t.Errorf("SSLDirective = %q, want SSLRequireSSL", in.SSLDirective)
	}
}

func TestGenerateDefaults(t *testing.T) {
	ds := Generate(DefaultInput(facts))
	if len(ds) != 1 {
		t.Fatalf("expected 1 descriptor, got %v", names(ds))
	}

	d := ds[0]
	if d.Name != "keystone_wsgi" {
		t.Errorf("Name = %q, want keystone_wsgi", d.Name)
	}
	if d.Port != 80 {
		t.Errorf("Port = %d, want 80", d.Port)
	}
	if d.SSL {
		t.Error("plain vhost should not have SSL")
	}
	if d.Fragment != defaultFragment {
		t.Errorf("fragment mismatch\ngot:\n%s\nwant:\n%s", d.Fragment, defaultFragment)
	}
	if d.ServerName != "some.host.tld" {
		t.Errorf("ServerName = %q", d.ServerName)
	}
	if d.DocRoot != "/usr/lib/cgi-bin/keystone" {
		t.Errorf("DocRoot = %q", d.DocRoot)
	}
	if d.DocRootOwner != "keystone" || d.DocRootGroup != "keystone" {
		t.Errorf("docroot owner = %s:%s, want keystone:keystone", d.DocRootOwner, d.DocRootGroup)
	}
	if d.ConfigureFirewall {
		t.Error("ConfigureFirewall should be false")
	}
	if d.Require != "wsgi_module" {
		t.Errorf("Require = %q, want wsgi_module", d.Require)
	}
}

func TestGenerateSSL(t *testing.T) {
	in := DefaultInput(facts)
	in.SSL = true

	ds := Generate(in)
	if len(ds) != 2 {
		t.Fatalf("expected 2 descriptors, got %v", names(ds))
	}
	if ds[0].Name != "keystone_wsgi" || ds[1].Name != "keystone_wsgi_ssl" {
		t.Fatalf("unexpected order: %v", names(ds))
	}

	ssl := ds[1]
	if ssl.Port != 443 {
		t.Errorf("Port = %d, want 443", ssl.Port)
	}
	if !ssl.SSL {
		t.Error("ssl vhost should have SSL enabled")
	}
	if ssl.Fragment != defaultFragment {
		t.Errorf("ssl fragment should equal the base fragment, got:\n%s", ssl.Fragment)
	}
	if ds[0].SSL {
		t.Error("plain vhost should not have SSL")
	}
}

func TestGenerateSSLOnly(t *testing.T) {
	tests := []struct {
		name      string
		directive SSLDirective
	}{
		{"Debian", SSLRequireSSL},
		{"RedHat", NSSRequireSSL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := DefaultInput(facts)
			in.SSL = true
			in.SSLOnly = true
			in.SSLDirective = tt.directive

			ds := Generate(in)
			if len(ds) != 1 {
				t.Fatalf("expected 1 descriptor, got %v", names(ds))
			}
			if ds[0].Name != "keystone_wsgi_ssl" {
				t.Fatalf("Name = %q, want keystone_wsgi_ssl", ds[0].Name)
			}

			want := defaultFragment + "\n<Location \"/keystone\">\n  " + string(tt.directive) + "\n</Location>\n"
			if ds[0].Fragment != want {
				t.Errorf("fragment mismatch\ngot:\n%s\nwant:\n%s", ds[0].Fragment, want)
			}
		})
	}
}

func TestGenerateSSLOnlyWithoutSSL(t *testing.T) {
	in := DefaultInput(facts)
	in.SSLOnly = true

	if ds := Generate(in); len(ds) != 0 {
		t.Errorf("expected no descriptors, got %v", names(ds))
	}
}

func TestScenarioA(t *testing.T) {
	in := DefaultInput(facts)
	in.WorkerProcesses = 42
	in.WorkerThreads = 1

	ds := Generate(in)
	lines := strings.Split(ds[0].Fragment, "\n")

	want := []string{
		"WSGIScriptAlias /keystone/main  /usr/lib/cgi-bin/keystone/main",
		"WSGIScriptAlias /keystone/admin  /usr/lib/cgi-bin/keystone/admin",
		"",
		"WSGIDaemonProcess keystone user=keystone group=keystone processes=42 threads=1",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestScenarioB(t *testing.T) {
	in := DefaultInput(facts)
	in.ServerName = "dummy.host.tld"
	in.BaseURL = "/openstack_identity"
	in.Port = 8000
	in.SSLPort = 8443

	ds := Generate(in)
	if len(ds) != 1 {
		t.Fatalf("expected 1 descriptor, got %v", names(ds))
	}
	d := ds[0]
	if d.Name != "keystone_wsgi" || d.Port != 8000 {
		t.Errorf("got %s:%d, want keystone_wsgi:8000", d.Name, d.Port)
	}
	if d.ServerName != "dummy.host.tld" {
		t.Errorf("ServerName = %q", d.ServerName)
	}
	for _, s := range []string{
		"WSGIScriptAlias /openstack_identity/main  /usr/lib/cgi-bin/keystone/main\n",
		"WSGIScriptAlias /openstack_identity/admin  /usr/lib/cgi-bin/keystone/admin\n",
	} {
		if !strings.Contains(d.Fragment, s) {
			t.Errorf("fragment missing %q", s)
		}
	}

	in.SSL = true
	ds = Generate(in)
	if len(ds) != 2 || ds[1].Port != 8443 {
		t.Fatalf("expected keystone_wsgi_ssl on 8443, got %+v", ds)
	}
}

func TestScenarioC(t *testing.T) {
	in := DefaultInput(facts)
	in.SSL = true
	in.SSLOnly = true
	in.SSLDirective = SSLRequireSSL

	ds := Generate(in)
	if len(ds) != 1 || ds[0].Name != "keystone_wsgi_ssl" {
		t.Fatalf("expected only keystone_wsgi_ssl, got %v", names(ds))
	}
	suffix := "<Location \"/keystone\">\n  SSLRequireSSL\n</Location>\n"
	if !strings.HasSuffix(ds[0].Fragment, suffix) {
		t.Errorf("fragment should end with %q, got:\n%s", suffix, ds[0].Fragment)
	}
}

func TestGenerateProperties(t *testing.T) {
	for _, ssl := range []bool{false, true} {
		for _, sslOnly := range []bool{false, true} {
			for _, baseURL := range []string{"/keystone", "/identity", "/a/b"} {
				name := fmt.Sprintf("ssl=%v/ssl_only=%v/%s", ssl, sslOnly, baseURL)
				t.Run(name, func(t *testing.T) {
					in := DefaultInput(facts)
					in.SSL = ssl
					in.SSLOnly = sslOnly
					in.BaseURL = baseURL
					in.Port = 8080
					in.SSLPort = 8443

					ds := Generate(in)

					var plain, secure *Descriptor
					for i := range ds {
						switch ds[i].Name {
						case VhostName:
							plain = &ds[i]
						case SSLVhostName:
							secure = &ds[i]
						}
					}

					if (plain != nil) != !sslOnly {
						t.Errorf("plain vhost present = %v, want %v", plain != nil, !sslOnly)
					}
					if (secure != nil) != ssl {
						t.Errorf("ssl vhost present = %v, want %v", secure != nil, ssl)
					}
					if plain != nil {
						if plain.Port != 8080 || plain.SSL {
							t.Errorf("plain vhost = %d ssl=%v", plain.Port, plain.SSL)
						}
						if strings.Contains(plain.Fragment, "<Location") {
							t.Error("plain vhost must not carry a Location block")
						}
					}
					if secure != nil {
						if secure.Port != 8443 || !secure.SSL {
							t.Errorf("ssl vhost = %d ssl=%v", secure.Port, secure.SSL)
						}
						hasLocation := strings.Contains(secure.Fragment, "<Location \""+baseURL+"\">")
						if hasLocation != sslOnly {
							t.Errorf("ssl vhost Location block present = %v, want %v", hasLocation, sslOnly)
						}
					}
					if len(ds) == 2 && ds[0].Name != VhostName {
						t.Error("plain vhost must come first")
					}
				})
			}
		}
	}
}

func TestGenerateIdempotent(t *testing.T) {
	in := DefaultInput(facts)
	in.SSL = true
	in.SSLOnly = true

	first := Generate(in)
	second := Generate(in)
	if len(first) != len(second) {
		t.Fatalf("descriptor count differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("descriptor %d differs between calls", i)
		}
	}
}

func TestGenerateEmptyDocRoot(t *testing.T) {
	in := DefaultInput(facts)
	in.DocRoot = ""

	ds := Generate(in)
	if ds[0].DocRoot != DocRoot {
		t.Errorf("DocRoot = %q, want %q", ds[0].DocRoot, DocRoot)
	}
	if !strings.Contains(ds[0].Fragment, DocRoot+"/main") {
		t.Error("fragment should reference the fixed docroot")
	}
}

func TestLocationPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/keystone", "/keystone"},
		{"/keystone/", "/keystone"},
		{"/keystone//", "/keystone"},
		{"/", "/"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := locationPath(tt.in); got != tt.want {
			t.Errorf("locationPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidSSLDirective(t *testing.T) {
	if !IsValidSSLDirective("NSSRequireSSL") || !IsValidSSLDirective("SSLRequireSSL") {
		t.Error("known directives should be valid")
	}
	if IsValidSSLDirective("RequireSSL") || IsValidSSLDirective("") {
		t.Error("unknown directives should be invalid")
	}
}

func TestManagedNames(t *testing.T) {
	got := ManagedNames()
	if len(got) != 2 || got[0] != "keystone_wsgi" || got[1] != "keystone_wsgi_ssl" {
		t.Errorf("ManagedNames() = %v", got)
	}
}
