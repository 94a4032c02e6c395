package template

import (
	"strings"
	"testing"
)

func baseFragmentData() FragmentData {
	return FragmentData{
		BaseURL:      "/keystone",
		DocRoot:      "/usr/lib/cgi-bin/keystone",
		ProcessGroup: "keystone",
		User:         "keystone",
		Group:        "keystone",
		Processes:    42,
		Threads:      1,
	}
}

func TestRenderFragment(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*FragmentData)
		want   string
	}{
		{
			name:   "plain",
			modify: func(d *FragmentData) {},
			want: "WSGIScriptAlias /keystone/main  /usr/lib/cgi-bin/keystone/main\n" +
				"WSGIScriptAlias /keystone/admin  /usr/lib/cgi-bin/keystone/admin\n" +
				"\n" +
				"WSGIDaemonProcess keystone user=keystone group=keystone processes=42 threads=1\n" +
				"WSGIProcessGroup keystone\n",
		},
		{
			name: "require ssl",
			modify: func(d *FragmentData) {
				d.RequireSSL = true
				d.Location = "/keystone"
				d.SSLDirective = "NSSRequireSSL"
			},
			want: "WSGIScriptAlias /keystone/main  /usr/lib/cgi-bin/keystone/main\n" +
				"WSGIScriptAlias /keystone/admin  /usr/lib/cgi-bin/keystone/admin\n" +
				"\n" +
				"WSGIDaemonProcess keystone user=keystone group=keystone processes=42 threads=1\n" +
				"WSGIProcessGroup keystone\n" +
				"\n" +
				"<Location \"/keystone\">\n" +
				"  NSSRequireSSL\n" +
				"</Location>\n",
		},
		{
			name: "custom base url and workers",
			modify: func(d *FragmentData) {
				d.BaseURL = "/openstack_identity"
				d.Processes = 8
				d.Threads = 16
			},
			want: "WSGIScriptAlias /openstack_identity/main  /usr/lib/cgi-bin/keystone/main\n" +
				"WSGIScriptAlias /openstack_identity/admin  /usr/lib/cgi-bin/keystone/admin\n" +
				"\n" +
				"WSGIDaemonProcess keystone user=keystone group=keystone processes=8 threads=16\n" +
				"WSGIProcessGroup keystone\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := baseFragmentData()
			tc.modify(&data)

			got, err := RenderFragment(data)
			if err != nil {
				t.Fatalf("RenderFragment failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("fragment mismatch\ngot:\n%q\nwant:\n%q", got, tc.want)
			}
		})
	}
}

func TestMustRenderFragment(t *testing.T) {
	data := baseFragmentData()
	got := MustRenderFragment(data)
	want, _ := RenderFragment(data)
	if got != want {
		t.Error("MustRenderFragment should match RenderFragment")
	}
}

func TestRenderVhost(t *testing.T) {
	fragment := MustRenderFragment(baseFragmentData())

	testCases := []struct {
		name        string
		data        VhostData
		contains    []string
		notContains []string
	}{
		{
			name: "plain",
			data: VhostData{
				Name:       "keystone_wsgi",
				ServerName: "some.host.tld",
				Port:       80,
				DocRoot:    "/usr/lib/cgi-bin/keystone",
				LogDir:     "/var/log/apache2",
				Fragment:   fragment,
			},
			contains: []string{
				"<VirtualHost *:80>",
				"ServerName some.host.tld",
				`DocumentRoot "/usr/lib/cgi-bin/keystone"`,
				`ErrorLog "/var/log/apache2/keystone_wsgi_error.log"`,
				"  ## Custom fragment\n" + fragment + "</VirtualHost>\n",
			},
			notContains: []string{"SSLEngine"},
		},
		{
			name: "ssl with certificates",
			data: VhostData{
				Name:       "keystone_wsgi_ssl",
				ServerName: "some.host.tld",
				Port:       443,
				DocRoot:    "/usr/lib/cgi-bin/keystone",
				LogDir:     "/var/log/httpd",
				SSL:        true,
				SSLCert:    "/etc/pki/tls/certs/keystone.crt",
				SSLKey:     "/etc/pki/tls/private/keystone.key",
				Fragment:   fragment,
			},
			contains: []string{
				"<VirtualHost *:443>",
				"SSLEngine on",
				`SSLCertificateFile "/etc/pki/tls/certs/keystone.crt"`,
				`SSLCertificateKeyFile "/etc/pki/tls/private/keystone.key"`,
				`CustomLog "/var/log/httpd/keystone_wsgi_ssl_access.log" combined`,
			},
		},
		{
			name: "ssl without certificates",
			data: VhostData{
				Name:     "keystone_wsgi_ssl",
				Port:     443,
				SSL:      true,
				Fragment: fragment,
			},
			contains:    []string{"SSLEngine on"},
			notContains: []string{"SSLCertificateFile", "SSLCertificateKeyFile"},
		},
		{
			name: "fragment without trailing newline",
			data: VhostData{
				Name:     "keystone_wsgi",
				Port:     80,
				Fragment: "WSGIProcessGroup keystone",
			},
			contains: []string{"WSGIProcessGroup keystone\n</VirtualHost>\n"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RenderVhost(tc.data)
			if err != nil {
				t.Fatalf("RenderVhost failed: %v", err)
			}
			for _, s := range tc.contains {
				if !strings.Contains(got, s) {
					t.Errorf("expected output to contain %q\n%s", s, got)
				}
			}
			for _, s := range tc.notContains {
				if strings.Contains(got, s) {
					t.Errorf("expected output not to contain %q", s)
				}
			}
		})
	}
}

func TestRenderVhostDeterministic(t *testing.T) {
	data := VhostData{
		Name:       "keystone_wsgi",
		ServerName: "some.host.tld",
		Port:       80,
		DocRoot:    "/usr/lib/cgi-bin/keystone",
		LogDir:     "/var/log/apache2",
		Fragment:   MustRenderFragment(baseFragmentData()),
	}

	first, err := RenderVhost(data)
	if err != nil {
		t.Fatalf("RenderVhost failed: %v", err)
	}
	second, _ := RenderVhost(data)
	if first != second {
		t.Error("RenderVhost output differs between calls")
	}
}

func TestReadTemplateUnknown(t *testing.T) {
	if _, err := readTemplate("nginx", "vhost"); err == nil {
		t.Error("expected error for unknown template group")
	}
	if _, err := readTemplate("apache", "missing"); err == nil {
		t.Error("expected error for missing template")
	}
}
