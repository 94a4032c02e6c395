package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ksyq12/keystone-wsgi/internal/wsgi"
)

func TestRunRender(t *testing.T) {
	tests := []struct {
		name     string
		flags    map[string]string
		json     bool
		wantErr  bool
		validate func(*testing.T, string)
	}{
		{
			name: "fragment blocks",
			validate: func(t *testing.T, out string) {
				want := "# keystone_wsgi (port 80, ssl no)\n" + defaultFragment
				if out != want {
					t.Errorf("got:\n%q\nwant:\n%q", out, want)
				}
			},
		},
		{
			name:  "ssl adds second block",
			flags: map[string]string{"ssl": "true"},
			validate: func(t *testing.T, out string) {
				want := "# keystone_wsgi (port 80, ssl no)\n" + defaultFragment +
					"\n# keystone_wsgi_ssl (port 443, ssl yes)\n" + defaultFragment
				if out != want {
					t.Errorf("got:\n%q\nwant:\n%q", out, want)
				}
			},
		},
		{
			name:  "full vhost files",
			flags: map[string]string{"full": "true"},
			validate: func(t *testing.T, out string) {
				if !strings.Contains(out, "<VirtualHost *:80>") || !strings.HasSuffix(out, "</VirtualHost>\n") {
					t.Errorf("expected complete vhost file:\n%s", out)
				}
			},
		},
		{
			name:  "json descriptors",
			flags: map[string]string{"ssl": "true", "ssl-only": "true"},
			json:  true,
			validate: func(t *testing.T, out string) {
				var items []wsgi.Descriptor
				if err := json.Unmarshal([]byte(out), &items); err != nil {
					t.Fatalf("invalid JSON: %v\n%s", err, out)
				}
				if len(items) != 1 || items[0].Name != wsgi.SSLVhostName || !items[0].SSL {
					t.Fatalf("unexpected descriptors %+v", items)
				}
				want := defaultFragment + "\n<Location \"/keystone\">\n  SSLRequireSSL\n</Location>\n"
				if items[0].Fragment != want {
					t.Errorf("got fragment %q, want %q", items[0].Fragment, want)
				}
				if items[0].DocRootOwner != "keystone" || items[0].Require != "wsgi_module" || items[0].ConfigureFirewall {
					t.Errorf("unexpected descriptor fields %+v", items[0])
				}
			},
		},
		{
			name:    "invalid port",
			flags:   map[string]string{"port": "0"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureOutput(t)
			setFlags(t, renderCmd, tt.flags)
			jsonOutput = tt.json
			drv := newMockApache()
			useDeps(t, NewMockDeps().WithDriver(drv).Build())

			err := runRender(renderCmd, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("runRender() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(drv.WriteCalls) != 0 {
				t.Error("render must not write")
			}
			if tt.validate != nil {
				tt.validate(t, buf.String())
			}
		})
	}
}
