package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// FragmentData contains the values substituted into the mod_wsgi fragment.
type FragmentData struct {
	BaseURL      string
	DocRoot      string
	ProcessGroup string
	User         string
	Group        string
	Processes    int
	Threads      int

	// RequireSSL appends a <Location> block enforcing SSLDirective on Location.
	RequireSSL   bool
	Location     string
	SSLDirective string
}

// VhostData contains the values for a complete Apache vhost file.
type VhostData struct {
	Name       string
	ServerName string
	Port       int
	DocRoot    string
	LogDir     string
	SSL        bool
	SSLCert    string
	SSLKey     string
	Fragment   string
}

// RenderFragment renders the mod_wsgi directives embedded in each vhost.
func RenderFragment(data FragmentData) (string, error) {
	return render("wsgi", "fragment", data)
}

// MustRenderFragment is like RenderFragment but panics if the embedded
// template cannot be rendered.
func MustRenderFragment(data FragmentData) string {
	out, err := RenderFragment(data)
	if err != nil {
		panic(err)
	}
	return out
}

// RenderVhost renders a complete <VirtualHost> file wrapping data.Fragment.
func RenderVhost(data VhostData) (string, error) {
	if data.Fragment != "" && !strings.HasSuffix(data.Fragment, "\n") {
		data.Fragment += "\n"
	}
	return render("apache", "vhost", data)
}

func render(group, name string, data interface{}) (string, error) {
	content, err := readTemplate(group, name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return buf.String(), nil
}
