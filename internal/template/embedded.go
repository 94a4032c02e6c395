package template

import (
	"embed"
	"fmt"
)

//go:embed wsgi/*.tmpl
var wsgiTemplates embed.FS

//go:embed apache/*.tmpl
var apacheTemplates embed.FS

// readTemplate returns the raw content of an embedded template such as
// "wsgi/fragment.tmpl".
func readTemplate(group, name string) (string, error) {
	var fs embed.FS
	switch group {
	case "wsgi":
		fs = wsgiTemplates
	case "apache":
		fs = apacheTemplates
	default:
		return "", fmt.Errorf("unknown template group: %s", group)
	}

	content, err := fs.ReadFile(group + "/" + name + ".tmpl")
	if err != nil {
		return "", fmt.Errorf("template not found: %s/%s", group, name)
	}
	return string(content), nil
}
