// Package template renders the Apache configuration text managed by
// keystone-wsgi from templates embedded in the binary.
//
// Two templates exist:
//
//	wsgi/fragment.tmpl   mod_wsgi directives (script aliases, daemon process,
//	                     optional <Location> block requiring SSL)
//	apache/vhost.tmpl    a complete <VirtualHost> wrapping the fragment
//
// The fragment is consumed byte for byte by downstream tooling, so the
// template controls every newline with trim markers. Rendering is
// deterministic: identical data always yields identical text.
//
// # Rendering
//
//	fragment, err := template.RenderFragment(template.FragmentData{
//	    BaseURL:      "/keystone",
//	    DocRoot:      "/usr/lib/cgi-bin/keystone",
//	    ProcessGroup: "keystone",
//	    User:         "keystone",
//	    Group:        "keystone",
//	    Processes:    4,
//	    Threads:      1,
//	})
//
//	vhost, err := template.RenderVhost(template.VhostData{
//	    Name:       "keystone_wsgi",
//	    ServerName: "identity.example.com",
//	    Port:       80,
//	    DocRoot:    "/usr/lib/cgi-bin/keystone",
//	    LogDir:     "/var/log/apache2",
//	    Fragment:   fragment,
//	})
package template
