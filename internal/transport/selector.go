package transport

import (
	"net/url"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Constructor creates an unconnected transport.
type Constructor func(Options) Transport

var schemes = map[string]Constructor{
	"telnet":  func(o Options) Transport { return NewTelnet(o) },
	"rfc2217": func(o Options) Transport { return NewRFC2217(o) },
	"ssh":     func(o Options) Transport { return NewSSH(o) },
	"serial":  func(o Options) Transport { return NewSerial(o) },
	"local":   func(o Options) Transport { return NewLocal(o) },
}

var defaultPorts = map[string]string{
	"telnet":  "23",
	"rfc2217": "23",
	"ssh":     "22",
}

// New returns an unconnected transport for scheme. The match is case
// insensitive; for an unknown scheme it returns nil and false.
func New(scheme string, opts Options) (Transport, bool) {
	ctor, ok := schemes[strings.ToLower(scheme)]
	if !ok {
		return nil, false
	}
	return ctor(opts), true
}

// Schemes lists the supported schemes.
func Schemes() []string {
	out := make([]string, 0, len(schemes))
	for s := range schemes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// DefaultPort returns the port used when a URI has none, or "".
func DefaultPort(scheme string) string {
	return defaultPorts[strings.ToLower(scheme)]
}

// Select parses rawURL and returns an unconnected transport for its scheme.
// The parsed URL is returned whenever parsing succeeds.
func Select(rawURL string, opts Options) (Transport, *url.URL, error) {
	dest, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parse %q", rawURL)
	}
	t, ok := New(dest.Scheme, opts)
	if !ok {
		return nil, dest, errors.Wrapf(ErrUnknownScheme, "%q (supported: %s)", dest.Scheme, strings.Join(Schemes(), ", "))
	}
	return t, dest, nil
}
