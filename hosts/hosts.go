package hosts

import (
	"context"
	"net"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
)

// Repo persists the administrator maintained allow-list. Hosts are stored normalised.
type Repo interface {
	Exists(ctx context.Context, host string) (bool, error)
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, host string) error
	Delete(ctx context.Context, host string) error
}

// NormalizeDomain lowercases a domain name and gives it a trailing dot.
// Punycode is not handled.
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(domain)
	if !strings.HasSuffix(domain, ".") {
		domain += "."
	}
	return domain
}

// URLToHost returns the normalised host of an absolute URL: the domain with a
// trailing dot followed directly by the port, if the URL names a non-default one.
//
//	https://Files.Example.org/a      -> files.example.org.
//	https://files.example.org:8443/a -> files.example.org.8443
func URLToHost(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidRequest, "parse url %q", rawURL)
	}
	if u.Hostname() == "" {
		return "", errors.Wrapf(errors.ErrInvalidRequest, "url %q has no host", rawURL)
	}
	return NormalizeDomain(u.Hostname()) + explicitPort(u), nil
}

// NormalizeHost normalises a bare "host[:port]" value such as an X-Original-Host header.
func NormalizeHost(host string) (string, error) {
	if host == "" || strings.ContainsAny(host, "/?#@") {
		return "", errors.Wrapf(errors.ErrInvalidRequest, "invalid host %q", host)
	}
	return URLToHost("https://" + host)
}

func explicitPort(u *url.URL) string {
	port := u.Port()
	switch {
	case u.Scheme == "https" && port == "443":
		return ""
	case u.Scheme == "http" && port == "80":
		return ""
	}
	return port
}

// AllowList answers whether a host may use subrequest auth.
type AllowList struct {
	repo Repo
}

func NewAllowList(repo Repo) *AllowList {
	return &AllowList{repo: repo}
}

// CheckURL normalises the host of targetURL and returns it if it is allow-listed.
// Hosts that are not on the list fail with ErrUnknownHost.
func (a *AllowList) CheckURL(ctx context.Context, targetURL string) (string, error) {
	host, err := URLToHost(targetURL)
	if err != nil {
		return "", err
	}
	ok, err := a.repo.Exists(ctx, host)
	if err != nil {
		return "", errors.Wrapf(err, "[hosts CheckURL] lookup %s", host)
	}
	if !ok {
		return "", errors.Wrapf(errors.ErrUnknownHost, "%s", host)
	}
	return host, nil
}

// Add accepts either an absolute URL or a "host[:port]" value.
func (a *AllowList) Add(ctx context.Context, hostOrURL string) (string, error) {
	host, err := parseHostOrURL(hostOrURL)
	if err != nil {
		return "", err
	}
	if err := a.repo.Add(ctx, host); err != nil {
		return "", errors.Wrapf(err, "[hosts Add] %s", host)
	}
	return host, nil
}

func (a *AllowList) Remove(ctx context.Context, hostOrURL string) error {
	host, err := parseHostOrURL(hostOrURL)
	if err != nil {
		return err
	}
	return a.repo.Delete(ctx, host)
}

func (a *AllowList) List(ctx context.Context) ([]string, error) {
	return a.repo.List(ctx)
}

func parseHostOrURL(v string) (string, error) {
	v = strings.TrimSpace(v)
	if strings.Contains(v, "://") {
		return URLToHost(v)
	}
	// Stored values are already normalised, so a trailing dot must survive a round trip.
	if strings.HasSuffix(v, ".") || isNormalizedWithPort(v) {
		return strings.ToLower(v), nil
	}
	return NormalizeHost(v)
}

// isNormalizedWithPort matches "example.org.8443" but not an IPv4 address.
func isNormalizedWithPort(v string) bool {
	if net.ParseIP(v) != nil {
		return false
	}
	i := strings.LastIndex(v, ".")
	if i <= 0 || i == len(v)-1 {
		return false
	}
	for _, r := range v[i+1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
