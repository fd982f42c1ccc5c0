package config

import (
	"net/url"
	"strings"
	"time"
)

// SiteConfig holds per-site capture overrides from the .precheck file.
// Sites behind consent walls or logins often need a cookie or header to
// render the real page.
type SiteConfig struct {
	// Cookie is sent as the Cookie header on navigation.
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers sent on navigation.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Wait overrides the settle time, in seconds, after navigation
	// before capturing.
	Wait int `yaml:"wait,omitempty"`
}

// WaitDuration returns the settle time as a duration, or zero when no
// override is set.
func (s SiteConfig) WaitDuration() time.Duration {
	return time.Duration(s.Wait) * time.Second
}

// File is the parsed .precheck configuration file.
type File struct {
	// Defaults applies to every site without a specific entry.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Sites maps a hostname (or hostname suffix) to its overrides.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`
}

// SiteConfig returns the overrides for rawURL, merging the matching site
// entry over the file defaults. Hostname matching is by exact host first,
// then by suffix, so an entry for "example.com" also covers
// "www.example.com".
func (f *File) SiteConfig(rawURL string) SiteConfig {
	merged := f.Defaults

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return merged
	}
	host := strings.ToLower(u.Hostname())

	site, ok := f.Sites[host]
	if !ok {
		for name, sc := range f.Sites {
			if strings.HasSuffix(host, "."+strings.ToLower(name)) {
				site, ok = sc, true
				break
			}
		}
	}
	if !ok {
		return merged
	}

	if site.Cookie != "" {
		merged.Cookie = site.Cookie
	}
	if site.Wait != 0 {
		merged.Wait = site.Wait
	}
	if len(site.Headers) != 0 {
		if merged.Headers == nil {
			merged.Headers = make(map[string]string, len(site.Headers))
		} else {
			copied := make(map[string]string, len(merged.Headers)+len(site.Headers))
			for k, v := range merged.Headers {
				copied[k] = v
			}
			merged.Headers = copied
		}
		for k, v := range site.Headers {
			merged.Headers[k] = v
		}
	}
	return merged
}

// SiteConfigFor returns the overrides for rawURL, or the zero value when
// no configuration file was loaded.
func (c *Config) SiteConfigFor(rawURL string) SiteConfig {
	if c.SiteConfigs == nil {
		return SiteConfig{}
	}
	return c.SiteConfigs.SiteConfig(rawURL)
}
