package httpcache

import (
	"strconv"
	"strings"
	"time"
)

// cacheControl is the subset of RFC 9111's Cache-Control response
// directives this adapter acts on.
type cacheControl struct {
	noCache bool
	noStore bool
	maxAge  time.Duration
	hasMax  bool
}

// parseCacheControl splits a Cache-Control header value into its
// directives. Unknown directives (private, public, must-revalidate, ...)
// are ignored: this adapter only needs cacheability and expiry.
func parseCacheControl(header string) cacheControl {
	var cc cacheControl

	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, value, _ := strings.Cut(part, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.Trim(strings.TrimSpace(value), `"`)

		switch name {
		case "no-cache":
			cc.noCache = true
		case "no-store":
			cc.noStore = true
		case "max-age":
			age, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			cc.maxAge = time.Duration(age) * time.Second
			cc.hasMax = true
		}
	}

	return cc
}

// Cacheability is the exported form of cacheability, for transport
// collaborators deciding StatusCache vs StatusPassthrough outside this
// package's own Service.
func Cacheability(now time.Time, header string) (cacheable bool, expireAt *time.Time) {
	return cacheability(now, header)
}

// cacheability applies spec §4.I's cache-control rule: absent header →
// cacheable with no expiry; no-cache/no-store → not cacheable; otherwise
// cacheable, with an expiry derived from max-age when present.
func cacheability(now time.Time, header string) (cacheable bool, expireAt *time.Time) {
	if header == "" {
		return true, nil
	}

	cc := parseCacheControl(header)
	if cc.noCache || cc.noStore {
		return false, nil
	}

	if cc.hasMax {
		t := now.Add(cc.maxAge)
		return true, &t
	}

	return true, nil
}
