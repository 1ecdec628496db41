package session

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Cookie is the wire shape of one externally supplied cookie. The payload
// format matches what browser cookie-export extensions produce.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expirationDate,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
}

// ParseCookiePayload decodes a JSON array of cookie objects. A single
// object is normalized to a one-element array. Entries missing a name,
// value, or domain are discarded.
func ParseCookiePayload(raw string) ([]Cookie, error) {
	var cookies []Cookie
	if err := json.Unmarshal([]byte(raw), &cookies); err != nil {
		var single Cookie
		if err2 := json.Unmarshal([]byte(raw), &single); err2 != nil {
			return nil, fmt.Errorf("cookie payload is neither an array nor an object: %w", err)
		}
		cookies = []Cookie{single}
	}

	valid := cookies[:0]
	for _, c := range cookies {
		if c.Name == "" || c.Value == "" || c.Domain == "" {
			slog.Warn("discarding cookie without name, value, or domain", "name", c.Name, "domain", c.Domain)
			continue
		}
		if c.Path == "" {
			c.Path = "/"
		}
		valid = append(valid, c)
	}
	return valid, nil
}

// applyCookies injects the cookies into the page and returns how many
// were applied. Individual set failures are logged and skipped.
func applyCookies(page *rod.Page, cookies []Cookie) int {
	applied := 0
	for _, c := range cookies {
		param := proto.NetworkSetCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		}
		if c.Expires > 0 {
			param.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		if _, err := param.Call(page); err != nil {
			slog.Warn("failed to set cookie", "name", c.Name, "domain", c.Domain, "error", err)
			continue
		}
		applied++
	}
	return applied
}
