package browser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-rod/rod/lib/proto"
)

var ErrNoCookies = errors.New("cookie file has no cookies")

// exportedCookie covers the two common export shapes: WebDriver style
// ("expiry") and browser-extension style ("expirationDate").
type exportedCookie struct {
	Name           string   `json:"name"`
	Value          string   `json:"value"`
	Domain         string   `json:"domain"`
	Path           string   `json:"path"`
	Secure         bool     `json:"secure"`
	HTTPOnly       bool     `json:"httpOnly"`
	SameSite       string   `json:"sameSite"`
	Expiry         *float64 `json:"expiry"`
	ExpirationDate *float64 `json:"expirationDate"`
}

func ParseCookies(data []byte) ([]*proto.NetworkCookieParam, error) {
	var exported []exportedCookie
	if err := json.Unmarshal(data, &exported); err != nil {
		return nil, fmt.Errorf("parse cookies: %w", err)
	}
	if len(exported) == 0 {
		return nil, ErrNoCookies
	}

	cookies := make([]*proto.NetworkCookieParam, 0, len(exported))
	for i, c := range exported {
		if c.Name == "" {
			return nil, fmt.Errorf("cookie %d: missing name", i)
		}
		if c.Domain == "" {
			return nil, fmt.Errorf("cookie %q: missing domain", c.Name)
		}

		param := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: sameSite(c.SameSite),
		}
		if param.Path == "" {
			param.Path = "/"
		}
		switch {
		case c.Expiry != nil:
			param.Expires = proto.TimeSinceEpoch(*c.Expiry)
		case c.ExpirationDate != nil:
			param.Expires = proto.TimeSinceEpoch(*c.ExpirationDate)
		}
		cookies = append(cookies, param)
	}
	return cookies, nil
}

func sameSite(v string) proto.NetworkCookieSameSite {
	switch strings.ToLower(v) {
	case "strict":
		return proto.NetworkCookieSameSiteStrict
	case "lax":
		return proto.NetworkCookieSameSiteLax
	case "none", "no_restriction":
		return proto.NetworkCookieSameSiteNone
	default:
		return ""
	}
}
