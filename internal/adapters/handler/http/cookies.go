package http

import (
	"net/http"
	"time"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// CookiePolicy holds the attributes shared by both session cookies.
type CookiePolicy struct {
	Domain      string
	Secure      bool
	SameSite    http.SameSite
	Partitioned bool
}

// NewCookiePolicy returns cross-site cookies in production and lax,
// non-secure cookies for local development over plain HTTP.
func NewCookiePolicy(production bool, domain string) CookiePolicy {
	if production {
		return CookiePolicy{
			Domain:      domain,
			Secure:      true,
			SameSite:    http.SameSiteNoneMode,
			Partitioned: true,
		}
	}
	return CookiePolicy{
		Domain:   domain,
		SameSite: http.SameSiteLaxMode,
	}
}

func (p CookiePolicy) set(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, p.cookie(name, value, int(ttl/time.Second)))
}

func (p CookiePolicy) clear(w http.ResponseWriter) {
	http.SetCookie(w, p.cookie(accessTokenCookie, "", -1))
	http.SetCookie(w, p.cookie(refreshTokenCookie, "", -1))
}

func (p CookiePolicy) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:        name,
		Value:       value,
		Path:        "/",
		Domain:      p.Domain,
		MaxAge:      maxAge,
		HttpOnly:    true,
		Secure:      p.Secure,
		SameSite:    p.SameSite,
		Partitioned: p.Partitioned,
	}
}
