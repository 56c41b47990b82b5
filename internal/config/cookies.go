package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

/*
Cookies splits a JWT between two cookies: "auth" holds the readable
header and payload, while the signature goes into the HttpOnly "sign"
cookie so scripts can read the claims but never replay the token.
*/
type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookies() (*Cookies, error) {
	domain, err := lookup("COOKIES_DOMAIN")
	if err != nil {
		return nil, err
	}
	secure, err := lookup("COOKIES_SECURE")
	if err != nil {
		return nil, err
	}
	sameSite, err := lookup("COOKIES_SAMESITE")
	if err != nil {
		return nil, err
	}
	cookies := &Cookies{
		Domain:   domain,
		Secure:   secure != "0",
		SameSite: parseSameSite(sameSite),
	}
	return cookies, nil
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToUpper(s) {
	case "DEFAULT":
		return http.SameSiteDefaultMode
	case "LAX":
		return http.SameSiteLaxMode
	case "NONE":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

func (c *Cookies) cookie(name, value string, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		HttpOnly: httpOnly,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	for _, name := range []string{"auth", "sign"} {
		cookie := c.cookie(name, "delete", name == "sign")
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

func (c *Cookies) Refresh(w http.ResponseWriter, token string, expires time.Time) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed JWT token generated")
	}
	auth := c.cookie("auth", parts[0]+"."+parts[1], false)
	auth.Expires = expires
	sign := c.cookie("sign", parts[2], true)
	sign.Expires = expires
	http.SetCookie(w, auth)
	http.SetCookie(w, sign)
	return nil
}

// Token reassembles the JWT carried by the request's cookies.
func (c *Cookies) Token(r *http.Request) (string, error) {
	auth, err := r.Cookie("auth")
	if err != nil {
		return "", err
	}
	sign, err := r.Cookie("sign")
	if err != nil {
		return "", err
	}
	return auth.Value + "." + sign.Value, nil
}
