package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type SameSite int

const (
	SameSiteDefaultMode SameSite = iota + 1
	SameSiteLaxMode
	SameSiteStrictMode
	SameSiteNoneMode
)

type Cookie struct {
	Name  string
	Value string

	Path        string
	Domain      string
	Expires     time.Time
	MaxAge      int
	Secure      bool
	HttpOnly    bool
	SameSite    SameSite
	Partitioned bool
}

func (c *Cookie) String() string {
	var b strings.Builder

	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)

	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}
	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}
	if !c.Expires.IsZero() {
		b.WriteString("; Expires=")
		b.WriteString(c.Expires.UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT"))
	}
	if c.MaxAge > 0 {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(c.MaxAge))
	} else if c.MaxAge < 0 {
		b.WriteString("; Max-Age=0")
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HttpOnly {
		b.WriteString("; HttpOnly")
	}
	switch c.SameSite {
	case SameSiteLaxMode:
		b.WriteString("; SameSite=Lax")
	case SameSiteStrictMode:
		b.WriteString("; SameSite=Strict")
	case SameSiteNoneMode:
		b.WriteString("; SameSite=None")
	}
	if c.Partitioned {
		b.WriteString("; Partitioned")
	}

	return b.String()
}

// Valid checks the cookie against RFC 6265.
func (c *Cookie) Valid() error {
	if c.Name == "" {
		return fmt.Errorf("cookie name cannot be empty")
	}
	for _, r := range c.Name {
		if !isValidCookieNameChar(r) {
			return fmt.Errorf("invalid character in cookie name: %c", r)
		}
	}
	if c.SameSite == SameSiteNoneMode && !c.Secure {
		return fmt.Errorf("SameSite=None requires Secure attribute")
	}
	return nil
}

func (c *Cookie) IsExpired() bool {
	if c.MaxAge < 0 {
		return true
	}
	if !c.Expires.IsZero() && c.Expires.Before(time.Now()) {
		return true
	}
	return false
}

// Delete marks the cookie for removal by the client.
func (c *Cookie) Delete() {
	c.Value = ""
	c.MaxAge = -1
	c.Expires = time.Unix(1, 0)
}

func (c *Cookie) Parse(data string) error {
	*c = Cookie{}

	parts := strings.Split(data, ";")

	nameValue := strings.TrimSpace(parts[0])
	eq := strings.IndexByte(nameValue, '=')
	if eq < 0 {
		return fmt.Errorf("missing '=' in cookie")
	}

	c.Name = strings.TrimSpace(nameValue[:eq])
	c.Value = strings.TrimSpace(nameValue[eq+1:])
	if c.Name == "" {
		return fmt.Errorf("empty cookie name")
	}

	for i := 1; i < len(parts); i++ {
		attr := strings.TrimSpace(parts[i])
		if attr == "" {
			continue
		}

		if eq := strings.IndexByte(attr, '='); eq >= 0 {
			key := strings.ToLower(strings.TrimSpace(attr[:eq]))
			value := strings.TrimSpace(attr[eq+1:])

			switch key {
			case "path":
				c.Path = value
			case "domain":
				c.Domain = value
			case "expires":
				if expires, err := parseCookieTime(value); err == nil {
					c.Expires = expires
				}
			case "max-age":
				if maxAge, err := strconv.Atoi(value); err == nil {
					c.MaxAge = maxAge
				}
			case "samesite":
				switch strings.ToLower(value) {
				case "lax":
					c.SameSite = SameSiteLaxMode
				case "strict":
					c.SameSite = SameSiteStrictMode
				case "none":
					c.SameSite = SameSiteNoneMode
				default:
					c.SameSite = SameSiteDefaultMode
				}
			}
		} else {
			switch strings.ToLower(attr) {
			case "secure":
				c.Secure = true
			case "httponly":
				c.HttpOnly = true
			case "partitioned":
				c.Partitioned = true
			}
		}
	}

	return nil
}

// ParseCookies parses a Cookie request header value into its cookies.
// Invalid entries are skipped rather than failing the whole header.
func ParseCookies(cookieHeader string) []*Cookie {
	var cookies []*Cookie

	for _, part := range strings.Split(cookieHeader, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		cookie := &Cookie{}
		if err := cookie.Parse(part); err != nil {
			continue
		}
		cookies = append(cookies, cookie)
	}

	return cookies
}

func parseCookieTime(value string) (time.Time, error) {
	formats := []string{
		"Mon, 02 Jan 2006 15:04:05 GMT",
		"Mon, 02-Jan-2006 15:04:05 GMT",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse time: %s", value)
}

func isValidCookieNameChar(r rune) bool {
	return r > 0x20 && r < 0x7f && r != '"' && r != ',' && r != ';' && r != '\\' &&
		r != '=' && r != '(' && r != ')' && r != '<' && r != '>' && r != '@' &&
		r != '{' && r != '}' && r != '[' && r != ']' && r != '?' && r != ':' && r != '/'
}
