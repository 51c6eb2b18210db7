package persist

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// PageToken is the fragment key carrying the cursor, as in "#page=12".
const PageToken = "page"

// ParseFragment extracts the page number from a URL fragment. A missing or
// unparsable token reports false.
func ParseFragment(fragment string) (int, bool) {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	for _, token := range strings.Split(fragment, "&") {
		key, value, found := strings.Cut(token, "=")
		if !found || strings.TrimSpace(key) != PageToken {
			continue
		}
		page, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, false
		}
		return page, true
	}
	return 0, false
}

// FormatFragment writes page into fragment, replacing an existing page token
// and keeping every other token in place.
func FormatFragment(fragment string, page int) string {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	token := fmt.Sprintf("%s=%d", PageToken, page)
	if fragment == "" {
		return token
	}
	tokens := strings.Split(fragment, "&")
	replaced := false
	for i, existing := range tokens {
		key, _, _ := strings.Cut(existing, "=")
		if strings.TrimSpace(key) == PageToken {
			tokens[i] = token
			replaced = true
		}
	}
	if !replaced {
		tokens = append(tokens, token)
	}
	return strings.Join(tokens, "&")
}

// Location is the address the book was opened from. ReplaceFragment must not
// add a history entry.
type Location interface {
	Fragment() string
	ReplaceFragment(fragment string) error
}

// URLLocation keeps the book's URL in memory.
type URLLocation struct {
	u *url.URL
}

// ParseLocation parses raw into a URLLocation. An empty raw yields an empty
// location.
func ParseLocation(raw string) (*URLLocation, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse location %q: %w", raw, err)
	}
	return &URLLocation{u: u}, nil
}

func (l *URLLocation) Fragment() string {
	if l == nil || l.u == nil {
		return ""
	}
	return l.u.Fragment
}

func (l *URLLocation) ReplaceFragment(fragment string) error {
	if l == nil || l.u == nil {
		return fmt.Errorf("location unavailable")
	}
	l.u.Fragment = fragment
	l.u.RawFragment = ""
	return nil
}

func (l *URLLocation) String() string {
	if l == nil || l.u == nil {
		return ""
	}
	return l.u.String()
}
