// Package deeplink decodes the application's cw-reports:// links.
//
// A Link keeps the exact text it was built from. Scheme, query and fragment
// are read from that text rather than from the parsed url.URL, because
// net/url lower-cases the scheme and cannot tell an empty fragment ("x://h#")
// from a missing one.
package deeplink

import (
	"fmt"
	"net/url"
	"strings"
)

// Scheme is the URL scheme claimed by the application.
const Scheme = "cw-reports"

// QueryItem is one name/value pair of a query string. Value is nil when the
// pair had no '=' separator.
type QueryItem struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
}

// Val returns the value and whether one was present.
func (q QueryItem) Val() (string, bool) {
	if q.Value == nil {
		return "", false
	}
	return *q.Value, true
}

// Link is an immutable URL. Build it with Parse or MustParse; the zero value
// behaves like an empty relative URL.
type Link struct {
	raw string
	url *url.URL
}

func Parse(raw string) (*Link, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	return &Link{raw: raw, url: u}, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(raw string) *Link {
	l, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Link) String() string {
	return l.raw
}

// URL returns a copy of the parsed URL.
func (l *Link) URL() *url.URL {
	if l.url == nil {
		return &url.URL{}
	}
	u := *l.url
	return &u
}

// RawScheme returns the scheme exactly as written.
func (l *Link) RawScheme() string {
	if l.url == nil {
		return ""
	}
	// url.Parse only lower-cases the scheme, so its length matches the source.
	return l.raw[:len(l.url.Scheme)]
}

// IsDeeplink reports whether the link uses Scheme. The comparison is
// case-sensitive.
func (l *Link) IsDeeplink() bool {
	return l.RawScheme() == Scheme
}

// QueryItems returns the query parameters in source order, duplicates kept.
// Names and values are percent-decoded; '+' is not turned into a space.
// ok is false when the link has no '?' at all.
func (l *Link) QueryItems() (items []QueryItem, ok bool) {
	beforeFragment, _, _ := strings.Cut(l.raw, "#")
	_, rawQuery, ok := strings.Cut(beforeFragment, "?")
	if !ok {
		return nil, false
	}

	items = []QueryItem{}
	if rawQuery == "" {
		return items, true
	}
	for _, part := range strings.Split(rawQuery, "&") {
		name, value, hasValue := strings.Cut(part, "=")
		item := QueryItem{Name: unescape(name)}
		if hasValue {
			v := unescape(value)
			item.Value = &v
		}
		items = append(items, item)
	}
	return items, true
}

// unescape keeps the raw text when it holds an invalid escape sequence.
func unescape(s string) string {
	if out, err := url.PathUnescape(s); err == nil {
		return out
	}
	return s
}

// FragmentItems decodes a fragment of the form "k1=v1&k2=v2". Parts without
// '=' are dropped and a repeated key keeps its last value. Nothing is
// percent-decoded. ok is false when the link has no '#'.
func (l *Link) FragmentItems() (items map[string]string, ok bool) {
	_, fragment, ok := strings.Cut(l.raw, "#")
	if !ok {
		return nil, false
	}

	items = make(map[string]string)
	for _, part := range strings.Split(fragment, "&") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		items[key] = value
	}
	return items, true
}

// IsDeeplink reports whether raw is a well-formed URL using Scheme.
func IsDeeplink(raw string) bool {
	l, err := Parse(raw)
	if err != nil {
		return false
	}
	return l.IsDeeplink()
}

// QueryItems is Link.QueryItems over a raw string. Malformed URLs have no query.
func QueryItems(raw string) ([]QueryItem, bool) {
	l, err := Parse(raw)
	if err != nil {
		return nil, false
	}
	return l.QueryItems()
}

// FragmentItems is Link.FragmentItems over a raw string. Malformed URLs have
// no fragment.
func FragmentItems(raw string) (map[string]string, bool) {
	l, err := Parse(raw)
	if err != nil {
		return nil, false
	}
	return l.FragmentItems()
}
