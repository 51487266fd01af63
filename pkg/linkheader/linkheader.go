// Package linkheader parses HTTP Link response headers of the form
// `<url>; rel="next", <url>; rel="last"` (RFC 8288 web linking).
package linkheader

import (
	"net/url"
	"strconv"
	"strings"
)

// Link is a single entry of a Link header.
type Link struct {
	URL    string
	Rels   []string
	Params map[string]string
}

// HasRel reports whether the link carries the given relation type.
func (l Link) HasRel(rel string) bool {
	for _, r := range l.Rels {
		if strings.EqualFold(r, rel) {
			return true
		}
	}
	return false
}

// Parse splits a Link header value into its entries. Malformed entries are
// skipped; an empty or unparsable header yields nil.
func Parse(header string) []Link {
	var links []Link
	rest := header
	for {
		start := strings.IndexByte(rest, '<')
		if start < 0 {
			return links
		}
		end := strings.IndexByte(rest[start:], '>')
		if end < 0 {
			return links
		}
		end += start

		link := Link{
			URL:    strings.TrimSpace(rest[start+1 : end]),
			Params: make(map[string]string),
		}
		rest = rest[end+1:]

		// params run until the next entry starts
		next := strings.IndexByte(rest, '<')
		params := rest
		if next >= 0 {
			params = rest[:next]
			rest = rest[next:]
		} else {
			rest = ""
		}

		for _, p := range splitParams(params) {
			key, value, found := strings.Cut(p, "=")
			key = strings.ToLower(strings.TrimSpace(key))
			if key == "" {
				continue
			}
			if !found {
				link.Params[key] = ""
				continue
			}
			value = strings.Trim(strings.TrimSpace(value), `"`)
			link.Params[key] = value
			if key == "rel" {
				link.Rels = append(link.Rels, strings.Fields(value)...)
			}
		}

		links = append(links, link)
	}
}

// splitParams splits `; rel="last"; title="a;b",` into individual parameters,
// honouring quoted strings.
func splitParams(s string) []string {
	var (
		out     []string
		current strings.Builder
		quoted  bool
	)
	flush := func() {
		if p := strings.TrimSpace(current.String()); p != "" {
			out = append(out, p)
		}
		current.Reset()
	}
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			current.WriteRune(r)
		case (r == ';' || r == ',') && !quoted:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return out
}

// Find returns the first link carrying rel.
func Find(header, rel string) (Link, bool) {
	for _, l := range Parse(header) {
		if l.HasRel(rel) {
			return l, true
		}
	}
	return Link{}, false
}

// PageOf extracts the positive integer `page` query parameter of a link URL.
func PageOf(l Link) (int, bool) {
	u, err := url.Parse(l.URL)
	if err != nil {
		return 0, false
	}
	page, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil || page <= 0 {
		return 0, false
	}
	return page, true
}

// LastPage returns the page number of the first rel="last" entry of a Link
// header. ok is false when the header has no such entry or its URL has no
// page parameter.
func LastPage(header string) (page int, ok bool) {
	last, ok := Find(header, "last")
	if !ok {
		return 0, false
	}
	return PageOf(last)
}
