package record

import (
	"strings"
)

// Supported DNS record types for pool entries and live lookups.
const (
	TypeCNAME = "CNAME"
	TypeA     = "A"
	TypeAAAA  = "AAAA"
)

// LookupOrder is the type priority used when resolving the live record.
var LookupOrder = []string{TypeCNAME, TypeA, TypeAAAA}

// MinTTL asks the provider for the shortest TTL it supports.
const MinTTL = 1

// PoolEntry is one candidate DNS target.
type PoolEntry struct {
	Type    string
	Content string
	Proxied bool
}

func (p PoolEntry) String() string {
	return p.Type + " " + p.Content
}

// Matches reports whether the entry points at the given type and content.
// The type comparison is case-insensitive.
func (p PoolEntry) Matches(recordType, content string) bool {
	return strings.ToUpper(p.Type) == strings.ToUpper(recordType) && p.Content == content
}

// Live is a DNS record as currently published by the provider.
type Live struct {
	ID      string
	Type    string
	Content string
}

func (l Live) String() string {
	return l.Type + " " + l.Content
}

// Update is a request to rewrite a live record in place.
type Update struct {
	RecordID string
	Type     string
	Name     string
	Content  string
	Proxied  bool
	TTL      int
}

// CanonicalName derives the fully-qualified name for a domain/subdomain
// pair. Leading and trailing dots are ignored.
func CanonicalName(domain, subdomain string) string {
	domain = trimDots(domain)
	subdomain = trimDots(subdomain)

	switch {
	case subdomain == "@":
		return domain
	case strings.HasSuffix(subdomain, "."+domain):
		return subdomain
	default:
		return subdomain + "." + domain
	}
}

func trimDots(s string) string {
	return strings.Trim(s, ".")
}
