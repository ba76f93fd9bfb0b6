package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Key namespaces. Each expires independently; see CacheConfig.
const (
	nsProfile  = "company:"
	nsProgress = "progress:"
	nsResearch = "yutori:research:"
	nsBrowsing = "yutori:browsing:"
	nsSearch   = "tavily:competitors:"
	nsPending  = "pending:research:"
)

// Fingerprint returns a stable hash of an adapter input (company name or
// URL), used to key expensive raw results. Hashing normalizes case and
// special characters.
func Fingerprint(input string) string {
	sum := md5.Sum([]byte(strings.ToLower(input)))
	return hex.EncodeToString(sum[:])
}

// ProfileKey keys a profile by any of its aliases (id, slug, session).
func ProfileKey(alias string) string {
	return nsProfile + alias
}

// ProgressKey keys the latest progress event for a session.
func ProgressKey(sessionID string) string {
	return nsProgress + sessionID
}

// ResearchKey keys a raw deep-research result by company name.
func ResearchKey(companyName string) string {
	return nsResearch + Fingerprint(companyName) + ":" + sanitize(companyName)
}

// BrowsingKey keys a raw deep-browsing result by target URL.
func BrowsingKey(targetURL string) string {
	clean := strings.TrimPrefix(strings.TrimPrefix(targetURL, "https://"), "http://")
	if len(clean) > 50 {
		clean = clean[:50]
	}
	return nsBrowsing + Fingerprint(targetURL) + ":" + clean
}

// SearchKey keys a raw competitor-search result by company name.
func SearchKey(companyName string) string {
	return nsSearch + Fingerprint(companyName) + ":" + sanitize(companyName)
}

// PendingKey keys the in-flight deep-research task marker for a company.
func PendingKey(companyName string) string {
	return nsPending + Fingerprint(companyName)
}

func sanitize(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
