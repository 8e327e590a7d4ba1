package asset

import "strings"

// MediaType is the provider-reported content category, lowercased.
type MediaType string

// Values follow the Internet Archive vocabulary ("movies", not "video");
// the filter allowlist is configurable for providers with other naming.
const (
	MediaVideo MediaType = "movies"
	MediaImage MediaType = "image"
)

// License is the normalized usage-rights class of a candidate.
type License string

const (
	LicensePublicDomain License = "public-domain"
	LicenseUnknown      License = "unknown"
	LicenseRestricted   License = "restricted"
)

// Candidate is one raw search result from an archival media provider.
// Fields mirror what the provider returns; absence is represented by the
// zero value and is treated as "unknown" downstream, never as a pass.
type Candidate struct {
	Provider    string
	Identifier  string
	Title       string
	Description string
	MediaType   MediaType
	LicenseURL  string
	Collection  []string
	Subject     []string
	Creator     []string
	Downloads   int64
	Date        string
	// Locator is the URL the media tooling reads the source from.
	Locator string
}

// NormalizeMediaType lowercases and trims a raw mediatype value.
func NormalizeMediaType(raw string) MediaType {
	return MediaType(strings.ToLower(strings.TrimSpace(raw)))
}

var publicDomainMarkers = []string{
	"publicdomain",
	"/public-domain",
	"creativecommons.org/publicdomain",
	"cc0",
}

// NormalizeLicense maps a raw license URL to the normalized license class.
// An absent license is unknown, not restricted: several large public
// collections omit the field entirely.
func NormalizeLicense(rawURL string) License {
	raw := strings.ToLower(strings.TrimSpace(rawURL))
	if raw == "" {
		return LicenseUnknown
	}
	for _, marker := range publicDomainMarkers {
		if strings.Contains(raw, marker) {
			return LicensePublicDomain
		}
	}
	return LicenseRestricted
}

// License returns the normalized license class for the candidate.
func (c Candidate) License() License {
	return NormalizeLicense(c.LicenseURL)
}
