// Package normalize maps each vendor's raw JSON payload into a canonical
// Host. Every mapping function here is pure: no I/O, no side effects,
// deterministic given the same raw record except for the
// record_created_at/record_last_updated_at timestamps, read from the clock.
package normalize

import "strings"

// NormalizeMAC rewrites a dash-separated MAC address into colon-separated
// form (CrowdStrike reports "aa-bb-cc-dd-ee-ff"; the canonical model and
// every other source use "aa:bb:cc:dd:ee:ff").
func NormalizeMAC(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ReplaceAll(s, "-", ":")
}

// privateIPv4Prefixes are the prefixes Qualys and Tenable both classify an
// IPv4 address as private by.
var privateIPv4Prefixes = []string{"10.", "172.", "192.168."}

// IsPrivateIPv4 reports whether addr is classified as a private IPv4
// address by prefix match, matching the original normalizer's
// startswith(('10.', '172.', '192.168.')) check exactly (it does not
// validate the full 172.16.0.0/12 range; any "172." prefix counts).
func IsPrivateIPv4(addr string) bool {
	for _, p := range privateIPv4Prefixes {
		if strings.HasPrefix(addr, p) {
			return true
		}
	}
	return false
}

// IsIPv6 reports whether addr looks like an IPv6 literal (contains a colon).
func IsIPv6(addr string) bool {
	return strings.Contains(addr, ":")
}

// ClassifyPlatform buckets a free-text OS name into "Linux", "Windows", or
// "Unknown" by substring match.
func ClassifyPlatform(osName string) string {
	switch {
	case strings.Contains(osName, "Linux"):
		return "Linux"
	case strings.Contains(osName, "Windows"):
		return "Windows"
	default:
		return "Unknown"
	}
}

// ParseOSString splits Tenable's free-text "<Kernel X> on <OS name>"
// format into (osName, platform, kernelVersion). If the " on " separator
// is absent, the whole string is treated as the OS name and kernel is
// empty.
func ParseOSString(raw string) (osName, platform string, kernelVersion *string) {
	osName = raw
	var kernel *string

	if idx := strings.Index(raw, " on "); idx >= 0 {
		kernelPart := raw[:idx]
		osName = raw[idx+len(" on "):]
		if k, ok := strings.CutPrefix(kernelPart, "Kernel "); ok {
			kv := k
			kernel = &kv
		}
	}

	return osName, ClassifyPlatform(osName), kernel
}

// ParseCPE parses a CPE string of the form
// "cpe:/a:vendor:product:version[:...]" into (vendor, product, version).
// Returns ok=false if the string has fewer than 5 colon-separated segments.
func ParseCPE(cpe string) (vendor, product, version string, ok bool) {
	parts := strings.Split(cpe, ":")
	if len(parts) < 5 {
		return "", "", "", false
	}
	return parts[2], parts[3], parts[4], true
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strOrNil(s string) *string { return ptr(s) }
