package utils

import (
	"strings"

	ua "github.com/mileusna/useragent"
)

// ClientInfo is the coarse user agent breakdown attached to request logs.
type ClientInfo struct {
	Browser string
	OS      string
	Device  string
}

// ParseUserAgent extracts browser, OS and device class from a User-Agent header
func ParseUserAgent(userAgent string) ClientInfo {
	info := ClientInfo{Browser: "unknown", OS: "unknown", Device: "desktop"}
	if userAgent == "" {
		return info
	}

	parsed := ua.Parse(userAgent)
	if name := strings.TrimSpace(parsed.Name); name != "" {
		info.Browser = name
	}
	if os := strings.TrimSpace(parsed.OS); os != "" {
		info.OS = os
	}

	switch {
	case parsed.Bot:
		info.Device = "bot"
	case parsed.Tablet:
		info.Device = "tablet"
	case parsed.Mobile:
		info.Device = "mobile"
	}
	return info
}
