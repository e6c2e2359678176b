package scan

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidPayload is returned for text that names no module.
var ErrInvalidPayload = errors.New("unrecognised scan payload")

const (
	payloadScheme = "milboard"
	payloadHost   = "module"
	maxPayloadLen = 512
)

var moduleIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Payload is the text encoded into a module's QR code.
func Payload(moduleID string) string {
	return payloadScheme + "://" + payloadHost + "/" + moduleID
}

// DeepLink is the in-app path for a module.
func DeepLink(moduleID string) string {
	return "/modules/" + moduleID
}

// ParsePayload extracts a module id from a scanned payload. Accepted forms:
//
//	milboard://module/<id>
//	http(s)://<host>/modules/<id>
//	<id>
func ParsePayload(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxPayloadLen {
		return "", ErrInvalidPayload
	}

	if !strings.Contains(raw, "://") {
		return checkID(raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidPayload
	}

	switch strings.ToLower(u.Scheme) {
	case payloadScheme:
		if u.Host != payloadHost {
			return "", ErrInvalidPayload
		}
		return checkID(strings.Trim(u.Path, "/"))
	case "http", "https":
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) < 2 || parts[len(parts)-2] != "modules" {
			return "", ErrInvalidPayload
		}
		return checkID(parts[len(parts)-1])
	default:
		return "", ErrInvalidPayload
	}
}

func checkID(id string) (string, error) {
	if !moduleIDPattern.MatchString(id) {
		return "", ErrInvalidPayload
	}
	return id, nil
}
