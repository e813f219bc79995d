package utils

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/ruei-yu/activity-checkin-points/models"
)

// EncodeEvent packs a descriptor into an opaque, URL-query-safe token:
// compact JSON, then percent-encoding. Empty title and date fall back to
// their defaults before encoding so a token is always self-contained.
func EncodeEvent(d models.EventDescriptor) string {
	if d.Title == "" {
		d.Title = models.DefaultEventTitle
	}
	if d.Date == "" {
		d.Date = time.Now().Format(models.DateLayout)
	}
	b, err := json.Marshal(d)
	if err != nil {
		// Marshal of a plain string struct cannot fail; keep the codec total anyway.
		return ""
	}
	return url.QueryEscape(string(b))
}

// DecodeEvent unpacks a token back into a descriptor. The token travels
// through an untrusted channel (a scanned link), so decoding never fails:
// empty, unparsable, or partial tokens fall back field-by-field to defaults.
// Unknown fields in the payload are ignored.
func DecodeEvent(token string) models.EventDescriptor {
	var d models.EventDescriptor
	if token != "" {
		if raw, err := url.QueryUnescape(token); err == nil {
			_ = json.Unmarshal([]byte(raw), &d)
		}
	}
	if d.Title == "" {
		d.Title = models.DefaultEventTitle
	}
	if d.Date == "" {
		d.Date = time.Now().Format(models.DateLayout)
	}
	return d
}
