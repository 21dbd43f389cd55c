package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/quartzjer/vcon-info/pkg/vcon"
)

// RedactedInfo summarizes a redacted relationship descriptor.
type RedactedInfo struct {
	UUID string `json:"uuid,omitempty"`
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}

// AppendedInfo summarizes an appended relationship descriptor.
type AppendedInfo struct {
	UUID string `json:"uuid,omitempty"`
	URL  string `json:"url,omitempty"`
}

// GroupInfo summarizes a group relationship descriptor.
type GroupInfo struct {
	Count int      `json:"count"`
	UUIDs []string `json:"uuids"`
}

// Metadata is the document-level summary: identity, timestamps, and which
// relationship flavor the vCon is (standard, redacted, appended, group).
type Metadata struct {
	Version     string        `json:"version"`
	UUID        string        `json:"uuid"`
	UUIDVersion int           `json:"uuid_version,omitempty"`
	UUIDTime    string        `json:"uuid_time,omitempty"`
	CreatedAt   string        `json:"created_at,omitempty"`
	UpdatedAt   string        `json:"updated_at,omitempty"`
	Subject     string        `json:"subject,omitempty"`
	MustSupport []string      `json:"must_support,omitempty"`
	Type        string        `json:"type"`
	Redacted    *RedactedInfo `json:"redacted,omitempty"`
	Appended    *AppendedInfo `json:"appended,omitempty"`
	Group       *GroupInfo    `json:"group,omitempty"`
}

// BuildMetadata extracts the document-level summary.
func BuildMetadata(doc vcon.Document) Metadata {
	md := Metadata{Version: "unknown", UUID: "not specified", Type: "standard"}
	if v, ok := doc.String("vcon"); ok {
		md.Version = v
	}
	if id, ok := doc.String("uuid"); ok && id != "" {
		md.UUID = id
		if u, err := uuid.Parse(id); err == nil {
			md.UUIDVersion = int(u.Version())
			// Versions 1, 6, and 7 embed a timestamp.
			switch u.Version() {
			case 1, 6, 7:
				sec, nsec := u.Time().UnixTime()
				md.UUIDTime = time.Unix(sec, nsec).UTC().Format(time.RFC3339)
			}
		}
	}
	md.CreatedAt, _ = doc.String("created_at")
	md.UpdatedAt, _ = doc.String("updated_at")
	md.Subject, _ = doc.String("subject")

	if raw, ok := doc.Array("must_support"); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				md.MustSupport = append(md.MustSupport, s)
			}
		}
	}

	if redacted, ok := doc.Object("redacted"); ok {
		md.Type = "redacted"
		info := &RedactedInfo{}
		info.UUID, _ = redacted["uuid"].(string)
		info.Type, _ = redacted["type"].(string)
		info.URL, _ = redacted["url"].(string)
		md.Redacted = info
	} else if appended, ok := doc.Object("appended"); ok {
		md.Type = "appended"
		info := &AppendedInfo{}
		info.UUID, _ = appended["uuid"].(string)
		info.URL, _ = appended["url"].(string)
		md.Appended = info
	} else if group, ok := doc.Array("group"); ok {
		md.Type = "group"
		info := &GroupInfo{Count: len(group), UUIDs: []string{}}
		for _, g := range group {
			if obj, ok := g.(map[string]any); ok {
				if id, ok := obj["uuid"].(string); ok {
					info.UUIDs = append(info.UUIDs, id)
				}
			}
		}
		md.Group = info
	}
	return md
}
