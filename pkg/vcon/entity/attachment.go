package entity

import "github.com/quartzjer/vcon-info/pkg/vcon"

// Attachment is the enriched view of one attachments array element.
type Attachment struct {
	Index     int       `json:"index"`
	Type      string    `json:"type"`
	Purpose   string    `json:"purpose,omitempty"`
	Start     string    `json:"start,omitempty"`
	Party     *PartyRef `json:"party,omitempty"`
	Dialog    int       `json:"dialog"`
	MediaType string    `json:"mediatype"`
	Filename  string    `json:"filename"`
	Content   *Content  `json:"content"`
}

// BuildAttachments enriches the attachments array against the built parties.
func BuildAttachments(doc vcon.Document, parties []Party) []Attachment {
	raw, _ := doc.Array("attachments")
	attachments := make([]Attachment, 0, len(raw))
	for i, a := range raw {
		obj, ok := a.(map[string]any)
		if !ok {
			continue
		}
		att := Attachment{
			Index:     i,
			Type:      "document",
			Dialog:    -1,
			MediaType: mediaTypeOf(obj, "application/octet-stream"),
			Filename:  "attachment",
			Content:   buildContent(obj),
		}
		if t, ok := obj["type"].(string); ok && t != "" {
			att.Type = t
		}
		att.Purpose, _ = obj["purpose"].(string)
		att.Start, _ = obj["start"].(string)
		if name, ok := obj["filename"].(string); ok && name != "" {
			att.Filename = name
		}
		if party, present := obj["party"]; present {
			ref := resolveParty(party, parties)
			att.Party = &ref
		}
		if idx, ok := vcon.AsIndex(obj["dialog"]); ok {
			att.Dialog = idx
		}
		attachments = append(attachments, att)
	}
	return attachments
}
