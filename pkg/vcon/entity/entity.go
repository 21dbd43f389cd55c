package entity

import "github.com/quartzjer/vcon-info/pkg/vcon"

// Entities is the full enriched view of one document.
type Entities struct {
	Metadata    Metadata       `json:"metadata"`
	Parties     []Party        `json:"parties"`
	Dialog      []Dialog       `json:"dialog"`
	Attachments []Attachment   `json:"attachments"`
	Analysis    []Analysis     `json:"analysis"`
	Extensions  map[string]any `json:"extensions"`
}

// Build derives every enriched entity from doc in one pass. The document
// is never mutated and no error is possible; malformed pieces degrade
// into placeholders that structural validation has already flagged.
func Build(doc vcon.Document) *Entities {
	parties := BuildParties(doc)
	return &Entities{
		Metadata:    BuildMetadata(doc),
		Parties:     parties,
		Dialog:      BuildDialog(doc, parties),
		Attachments: BuildAttachments(doc, parties),
		Analysis:    BuildAnalysis(doc),
		Extensions:  doc.Extensions(),
	}
}
