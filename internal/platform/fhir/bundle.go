package fhir

import "time"

// Bundle represents a FHIR Bundle resource.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	Type         string        `json:"type"`
	Timestamp    *time.Time    `json:"timestamp,omitempty"`
	Total        *int          `json:"total,omitempty"`
	Link         []BundleLink  `json:"link,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

type BundleLink struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

type BundleEntry struct {
	FullURL  string      `json:"fullUrl,omitempty"`
	Resource interface{} `json:"resource,omitempty"`
}

// NewSearchSetBundle creates a searchset bundle with a known total.
func NewSearchSetBundle(total int) *Bundle {
	now := time.Now().UTC()
	return &Bundle{
		ResourceType: "Bundle",
		Type:         "searchset",
		Timestamp:    &now,
		Total:        &total,
	}
}

// AddEntry appends a resource entry to the bundle.
func (b *Bundle) AddEntry(fullURL string, resource interface{}) {
	b.Entry = append(b.Entry, BundleEntry{FullURL: fullURL, Resource: resource})
}
