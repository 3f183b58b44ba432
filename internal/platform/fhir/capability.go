package fhir

import "time"

// CapabilityStatement is a minimal FHIR R4 capability statement describing
// the terminology surface this server exposes.
type CapabilityStatement struct {
	ResourceType string           `json:"resourceType"`
	Status       string           `json:"status"`
	Date         string           `json:"date"`
	Kind         string           `json:"kind"`
	FHIRVersion  string           `json:"fhirVersion"`
	Format       []string         `json:"format"`
	Software     *Software        `json:"software,omitempty"`
	Rest         []CapabilityRest `json:"rest,omitempty"`
}

type Software struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type CapabilityRest struct {
	Mode      string                 `json:"mode"`
	Resource  []CapabilityResource   `json:"resource,omitempty"`
	Operation []CapabilityOperation  `json:"operation,omitempty"`
}

type CapabilityResource struct {
	Type        string                  `json:"type"`
	Interaction []CapabilityInteraction `json:"interaction,omitempty"`
}

type CapabilityInteraction struct {
	Code string `json:"code"`
}

type CapabilityOperation struct {
	Name       string `json:"name"`
	Definition string `json:"definition,omitempty"`
}

// NewCapabilityStatement describes the server's FHIR endpoints.
func NewCapabilityStatement(name, version string) *CapabilityStatement {
	return &CapabilityStatement{
		ResourceType: "CapabilityStatement",
		Status:       "active",
		Date:         time.Now().UTC().Format(time.RFC3339),
		Kind:         "instance",
		FHIRVersion:  "4.0.1",
		Format:       []string{"application/fhir+json"},
		Software:     &Software{Name: name, Version: version},
		Rest: []CapabilityRest{
			{
				Mode: "server",
				Resource: []CapabilityResource{
					{
						Type:        "CodeSystem",
						Interaction: []CapabilityInteraction{{Code: "read"}, {Code: "search-type"}},
					},
					{
						Type:        "ConceptMap",
						Interaction: []CapabilityInteraction{{Code: "read"}},
					},
				},
				Operation: []CapabilityOperation{
					{Name: "lookup", Definition: "http://hl7.org/fhir/OperationDefinition/CodeSystem-lookup"},
					{Name: "translate", Definition: "http://hl7.org/fhir/OperationDefinition/ConceptMap-translate"},
				},
			},
		},
	}
}
