package fhir

// Parameters is the FHIR Parameters resource used as input and output of
// operations such as ConceptMap/$translate and CodeSystem/$lookup.
type Parameters struct {
	ResourceType string      `json:"resourceType"`
	Parameter    []Parameter `json:"parameter,omitempty"`
}

type Parameter struct {
	Name         string      `json:"name"`
	ValueUri     string      `json:"valueUri,omitempty"`
	ValueCode    string      `json:"valueCode,omitempty"`
	ValueString  string      `json:"valueString,omitempty"`
	ValueBoolean *bool       `json:"valueBoolean,omitempty"`
	ValueDecimal *float64    `json:"valueDecimal,omitempty"`
	ValueCoding  *Coding     `json:"valueCoding,omitempty"`
	Part         []Parameter `json:"part,omitempty"`
}

// NewParameters creates an empty Parameters resource.
func NewParameters() *Parameters {
	return &Parameters{ResourceType: "Parameters"}
}

// Add appends a parameter and returns the resource for chaining.
func (p *Parameters) Add(param Parameter) *Parameters {
	p.Parameter = append(p.Parameter, param)
	return p
}

// String returns the first valueString or valueCode or valueUri for a named
// parameter, or empty when absent.
func (p *Parameters) String(name string) string {
	for _, param := range p.Parameter {
		if param.Name != name {
			continue
		}
		if param.ValueString != "" {
			return param.ValueString
		}
		if param.ValueCode != "" {
			return param.ValueCode
		}
		return param.ValueUri
	}
	return ""
}

// BoolParam reports the named boolean parameter and whether it was present.
func (p *Parameters) BoolParam(name string) (bool, bool) {
	for _, param := range p.Parameter {
		if param.Name == name && param.ValueBoolean != nil {
			return *param.ValueBoolean, true
		}
	}
	return false, false
}
