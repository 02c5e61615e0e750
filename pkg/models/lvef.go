package models

import (
	"encoding/json"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// Volume is a calculator field given as a JSON number or numeric string.
// Any other JSON value is kept as raw text (null as empty) so the
// calculator rejects it with its own message.
type Volume struct {
	text string
}

// NewVolume returns the volume for a number
func NewVolume(v float64) Volume {
	return Volume{text: strconv.FormatFloat(v, 'g', -1, 64)}
}

// VolumeText returns the volume for text typed into a form
func VolumeText(s string) Volume {
	return Volume{text: s}
}

func (v Volume) String() string { return v.text }

// Schema accepts any JSON value
func (Volume) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{Description: "Volume in mL as a number or numeric string"}
}

func (v *Volume) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.text = s
		return nil
	}
	v.text = string(data)
	return nil
}

// ComputeLVEFRequest represents a request to compute an ejection fraction
type ComputeLVEFRequest struct {
	Body struct {
		EDV Volume `json:"edv" required:"true" doc:"End-diastolic volume in mL"`
		ESV Volume `json:"esv" required:"true" doc:"End-systolic volume in mL"`
	}
}

// ComputeLVEFResponseBody is the body of the compute response
type ComputeLVEFResponseBody struct {
	Percentage float64 `json:"percentage" doc:"Ejection fraction percentage"`
	Category   string  `json:"category" enum:"Hyperdynamic,Normal,Mild Dysfunction,Moderate Dysfunction,Severe Dysfunction" doc:"Clinical category"`
	Color      string  `json:"color" doc:"Display color of the category"`
	Summary    string  `json:"summary" doc:"Formatted result line"`
}

// ComputeLVEFResponse represents a computed ejection fraction
type ComputeLVEFResponse struct {
	Body ComputeLVEFResponseBody
}

// LVEFBand is one row of the classification table
type LVEFBand struct {
	Category  string  `json:"category" doc:"Clinical category"`
	Color     string  `json:"color" doc:"Display color"`
	Lower     float64 `json:"lower" doc:"Lower bound of the band in percent"`
	Inclusive bool    `json:"inclusive" doc:"Whether the lower bound belongs to the band"`
	Range     string  `json:"range" doc:"Human-readable range"`
}

// ListLVEFCategoriesResponse represents the classification table
type ListLVEFCategoriesResponse struct {
	Body struct {
		Bands []LVEFBand `json:"bands" doc:"Bands ordered from highest to lowest"`
	}
}
