// Package lvef computes left ventricular ejection fraction from end-diastolic
// and end-systolic volumes and classifies the result.
package lvef

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidInput is returned for non-numeric or non-finite volumes,
	// a non-positive EDV or a negative ESV.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRangeViolation is returned when ESV is not strictly below EDV.
	ErrRangeViolation = errors.New("range violation")
)

// ValidationError carries a user-facing message for a rejected input pair.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Kind }

func invalidInput() error {
	return &ValidationError{Kind: ErrInvalidInput, Message: "Please enter valid values"}
}

func rangeViolation() error {
	return &ValidationError{Kind: ErrRangeViolation, Message: "ESV must be less than EDV"}
}

// Input is an end-diastolic / end-systolic volume pair in millilitres.
type Input struct {
	EDV float64 `json:"edv"`
	ESV float64 `json:"esv"`
}

// Validate reports whether the pair can be used to compute an ejection fraction.
func (in Input) Validate() error {
	if !finite(in.EDV) || !finite(in.ESV) || in.EDV <= 0 || in.ESV < 0 {
		return invalidInput()
	}
	if in.ESV >= in.EDV {
		return rangeViolation()
	}
	return nil
}

// Result is a computed ejection fraction with its classification.
type Result struct {
	Percentage float64  `json:"percentage"`
	Category   Category `json:"category"`
	Color      string   `json:"color"`
}

// Summary renders the result line shown under the calculator.
func (r Result) Summary() string {
	return fmt.Sprintf("LVEF: %s%% — %s", FormatPercentage(r.Percentage), r.Category)
}

// FormatPercentage formats a percentage to one decimal place.
func FormatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

// Compute returns the ejection fraction for the given volumes.
func Compute(edv, esv float64) (Result, error) {
	in := Input{EDV: edv, ESV: esv}
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	percentage := (edv - esv) / edv * 100
	category, color := Classify(percentage)
	return Result{
		Percentage: percentage,
		Category:   category,
		Color:      color,
	}, nil
}

// ParseInput parses the two volume text fields of the calculator form.
// Empty or unparsable text is an invalid input.
func ParseInput(edvText, esvText string) (Input, error) {
	edv, err := strconv.ParseFloat(strings.TrimSpace(edvText), 64)
	if err != nil {
		return Input{}, invalidInput()
	}
	esv, err := strconv.ParseFloat(strings.TrimSpace(esvText), 64)
	if err != nil {
		return Input{}, invalidInput()
	}
	return Input{EDV: edv, ESV: esv}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
