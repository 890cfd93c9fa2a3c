// Package lookup implements the barcode search flow and its result modal.
package lookup

import (
	"net/http"
)

// Classification is the UI-facing outcome of a barcode lookup.
type Classification string

const (
	AlreadyExists   Classification = "ALREADY_EXISTS"
	Created         Classification = "CREATED"
	NotFound        Classification = "NOT_FOUND"
	ValidationError Classification = "VALIDATION_ERROR"
	Unexpected      Classification = "UNEXPECTED"
)

// Severity is the alert style of the modal.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Outcome is how a classification is presented.
type Outcome struct {
	Classification Classification
	Severity       Severity
	Message        string
	// OpensModal is false only for validation errors, which go to the field reporter.
	OpensModal bool
	// ShowsDetail is false when the modal shows the not-found illustration instead of fields.
	ShowsDetail bool
}

// Classify maps a lookup response status to its outcome.
func Classify(status int) Outcome {
	switch status {
	case http.StatusOK:
		return Outcome{AlreadyExists, SeverityInfo, "Product already exists!", true, true}
	case http.StatusCreated:
		return Outcome{Created, SeveritySuccess, "Product created!", true, true}
	case http.StatusNotFound:
		return Outcome{NotFound, SeverityError, "Product not found!", true, false}
	case http.StatusBadRequest:
		return Outcome{ValidationError, SeverityError, "Invalid barcode", false, false}
	}
	return Outcome{Unexpected, SeverityError, "Unexpected response from price service", true, false}
}
