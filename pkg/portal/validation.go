package portal

import (
	"net/http"

	"github.com/pebble-dev/devportal/pkg/categories"
)

var requiredSubmissionFields = []string{"title", "description", "category", "type", "release_notes"}
var requiredSubmissionFiles = []string{"pbw", "large_icon"}

// allowedPatchFields is the full set of app fields an update may touch.
// Every one of them is string-typed on the wire, visible included.
var allowedPatchFields = map[string]bool{
	"title":       true,
	"description": true,
	"category":    true,
	"website":     true,
	"source":      true,
	"visible":     true,
}

// ValidateSubmission checks the submission form shape before anything is
// parsed or uploaded, so a bad request never causes a partial upload.
func ValidateSubmission(form *SubmissionForm) (bool, string, string) {
	for _, field := range requiredSubmissionFields {
		if form.Field(field) == "" {
			return false, "Missing required field: " + field, "missing.field." + field
		}
	}

	for _, file := range requiredSubmissionFiles {
		if !form.HasFile(file) {
			return false, "Missing required field: " + file, "missing.field." + file
		}
	}

	if !categories.IsValid(form.Field("category")) {
		return false, "Invalid value for field: category", "invalid.field.category"
	}

	return true, "", ""
}

// ValidatePatch checks that every field in an update request is allow-listed
// and carries the expected scalar type. Enum literal checks happen later on
// the update path, after ownership has been established.
func ValidatePatch(patch map[string]interface{}) *Error {
	for name, value := range patch {
		if !allowedPatchFields[name] {
			return NewError(http.StatusBadRequest, "Illegal field: "+name, "illegal.field")
		}

		if _, ok := value.(string); !ok {
			return NewError(http.StatusBadRequest, "Invalid value for field '"+name+"'", "invalid.field."+name)
		}
	}

	return nil
}
