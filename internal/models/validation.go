package models

// ValidationError tags the single input problem currently blocking submission.
// The zero value means no error.
type ValidationError string

const (
	ValidationNone         ValidationError = ""
	ValidationUnsupported  ValidationError = "unsupported_type"
	ValidationOversized    ValidationError = "oversized_file"
	ValidationEmptyRole    ValidationError = "empty_role"
	ValidationRoleTooShort ValidationError = "role_too_short"
	ValidationRoleInvalid  ValidationError = "role_invalid_chars"
	ValidationMissingFile  ValidationError = "missing_file"
	ValidationMissingRole  ValidationError = "missing_role"
)

var validationMessages = map[ValidationError]string{
	ValidationUnsupported:  "Unsupported file type. Please upload one of the following: .pdf, .doc, .docx, .txt.",
	ValidationOversized:    "File size exceeds 5MB. Please upload a smaller file.",
	ValidationEmptyRole:    "Target role cannot be empty.",
	ValidationRoleTooShort: "Target role must be at least 3 characters long.",
	ValidationRoleInvalid:  "Target role contains invalid characters. Only letters, numbers, spaces, and (., - / () &) are allowed.",
	ValidationMissingFile:  "Please upload your resume.",
	ValidationMissingRole:  "Please enter a target role.",
}

func (v ValidationError) IsNone() bool {
	return v == ValidationNone
}

// Message returns the text shown inline next to the form.
func (v ValidationError) Message() string {
	return validationMessages[v]
}

func (v ValidationError) Error() string {
	return v.Message()
}
