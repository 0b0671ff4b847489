package hub

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// ValidationError represents a validation failure with context.
type ValidationError struct {
	Field   string // Field path (e.g., "author[1]", "extra.DOI")
	Code    string // Error code (e.g., "required", "invalid_format")
	Message string // Human-readable message
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains all validation errors for a record.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError // Non-fatal issues that still skew the statistics
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Error returns a combined error message, or nil if valid.
func (r *ValidationResult) Error() error {
	if r.IsValid() {
		return nil
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// ValidationOptions configures validation behavior.
type ValidationOptions struct {
	// RequireTitle requires a non-empty title
	RequireTitle bool
	// RequireYear requires a publication year
	RequireYear bool
	// RequireContributor requires at least one author, editor or translator
	RequireContributor bool
	// ValidateIdentifierFormats checks DOI, ISBN and ISSN extras
	ValidateIdentifierFormats bool
	// ValidateYear warns when the publication year is not four digits
	ValidateYear bool
}

// DefaultValidationOptions returns standard validation options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		RequireTitle:              true,
		ValidateIdentifierFormats: true,
		ValidateYear:              true,
	}
}

// StrictValidationOptions returns strict validation for curated collections.
func StrictValidationOptions() ValidationOptions {
	return ValidationOptions{
		RequireTitle:              true,
		RequireYear:               true,
		RequireContributor:        true,
		ValidateIdentifierFormats: true,
		ValidateYear:              true,
	}
}

var (
	yearPattern = regexp.MustCompile(`^\d{4}$`)
	doiPattern  = regexp.MustCompile(`^10\.\d{4,}(?:\.\d+)*/\S+$`)
	issnPattern = regexp.MustCompile(`^\d{4}-\d{3}[\dX]$`)
)

// Validate validates a record according to the given options.
func Validate(record *Record, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{}
	if record == nil {
		result.Errors = append(result.Errors, ValidationError{Field: "record", Code: "required", Message: "record is nil"})
		return result
	}

	if strings.TrimSpace(record.ItemType) == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "itemType",
			Code:    "required",
			Message: "item type is required",
		})
	}

	if opts.RequireTitle && strings.TrimSpace(record.Title) == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "title",
			Code:    "required",
			Message: "title is required",
		})
	}

	year := strings.TrimSpace(record.PublicationYear)
	switch {
	case year == "" && opts.RequireYear:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "publicationYear",
			Code:    "required",
			Message: "publication year is required",
		})
	case year != "" && opts.ValidateYear && !yearPattern.MatchString(year):
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "publicationYear",
			Code:    "invalid_format",
			Message: fmt.Sprintf("%q is not a four-digit year and sorts out of place on the timeline", year),
		})
	}

	hasContributor := false
	for _, role := range Roles {
		raw := record.Contributors(role)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		hasContributor = true
		for i, segment := range strings.Split(raw, ";") {
			if strings.TrimSpace(segment) == "" {
				result.Warnings = append(result.Warnings, ValidationError{
					Field:   fmt.Sprintf("%s[%d]", role, i),
					Code:    "empty_name",
					Message: "empty name between separators",
				})
			}
		}
	}
	if opts.RequireContributor && !hasContributor {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "contributors",
			Code:    "required",
			Message: "at least one contributor is required",
		})
	}

	if opts.ValidateIdentifierFormats {
		result.Errors = append(result.Errors, validateIdentifiers(record)...)
	}

	return result
}

func validateIdentifiers(record *Record) []ValidationError {
	var errs []ValidationError
	if doi := GetExtraString(record, "DOI"); doi != "" && !doiPattern.MatchString(NormalizeDOI(doi)) {
		errs = append(errs, ValidationError{Field: "extra.DOI", Code: "invalid_format", Message: "invalid DOI format"})
	}
	if isbn := GetExtraString(record, "ISBN"); isbn != "" {
		// Zotero joins several ISBNs with spaces
		for _, v := range strings.Fields(isbn) {
			if msg := checkISBN(v); msg != "" {
				errs = append(errs, ValidationError{Field: "extra.ISBN", Code: "invalid_format", Message: msg})
			}
		}
	}
	if issn := GetExtraString(record, "ISSN"); issn != "" {
		for _, v := range strings.Split(issn, ",") {
			if msg := checkISSN(strings.TrimSpace(v)); msg != "" {
				errs = append(errs, ValidationError{Field: "extra.ISSN", Code: "invalid_format", Message: msg})
			}
		}
	}
	return errs
}

// NormalizeDOI strips resolver prefixes from a DOI.
func NormalizeDOI(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:", "DOI:"} {
		s = strings.TrimPrefix(s, prefix)
	}
	return s
}

func checkISBN(s string) string {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "ISBN:"), "isbn:")
	s = strings.ReplaceAll(s, "-", "")

	switch len(s) {
	case 10:
		sum := 0
		for i := 0; i < 9; i++ {
			d, err := strconv.Atoi(string(s[i]))
			if err != nil {
				return "ISBN-10 contains invalid characters"
			}
			sum += d * (10 - i)
		}
		check := strings.ToUpper(string(s[9]))
		if check == "X" {
			sum += 10
		} else if d, err := strconv.Atoi(check); err == nil {
			sum += d
		} else {
			return "ISBN-10 check digit invalid"
		}
		if sum%11 != 0 {
			return "ISBN-10 checksum invalid"
		}
	case 13:
		sum := 0
		for i := 0; i < 13; i++ {
			d, err := strconv.Atoi(string(s[i]))
			if err != nil {
				return "ISBN-13 contains invalid characters"
			}
			if i%2 == 0 {
				sum += d
			} else {
				sum += d * 3
			}
		}
		if sum%10 != 0 {
			return "ISBN-13 checksum invalid"
		}
	default:
		return "ISBN must be 10 or 13 digits"
	}
	return ""
}

func checkISSN(s string) string {
	s = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(s, "ISSN:")))
	if !issnPattern.MatchString(s) {
		return "ISSN must be in format XXXX-XXXX"
	}
	digits := strings.ReplaceAll(s, "-", "")
	sum := 0
	for i := 0; i < 7; i++ {
		d, _ := strconv.Atoi(string(digits[i]))
		sum += d * (8 - i)
	}
	if digits[7] == 'X' {
		sum += 10
	} else {
		d, _ := strconv.Atoi(string(digits[7]))
		sum += d
	}
	if sum%11 != 0 {
		return "ISSN checksum invalid"
	}
	return ""
}

// ValidateExtrasTypes checks that values in extras have consistent types.
// Call this when aggregating records from multiple sources.
func ValidateExtrasTypes(records []*Record) map[string][]string {
	// Track types seen for each key
	keyTypes := make(map[string]map[string]bool)

	for _, record := range records {
		if record == nil || record.Extra == nil {
			continue
		}
		for key, value := range record.Extra.Fields {
			if keyTypes[key] == nil {
				keyTypes[key] = make(map[string]bool)
			}
			keyTypes[key][ValueType(value)] = true
		}
	}

	// Find keys with inconsistent types
	inconsistent := make(map[string][]string)
	for key, types := range keyTypes {
		if len(types) > 1 {
			typeList := make([]string, 0, len(types))
			for t := range types {
				typeList = append(typeList, t)
			}
			sort.Strings(typeList)
			inconsistent[key] = typeList
		}
	}

	return inconsistent
}

// ValueType names the kind of an extra value.
func ValueType(v *structpb.Value) string {
	switch v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return "null"
	case *structpb.Value_NumberValue:
		return "number"
	case *structpb.Value_StringValue:
		return "string"
	case *structpb.Value_BoolValue:
		return "bool"
	case *structpb.Value_StructValue:
		return "object"
	case *structpb.Value_ListValue:
		return "array"
	default:
		return "unknown"
	}
}
