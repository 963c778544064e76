package content

import (
	"strings"
	"unicode/utf8"
)

// Field length limits, matching the index column expectations.
const (
	MaxTitleLen       = 500
	MaxDescriptionLen = 2000
	MaxAuthorLen      = 200
	MaxURLLen         = 1000
)

// Validate checks a create request before anything is written.
func (in CreateInput) Validate() error {
	if err := validateTitle(in.Title); err != nil {
		return err
	}
	if err := validateContentType(in.ContentType); err != nil {
		return err
	}
	return validateOptional(in.Description, in.Author, in.URL)
}

// Validate checks the provided fields of a partial update.
func (in UpdateInput) Validate() error {
	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return err
		}
	}
	if in.ContentType != nil {
		if err := validateContentType(*in.ContentType); err != nil {
			return err
		}
	}
	description, author, url := "", "", ""
	if in.Description != nil {
		description = *in.Description
	}
	if in.Author != nil {
		author = *in.Author
	}
	if in.URL != nil {
		url = *in.URL
	}
	return validateOptional(description, author, url)
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return &ValidationError{Field: "title", Message: "too long"}
	}
	return nil
}

// validateContentType rejects values that would escape the content library
// when used as a subdirectory name.
func validateContentType(contentType string) error {
	if contentType == "" {
		return &ValidationError{Field: "content_type", Message: "must not be empty"}
	}
	for _, r := range contentType {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return &ValidationError{Field: "content_type", Message: "must be a lowercase slug"}
		}
	}
	return nil
}

func validateOptional(description, author, url string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return &ValidationError{Field: "description", Message: "too long"}
	}
	if utf8.RuneCountInString(author) > MaxAuthorLen {
		return &ValidationError{Field: "author", Message: "too long"}
	}
	if utf8.RuneCountInString(url) > MaxURLLen {
		return &ValidationError{Field: "url", Message: "too long"}
	}
	return nil
}
