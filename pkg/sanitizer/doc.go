// Package sanitizer normalizes user input before it reaches a form.
//
// String helpers (Trim, NormalizeWhitespace, StripHTML, NormalizeEmail...) are
// plain functions that compose with Apply and Compose. ForFieldType picks a
// policy per input type: emails are trimmed and lowercased, text has tags
// stripped with bluemonday and whitespace collapsed, passwords are never
// modified.
//
//	clean := sanitizer.Values(posted, map[string]string{"email": "email", "bio": "textarea"})
package sanitizer
