// Package sanitizer normalizes reservation input before validation and storage.
//
// All functions are idempotent. Invalid input is passed through trimmed rather than
// rejected, so the validator downstream can report it with the right field name.
//
// Normalization includes:
//   - Guest names: collapse whitespace, trim
//   - Dates: canonical YYYY-MM-DD
//   - Times of day: canonical zero-padded HH:MM ("9:00" becomes "09:00")
//   - Feature lists: trimmed, de-duplicated, empty values removed, order kept
package sanitizer
