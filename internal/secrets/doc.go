// Package secrets provides secret detection and redaction.
//
// Model responses and agent transcripts pass through scrubbing before they
// reach logs or the run history store. Findings keep rule IDs and counts
// for reporting while the matched content itself is never retained.
package secrets
