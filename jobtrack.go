// Package jobtrack turns scraped job-posting text into structured records.
// Postings are normalized, sent to a structured-completion service that
// returns a fixed schema of fields, and persisted once per posting.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, openai/).
package jobtrack
