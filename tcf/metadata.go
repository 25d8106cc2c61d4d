package tcf

import (
	"strings"
	"time"
)

// Metadata returns the record's scalar header fields as a mapping that
// serializes cleanly to JSON. Timestamps are normalized to UTC in RFC 3339
// form; textual fields are rendered best-effort, with invalid byte sequences
// replaced rather than propagated.
func (p *Processor) Metadata() map[string]interface{} {
	r := p.record
	return map[string]interface{}{
		"tcf_version":             r.EncodingVersion,
		"created":                 formatTimestamp(r.Created),
		"last_updated":            formatTimestamp(r.LastUpdated),
		"cmp_id":                  r.CmpID,
		"cmp_version":             r.CmpVersion,
		"consent_screen":          r.ConsentScreen,
		"vendor_list_version":     r.VendorListVersion,
		"tcf_policy_version":      r.PolicyVersion,
		"consent_language":        safeText(r.ConsentLanguage),
		"publisher_cc":            safeText(r.PublisherCC),
		"is_service_specific":     r.IsServiceSpecific,
		"purpose_one_treatment":   r.PurposeOneTreatment,
		"use_non_standard_stacks": r.UseNonStandardStacks,
	}
}

// formatTimestamp renders a timestamp in UTC RFC 3339 form. Timestamps that
// cannot be represented that way (RFC 3339 requires a four-digit year) fall
// back to Go's raw rendering.
func formatTimestamp(t time.Time) string {
	utc := t.UTC()
	if year := utc.Year(); year < 0 || year > 9999 {
		return utc.String()
	}
	return utc.Format(time.RFC3339Nano)
}

// safeText replaces invalid UTF-8 sequences with the replacement character.
func safeText(s string) string {
	return strings.ToValidUTF8(s, "�")
}
