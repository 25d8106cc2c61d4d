package tcf

import (
	"time"
)

// ConsentRecord is the decoded, immutable representation of a consent
// string: the scalar header fields plus the two per-vendor bitmaps. It is
// built once by the decoder adapter and never mutated; absence of a vendor
// from a bitmap is equivalent to false.
//
// TCF v1 strings carry no legitimate-interest section and none of the
// TCF2-only header fields, so those decode to zero values.
type ConsentRecord struct {
	EncodingVersion      uint8
	Created              time.Time
	LastUpdated          time.Time
	CmpID                uint16
	CmpVersion           uint16
	ConsentScreen        uint8
	ConsentLanguage      string
	VendorListVersion    uint16
	PolicyVersion        uint8
	PublisherCC          string
	IsServiceSpecific    bool
	PurposeOneTreatment  bool
	UseNonStandardStacks bool

	consentedVendors          map[uint16]bool
	legitimateInterestVendors map[uint16]bool

	// Enumeration order for the bitmaps. The decoder inserts vendor IDs in
	// ascending order, and queries report vendors in that same order.
	consentedOrder []uint16
	liOrder        []uint16
}

// VendorConsent returns true if the record grants consent for the vendor.
func (r *ConsentRecord) VendorConsent(id uint16) bool {
	return r.consentedVendors[id]
}

// VendorLegitInterest returns true if the record establishes legitimate
// interest for the vendor.
func (r *ConsentRecord) VendorLegitInterest(id uint16) bool {
	return r.legitimateInterestVendors[id]
}

// ConsentedVendorIDs returns the IDs of all vendors with consent granted,
// in enumeration order. The returned slice is a copy.
func (r *ConsentRecord) ConsentedVendorIDs() []uint16 {
	ids := make([]uint16, len(r.consentedOrder))
	copy(ids, r.consentedOrder)
	return ids
}

// LegitimateInterestVendorIDs returns the IDs of all vendors with
// legitimate interest established, in enumeration order. The returned slice
// is a copy.
func (r *ConsentRecord) LegitimateInterestVendorIDs() []uint16 {
	ids := make([]uint16, len(r.liOrder))
	copy(ids, r.liOrder)
	return ids
}
