package tcf

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/prebid/go-gdpr/api"
	"github.com/prebid/go-gdpr/vendorconsent"
	tcf2 "github.com/prebid/go-gdpr/vendorconsent/tcf2"

	"github.com/nagug/TCFProcessor/errortypes"
)

// ParseRecord decodes and validates a consent string, returning the typed
// ConsentRecord. Empty input short-circuits before the decoder is invoked.
// All decode failures come back as *errortypes.EmptyConsent or
// *errortypes.MalformedConsent.
func ParseRecord(consent string) (*ConsentRecord, error) {
	if consent == "" {
		return nil, &errortypes.EmptyConsent{Message: "consent string is empty"}
	}

	parsed, err := vendorconsent.ParseString(consent)
	if err != nil {
		return nil, &errortypes.MalformedConsent{Consent: consent, Cause: err}
	}

	if err := validateVersions(parsed); err != nil {
		return nil, &errortypes.MalformedConsent{Consent: consent, Cause: err}
	}

	record := &ConsentRecord{
		EncodingVersion:           parsed.Version(),
		Created:                   parsed.Created(),
		LastUpdated:               parsed.LastUpdated(),
		CmpID:                     parsed.CmpID(),
		CmpVersion:                parsed.CmpVersion(),
		ConsentScreen:             parsed.ConsentScreen(),
		ConsentLanguage:           parsed.ConsentLanguage(),
		VendorListVersion:         parsed.VendorListVersion(),
		PolicyVersion:             parsed.TCFPolicyVersion(),
		consentedVendors:          make(map[uint16]bool),
		legitimateInterestVendors: make(map[uint16]bool),
	}

	for id := uint16(1); id <= parsed.MaxVendorID() && id > 0; id++ {
		if parsed.VendorConsent(id) {
			record.consentedVendors[id] = true
			record.consentedOrder = append(record.consentedOrder, id)
		}
	}

	if cm, ok := parsed.(tcf2.ConsentMetadata); ok {
		record.PurposeOneTreatment = cm.PurposeOneTreatment()

		for id := uint16(1); id <= cm.VendorLegitInterestMaxID() && id > 0; id++ {
			if cm.VendorLegitInterest(id) {
				record.legitimateInterestVendors[id] = true
				record.liOrder = append(record.liOrder, id)
			}
		}

		applySupplementaryHeader(record, consent)
	}

	return record, nil
}

// validateVersions ensures that certain version fields in the consent string
// contain valid values. An error is returned if at least one of them is invalid.
func validateVersions(pc api.VendorConsents) error {
	version := pc.Version()
	if version != 1 && version != 2 {
		return fmt.Errorf("invalid encoding format version: %d", version)
	}
	policyVersion := pc.TCFPolicyVersion()
	if policyVersion > 4 {
		return fmt.Errorf("invalid TCF policy version: %d", policyVersion)
	}
	return nil
}

// Header fields the decoder does not surface, at their TCF v2 core segment
// bit positions.
const (
	isServiceSpecificBit    = 138
	useNonStandardStacksBit = 139
	publisherCCFirstBit     = 201
	publisherCCSecondBit    = 207
)

// applySupplementaryHeader reads the publisher country code and the
// service-specific / non-standard-stacks flags straight from the core
// segment bits. A successfully parsed v2 core segment is at least 29 bytes,
// which covers every bit read here.
func applySupplementaryHeader(record *ConsentRecord, consent string) {
	core := consent
	if i := strings.IndexByte(consent, '.'); i != -1 {
		core = consent[:i]
	}

	data, err := base64.RawURLEncoding.DecodeString(core)
	if err != nil || len(data) < 27 {
		return
	}

	record.IsServiceSpecific = isSet(data, isServiceSpecificBit)
	record.UseNonStandardStacks = isSet(data, useNonStandardStacksBit)

	// Each letter is stored as 6 bits, with A=0 and Z=25.
	record.PublisherCC = string([]byte{
		parseByte6(data, publisherCCFirstBit) + 65,
		parseByte6(data, publisherCCSecondBit) + 65,
	})
}

// isSet returns true if the bitIndex'th bit in data is a 1.
func isSet(data []byte, bitIndex uint) bool {
	return data[bitIndex/8]&(0x80>>(bitIndex%8)) != 0
}

// parseByte6 parses 6 bits of data from the data array, starting at the
// given index.
func parseByte6(data []byte, bitStartIndex uint) byte {
	startByte := bitStartIndex / 8
	bitStartOffset := bitStartIndex % 8
	if bitStartOffset <= 2 {
		return (data[startByte] >> (2 - bitStartOffset)) & 0x3f
	}

	leftBits := (data[startByte] << (bitStartOffset - 2)) & 0x3f
	rightBits := data[startByte+1] >> (10 - bitStartOffset)
	return leftBits | rightBits
}
