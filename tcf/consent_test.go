package tcf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagug/TCFProcessor/errortypes"
)

// TCF v2 strings built for these tests. consentFixture encodes: created and
// last updated 2023-06-15T10:30:00Z, CMP ID 28, CMP version 3, consent
// screen 1, language EN, vendor list version 28, policy version 2,
// service-specific set, publisher country DE, special feature 1 opt-in,
// purpose consent {1,3}, purpose LI transparency {2}, vendor consent
// {10,30} and vendor LI {20,30} out of a max vendor ID of 30.
// consentFixtureNoCMP is the same header with CMP ID 0 and both vendor
// sections empty.
const (
	consentFixture      = "CPtbRGQPtbRGQAcADBENAcCoAKAAAEAAAAYgAPABAAAQAeAAAIAgAA"
	consentFixtureNoCMP = "CPtbRGQPtbRGQAAADBENAcCoAKAAAEAAAAYgAPAAAAAAAeAAAAAAAA"
)

func TestParseRecord(t *testing.T) {
	record, err := ParseRecord(consentFixture)
	require.NoError(t, err)

	assert.Equal(t, uint8(2), record.EncodingVersion)
	assert.Equal(t, time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC), record.Created.UTC())
	assert.Equal(t, time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC), record.LastUpdated.UTC())
	assert.Equal(t, uint16(28), record.CmpID)
	assert.Equal(t, uint16(3), record.CmpVersion)
	assert.Equal(t, uint8(1), record.ConsentScreen)
	assert.Equal(t, "EN", record.ConsentLanguage)
	assert.Equal(t, uint16(28), record.VendorListVersion)
	assert.Equal(t, uint8(2), record.PolicyVersion)
	assert.Equal(t, "DE", record.PublisherCC)
	assert.True(t, record.IsServiceSpecific)
	assert.False(t, record.UseNonStandardStacks)
	assert.False(t, record.PurposeOneTreatment)
}

func TestParseRecordVendorBitmaps(t *testing.T) {
	record, err := ParseRecord(consentFixture)
	require.NoError(t, err)

	assert.Equal(t, []uint16{10, 30}, record.ConsentedVendorIDs())
	assert.Equal(t, []uint16{20, 30}, record.LegitimateInterestVendorIDs())

	assert.True(t, record.VendorConsent(10))
	assert.False(t, record.VendorConsent(20))
	assert.True(t, record.VendorConsent(30))
	// Absence from the bitmap is equivalent to false.
	assert.False(t, record.VendorConsent(999))

	assert.True(t, record.VendorLegitInterest(20))
	assert.False(t, record.VendorLegitInterest(10))
}

func TestParseRecordEmptyConsent(t *testing.T) {
	_, err := ParseRecord("")
	require.Error(t, err)
	assert.IsType(t, &errortypes.EmptyConsent{}, err)
}

func TestParseRecordMalformedConsent(t *testing.T) {
	tests := []string{
		"NOT_A_VALID_TCF_STRING",
		"!@#$%",
		"BQ",
	}
	for _, consent := range tests {
		_, err := ParseRecord(consent)
		require.Error(t, err, consent)
		assert.IsType(t, &errortypes.MalformedConsent{}, err, consent)
	}
}

func TestParseRecordPolicyVersionBound(t *testing.T) {
	// consentFixture with the policy version field (base64 character 22)
	// rewritten in place. 4 is the highest accepted value.
	atBound := "CPtbRGQPtbRGQAcADBENAcEoAKAAAEAAAAYgAPABAAAQAeAAAIAgAA"
	record, err := ParseRecord(atBound)
	require.NoError(t, err)
	assert.Equal(t, uint8(4), record.PolicyVersion)

	overBound := "CPtbRGQPtbRGQAcADBENAcFoAKAAAEAAAAYgAPABAAAQAeAAAIAgAA"
	_, err = ParseRecord(overBound)
	require.Error(t, err)
	assert.IsType(t, &errortypes.MalformedConsent{}, err)
}

func TestParseRecordEmptyVendorSections(t *testing.T) {
	record, err := ParseRecord(consentFixtureNoCMP)
	require.NoError(t, err)

	assert.Equal(t, uint16(0), record.CmpID)
	assert.Empty(t, record.ConsentedVendorIDs())
	assert.Empty(t, record.LegitimateInterestVendorIDs())
}
