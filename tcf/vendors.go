package tcf

import (
	"fmt"
	"sort"

	"github.com/nagug/TCFProcessor/errortypes"
	"github.com/nagug/TCFProcessor/gvl"
)

// Vendor name placeholders. The two unknown states are deliberately
// distinct so callers can tell "we have no catalog data" from "this vendor
// specifically isn't listed".
const (
	nameCatalogNotLoaded = "unknown (catalog not loaded)"
	nameNotInCatalog     = "unknown (not in catalog)"
	nameUnknown          = "unknown"
)

// VendorDetail is the fully defaulted view of a single vendor: catalog
// values where present, fixed defaults otherwise. Every field is always
// populated regardless of catalog state.
type VendorDetail struct {
	ID                         uint16 `json:"id"`
	Name                       string `json:"name"`
	Purposes                   []int  `json:"purposes"`
	LegIntPurposes             []int  `json:"legIntPurposes"`
	FlexiblePurposes           []int  `json:"flexiblePurposes"`
	SpecialPurposes            []int  `json:"specialPurposes"`
	Features                   []int  `json:"features"`
	SpecialFeatures            []int  `json:"specialFeatures"`
	PolicyURL                  string `json:"policyUrl"`
	DeviceStorageDisclosureURL string `json:"deviceStorageDisclosureUrl"`
	CookieMaxAgeSeconds        *int64 `json:"cookieMaxAgeSeconds"`
	UsesCookies                bool   `json:"usesCookies"`
	CookieRefresh              bool   `json:"cookieRefresh"`
	UsesNonCookieAccess        bool   `json:"usesNonCookieAccess"`
}

// VendorDetails resolves a vendor ID against the catalog. It is total: a
// missing entry, or a missing catalog, produces a record with defaults and
// the applicable placeholder name, never an error.
func (p *Processor) VendorDetails(id uint16) VendorDetail {
	entry, found := p.vendors.Vendor(id)

	detail := VendorDetail{
		ID:                         id,
		Name:                       entry.Name,
		Purposes:                   orEmpty(entry.Purposes),
		LegIntPurposes:             orEmpty(entry.LegIntPurposes),
		FlexiblePurposes:           orEmpty(entry.FlexiblePurposes),
		SpecialPurposes:            orEmpty(entry.SpecialPurposes),
		Features:                   orEmpty(entry.Features),
		SpecialFeatures:            orEmpty(entry.SpecialFeatures),
		PolicyURL:                  entry.PolicyURL,
		DeviceStorageDisclosureURL: entry.DeviceStorageDisclosureURL,
		CookieMaxAgeSeconds:        entry.CookieMaxAgeSeconds,
		UsesCookies:                entry.UsesCookies,
		CookieRefresh:              entry.CookieRefresh,
		UsesNonCookieAccess:        entry.UsesNonCookieAccess,
	}

	if entry.ID != 0 {
		detail.ID = entry.ID
	}

	switch {
	case !p.vendors.Loaded():
		detail.Name = nameCatalogNotLoaded
	case !found:
		detail.Name = nameNotInCatalog
	case detail.Name == "":
		detail.Name = nameUnknown
	}

	return detail
}

// ConsentedVendorIDs enumerates the vendors with consent granted, in the
// record's enumeration order.
func (p *Processor) ConsentedVendorIDs() []uint16 {
	return p.record.ConsentedVendorIDs()
}

// ConsentedVendorDetails enumerates the vendors with consent granted,
// resolving each through the catalog.
func (p *Processor) ConsentedVendorDetails() []VendorDetail {
	ids := p.record.consentedOrder
	details := make([]VendorDetail, 0, len(ids))
	for _, id := range ids {
		details = append(details, p.VendorDetails(id))
	}
	return details
}

// LIVendor describes a vendor with legitimate interest established,
// alongside the LI purposes it declares in the catalog. The declaration is
// reported as-is; it is not cross-checked against the record's LI bitmap.
type LIVendor struct {
	Name               string `json:"name"`
	DeclaredLIPurposes []int  `json:"declaredLiPurposes"`
}

// LegitimateInterestVendors enumerates the vendors for which the record
// establishes legitimate interest.
func (p *Processor) LegitimateInterestVendors() map[uint16]LIVendor {
	result := make(map[uint16]LIVendor, len(p.record.liOrder))
	for _, id := range p.record.liOrder {
		entry, _ := p.vendors.Vendor(id)
		result[id] = LIVendor{
			Name:               nameOrUnknown(entry),
			DeclaredLIPurposes: orEmpty(entry.LegIntPurposes),
		}
	}
	return result
}

// DeclarationList names one of the catalog's ID-list declarations that the
// generalized matcher can inspect.
type DeclarationList string

const (
	ListPurposes         DeclarationList = "purposes"
	ListSpecialPurposes  DeclarationList = "specialPurposes"
	ListFeatures         DeclarationList = "features"
	ListSpecialFeatures  DeclarationList = "specialFeatures"
	ListFlexiblePurposes DeclarationList = "flexiblePurposes"
)

// ParseDeclarationList validates a declaration list name from query input.
func ParseDeclarationList(name string) (DeclarationList, error) {
	switch l := DeclarationList(name); l {
	case ListPurposes, ListSpecialPurposes, ListFeatures, ListSpecialFeatures, ListFlexiblePurposes:
		return l, nil
	}
	return "", &errortypes.BadInput{Message: fmt.Sprintf("unknown declaration list %q", name)}
}

func (l DeclarationList) declared(v gvl.Vendor) []int {
	switch l {
	case ListPurposes:
		return v.Purposes
	case ListSpecialPurposes:
		return v.SpecialPurposes
	case ListFeatures:
		return v.Features
	case ListSpecialFeatures:
		return v.SpecialFeatures
	case ListFlexiblePurposes:
		return v.FlexiblePurposes
	}
	return nil
}

// VendorMatch reports why a consented vendor qualified: the subset of the
// required IDs found in its declaration, sorted ascending.
type VendorMatch struct {
	Name       string `json:"name"`
	MatchedIDs []int  `json:"matchedIds"`
}

// ConsentedVendorsMatching finds vendors that have consent granted AND
// declare the required IDs in the given catalog list. With requireAll false,
// any overlap qualifies; with requireAll true, the vendor must declare the
// entire required set. An empty required set never matches anything.
//
// Duplicates and order in requiredIDs are irrelevant; matching is pure set
// intersection against the vendor's declaration.
func (p *Processor) ConsentedVendorsMatching(list DeclarationList, requiredIDs []int, requireAll bool) map[uint16]VendorMatch {
	matches := make(map[uint16]VendorMatch)

	required := make(map[int]struct{}, len(requiredIDs))
	for _, id := range requiredIDs {
		required[id] = struct{}{}
	}
	if len(required) == 0 {
		return matches
	}

	for _, vendorID := range p.record.consentedOrder {
		entry, _ := p.vendors.Vendor(vendorID)

		matchedSet := make(map[int]struct{})
		for _, declaredID := range list.declared(entry) {
			if _, ok := required[declaredID]; ok {
				matchedSet[declaredID] = struct{}{}
			}
		}
		matched := make([]int, 0, len(matchedSet))
		for id := range matchedSet {
			matched = append(matched, id)
		}
		if len(matched) == 0 {
			continue
		}
		if requireAll && len(matched) != len(required) {
			continue
		}

		sort.Ints(matched)
		matches[vendorID] = VendorMatch{
			Name:       nameOrUnknown(entry),
			MatchedIDs: matched,
		}
	}

	return matches
}

// ConsentedVendorsForPurposes finds consented vendors declaring the given
// purposes.
func (p *Processor) ConsentedVendorsForPurposes(purposeIDs []int, requireAll bool) map[uint16]VendorMatch {
	return p.ConsentedVendorsMatching(ListPurposes, purposeIDs, requireAll)
}

// ConsentedVendorsForSpecialPurposes finds consented vendors declaring the
// given special purposes.
func (p *Processor) ConsentedVendorsForSpecialPurposes(purposeIDs []int, requireAll bool) map[uint16]VendorMatch {
	return p.ConsentedVendorsMatching(ListSpecialPurposes, purposeIDs, requireAll)
}

// ConsentedVendorsForFeatures finds consented vendors declaring the given
// features.
func (p *Processor) ConsentedVendorsForFeatures(featureIDs []int, requireAll bool) map[uint16]VendorMatch {
	return p.ConsentedVendorsMatching(ListFeatures, featureIDs, requireAll)
}

// ConsentedVendorsForSpecialFeatures finds consented vendors declaring the
// given special features.
func (p *Processor) ConsentedVendorsForSpecialFeatures(featureIDs []int, requireAll bool) map[uint16]VendorMatch {
	return p.ConsentedVendorsMatching(ListSpecialFeatures, featureIDs, requireAll)
}

// ConsentedVendorsForFlexiblePurposes finds consented vendors declaring the
// given flexible purposes. Flexible purposes may be satisfied by either
// consent or LI in the TCF; this query specifically covers the consent side.
func (p *Processor) ConsentedVendorsForFlexiblePurposes(purposeIDs []int, requireAll bool) map[uint16]VendorMatch {
	return p.ConsentedVendorsMatching(ListFlexiblePurposes, purposeIDs, requireAll)
}

// BooleanFlag names one of the catalog's boolean vendor properties.
type BooleanFlag string

const (
	FlagUsesCookies         BooleanFlag = "usesCookies"
	FlagCookieRefresh       BooleanFlag = "cookieRefresh"
	FlagUsesNonCookieAccess BooleanFlag = "usesNonCookieAccess"
)

// ParseBooleanFlag validates a flag name from query input.
func ParseBooleanFlag(name string) (BooleanFlag, error) {
	switch f := BooleanFlag(name); f {
	case FlagUsesCookies, FlagCookieRefresh, FlagUsesNonCookieAccess:
		return f, nil
	}
	return "", &errortypes.BadInput{Message: fmt.Sprintf("unknown vendor flag %q", name)}
}

func (f BooleanFlag) value(v gvl.Vendor) bool {
	switch f {
	case FlagUsesCookies:
		return v.UsesCookies
	case FlagCookieRefresh:
		return v.CookieRefresh
	case FlagUsesNonCookieAccess:
		return v.UsesNonCookieAccess
	}
	return false
}

// ConsentedVendorsByFlag finds vendors that have consent granted AND whose
// catalog entry sets the given boolean flag. A vendor missing from the
// catalog counts as flag-false.
func (p *Processor) ConsentedVendorsByFlag(flag BooleanFlag) map[uint16]string {
	matches := make(map[uint16]string)
	for _, vendorID := range p.record.consentedOrder {
		entry, _ := p.vendors.Vendor(vendorID)
		if flag.value(entry) {
			matches[vendorID] = nameOrUnknown(entry)
		}
	}
	return matches
}

// ConsentedVendorsUsingCookies finds consented vendors that declare cookie
// storage in the catalog.
func (p *Processor) ConsentedVendorsUsingCookies() map[uint16]string {
	return p.ConsentedVendorsByFlag(FlagUsesCookies)
}

// ConsentedVendorsUsingNonCookieAccess finds consented vendors that declare
// non-cookie device storage access in the catalog.
func (p *Processor) ConsentedVendorsUsingNonCookieAccess() map[uint16]string {
	return p.ConsentedVendorsByFlag(FlagUsesNonCookieAccess)
}

// VendorURLs is the catalog's URL projection for a single vendor. URLs
// default to empty strings; Error distinguishes the two miss conditions.
type VendorURLs struct {
	PolicyURL                  string `json:"policyUrl"`
	DeviceStorageDisclosureURL string `json:"deviceStorageDisclosureUrl"`
	Error                      string `json:"error,omitempty"`
}

// VendorURLs projects the two URL fields of a vendor's catalog entry.
func (p *Processor) VendorURLs(id uint16) VendorURLs {
	if !p.vendors.Loaded() {
		return VendorURLs{Error: "vendor catalog not loaded or empty"}
	}

	entry, found := p.vendors.Vendor(id)
	if !found {
		return VendorURLs{Error: fmt.Sprintf("vendor ID %d not found in catalog", id)}
	}

	return VendorURLs{
		PolicyURL:                  entry.PolicyURL,
		DeviceStorageDisclosureURL: entry.DeviceStorageDisclosureURL,
	}
}

func nameOrUnknown(v gvl.Vendor) string {
	if v.Name == "" {
		return nameUnknown
	}
	return v.Name
}

func orEmpty(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
