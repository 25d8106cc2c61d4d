package gvl

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"

	"github.com/nagug/TCFProcessor/errortypes"
)

// Vendor is a single vendor catalog entry, as declared in the Global Vendor
// List. Fields mirror the GVL JSON schema; json tags double as the catalog
// field names used by query parameters.
type Vendor struct {
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

// VendorList is an immutable snapshot of the vendor catalog, indexed by the
// string form of the vendor ID. The zero value is an empty index, on which
// every lookup misses.
type VendorList struct {
	version uint16
	vendors map[string]Vendor
}

// Version returns the vendor list version the catalog snapshot was taken at.
func (l VendorList) Version() uint16 {
	return l.version
}

// Loaded reports whether the index holds any vendors at all. Consumers use
// this to distinguish "we have no data" from "this vendor isn't listed".
func (l VendorList) Loaded() bool {
	return len(l.vendors) > 0
}

// Len returns the number of indexed vendors.
func (l VendorList) Len() int {
	return len(l.vendors)
}

// Vendor looks up a catalog entry by vendor ID.
func (l VendorList) Vendor(id uint16) (Vendor, bool) {
	v, ok := l.vendors[strconv.Itoa(int(id))]
	return v, ok
}

type vendorListContract struct {
	Version uint16            `json:"vendorListVersion"`
	Vendors map[string]Vendor `json:"vendors"`
}

// ParseEagerly interprets and validates vendor list data up front, before
// returning it. The returned VendorList can be shared safely between
// goroutines.
func ParseEagerly(data []byte) (VendorList, error) {
	var contract vendorListContract
	if err := json.Unmarshal(data, &contract); err != nil {
		return VendorList{}, err
	}

	if contract.Vendors == nil {
		return VendorList{}, errors.New("data.vendors was missing or not an object")
	}

	return VendorList{
		version: contract.Version,
		vendors: contract.Vendors,
	}, nil
}

// LoadFile reads and parses the vendor catalog from path. Any failure
// (missing file, malformed JSON, missing vendors collection) comes back as a
// coded warning alongside an empty index. Downstream lookups treat an empty
// index identically to "all lookups miss".
func LoadFile(path string) (VendorList, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return VendorList{}, &errortypes.Warning{
			Message:     fmt.Sprintf("could not read vendor list file %s: %v", path, err),
			WarningCode: errortypes.ReferenceDataWarningCode,
		}
	}

	list, err := ParseEagerly(contents)
	if err != nil {
		return VendorList{}, &errortypes.Warning{
			Message:     fmt.Sprintf("could not parse vendor list file %s: %v", path, err),
			WarningCode: errortypes.ReferenceDataWarningCode,
		}
	}

	glog.Infof("Loaded vendor list version %d with %d vendors from %s", list.Version(), list.Len(), path)
	return list, nil
}
