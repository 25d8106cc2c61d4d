package tcf

import (
	"github.com/nagug/TCFProcessor/cmplist"
	"github.com/nagug/TCFProcessor/gvl"
)

// Processor answers compliance queries about one decoded consent string,
// resolved against a vendor catalog and a CMP registry snapshot.
//
// A Processor is single-use: one consent string plus one pair of reference
// indices, all fixed at construction. Every query method is a pure read, so
// a Processor may be shared between goroutines without locking.
type Processor struct {
	record  *ConsentRecord
	vendors gvl.VendorList
	cmps    cmplist.Registry
}

// New decodes the consent string and binds it to the reference indices.
// An empty or undecodable consent string is a construction failure; there is
// no processor to query in that case, which is what makes the query methods
// total. Empty reference indices are not an error — queries then resolve
// against defaults.
func New(consent string, vendors gvl.VendorList, cmps cmplist.Registry) (*Processor, error) {
	record, err := ParseRecord(consent)
	if err != nil {
		return nil, err
	}

	return &Processor{
		record:  record,
		vendors: vendors,
		cmps:    cmps,
	}, nil
}

// Record returns the decoded consent record.
func (p *Processor) Record() *ConsentRecord {
	return p.record
}
