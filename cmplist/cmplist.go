package cmplist

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/golang/glog"

	"github.com/nagug/TCFProcessor/errortypes"
)

// Registry is an immutable snapshot of the CMP registry, indexed by the
// string form of the CMP ID. Entries are kept as raw JSON and returned
// verbatim; no schema is assumed beyond "a mapping". The zero value is an
// empty index.
type Registry struct {
	cmps map[string]json.RawMessage
}

// Loaded reports whether the index holds any CMPs at all.
func (r Registry) Loaded() bool {
	return len(r.cmps) > 0
}

// Len returns the number of indexed CMPs.
func (r Registry) Len() int {
	return len(r.cmps)
}

// Entry looks up a registry entry by CMP ID, returning its raw JSON exactly
// as it appeared in the registry file.
func (r Registry) Entry(id uint16) (json.RawMessage, bool) {
	entry, ok := r.cmps[strconv.Itoa(int(id))]
	return entry, ok
}

// Parse indexes CMP registry data. The registry is accepted in either of two
// shapes: a bare object of CMP ID -> entry, or the same object nested under
// a top-level "cmps" key. Non-object members are skipped.
func Parse(data []byte) (Registry, error) {
	cmpsObj := data
	if nested, dataType, _, err := jsonparser.Get(data, "cmps"); err == nil && dataType == jsonparser.Object {
		cmpsObj = nested
	}

	cmps := make(map[string]json.RawMessage)
	err := jsonparser.ObjectEach(cmpsObj, func(key []byte, value []byte, dataType jsonparser.ValueType, offset int) error {
		if dataType != jsonparser.Object {
			return nil
		}
		// jsonparser values alias the input buffer.
		entry := make(json.RawMessage, len(value))
		copy(entry, value)
		cmps[string(key)] = entry
		return nil
	})
	if err != nil {
		return Registry{}, &errortypes.Warning{
			Message:     "CMP registry data is not an object of CMP entries: " + err.Error(),
			WarningCode: errortypes.RegistryShapeWarningCode,
		}
	}

	return Registry{cmps: cmps}, nil
}

// LoadFile reads and indexes the CMP registry from path. Any failure comes
// back as a coded warning alongside an empty index; CMP lookups then miss,
// which the resolver reports as a per-query diagnostic rather than an error.
func LoadFile(path string) (Registry, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Registry{}, &errortypes.Warning{
			Message:     fmt.Sprintf("could not read CMP list file %s: %v", path, err),
			WarningCode: errortypes.ReferenceDataWarningCode,
		}
	}

	registry, err := Parse(contents)
	if err != nil {
		return Registry{}, err
	}

	glog.Infof("Loaded CMP list with %d CMPs from %s", registry.Len(), path)
	return registry, nil
}
