package tcf

import (
	"encoding/json"
	"fmt"
)

// CMP name placeholders for the three lookup-miss conditions.
const (
	cmpNameNotSet            = "unknown (not set)"
	cmpNameRegistryNotLoaded = "unknown (registry not loaded)"
	cmpNameNotInRegistry     = "unknown (not in registry)"
)

// CMPDetails resolves the record's CMP identifier against the registry.
//
// On success the registry entry is returned verbatim, unmodified. Each miss
// condition produces a distinct diagnostic payload instead of an error:
// a CMP ID of 0 means "not set" in TCF semantics (never a real registry
// entry), so no lookup is attempted for it.
func (p *Processor) CMPDetails() map[string]interface{} {
	id := p.record.CmpID

	if id == 0 {
		return map[string]interface{}{
			"id":   id,
			"name": cmpNameNotSet,
		}
	}

	if !p.cmps.Loaded() {
		return map[string]interface{}{
			"id":    id,
			"name":  cmpNameRegistryNotLoaded,
			"error": "CMP registry failed to load or is empty",
		}
	}

	entry, found := p.cmps.Entry(id)
	if !found {
		return map[string]interface{}{
			"id":    id,
			"name":  cmpNameNotInRegistry,
			"error": fmt.Sprintf("CMP ID %d not found in the loaded registry", id),
		}
	}

	var details map[string]interface{}
	if err := json.Unmarshal(entry, &details); err != nil {
		return map[string]interface{}{
			"id":    id,
			"name":  cmpNameNotInRegistry,
			"error": fmt.Sprintf("registry entry for CMP ID %d is not a mapping: %v", id, err),
		}
	}
	return details
}
