package endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"

	"github.com/nagug/TCFProcessor/cmplist"
	"github.com/nagug/TCFProcessor/errortypes"
	"github.com/nagug/TCFProcessor/gvl"
	"github.com/nagug/TCFProcessor/metrics"
	"github.com/nagug/TCFProcessor/tcf"
)

// Deps bundles the reference data snapshots shared by all consent
// endpoints. Both indices are read-only, so one Deps value serves every
// request concurrently.
type Deps struct {
	Vendors gvl.VendorList
	CMPs    cmplist.Registry
	Metrics *metrics.Metrics
}

// processor builds a single-use Processor from the request's consent
// parameter. A missing or undecodable consent string is a 400; the handler
// should bail out when ok is false.
func (d Deps) processor(w http.ResponseWriter, r *http.Request) (*tcf.Processor, bool) {
	consent := r.URL.Query().Get("consent")

	processor, err := tcf.New(consent, d.Vendors, d.CMPs)
	if err != nil {
		if errortypes.ReadCode(err) == errortypes.EmptyConsentErrorCode {
			d.Metrics.RecordDecode(metrics.DecodeEmpty)
		} else {
			d.Metrics.RecordDecode(metrics.DecodeMalformed)
		}
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}

	d.Metrics.RecordDecode(metrics.DecodeOK)
	return processor, true
}

// NewMetadataEndpoint returns the consent record's scalar header fields.
func NewMetadataEndpoint(deps Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		deps.Metrics.RecordQuery("metadata")
		processor, ok := deps.processor(w, r)
		if !ok {
			return
		}
		writeJSON(w, processor.Metadata())
	}
}

// NewConsentedVendorsEndpoint enumerates vendors with consent granted.
// With details=true each vendor is resolved through the catalog.
func NewConsentedVendorsEndpoint(deps Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		deps.Metrics.RecordQuery("consented_vendors")
		processor, ok := deps.processor(w, r)
		if !ok {
			return
		}

		if r.URL.Query().Get("details") == "true" {
			writeJSON(w, map[string]interface{}{"vendors": processor.ConsentedVendorDetails()})
			return
		}
		writeJSON(w, map[string]interface{}{"vendorIds": processor.ConsentedVendorIDs()})
	}
}

// NewLIVendorsEndpoint enumerates vendors with legitimate interest
// established, with their declared LI purposes.
func NewLIVendorsEndpoint(deps Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		deps.Metrics.RecordQuery("li_vendors")
		processor, ok := deps.processor(w, r)
		if !ok {
			return
		}
		writeJSON(w, map[string]interface{}{"vendors": processor.LegitimateInterestVendors()})
	}
}

// NewVendorMatchEndpoint runs the generalized declaration matcher:
// list names the catalog declaration list, ids is a comma-separated ID set,
// and all=true switches from ANY to ALL semantics.
func NewVendorMatchEndpoint(deps Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		deps.Metrics.RecordQuery("vendor_match")

		list, err := tcf.ParseDeclarationList(r.URL.Query().Get("list"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		ids, err := parseIDList(r.URL.Query().Get("ids"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		requireAll := r.URL.Query().Get("all") == "true"

		processor, ok := deps.processor(w, r)
		if !ok {
			return
		}
		writeJSON(w, map[string]interface{}{"vendors": processor.ConsentedVendorsMatching(list, ids, requireAll)})
	}
}

// NewVendorFlagEndpoint filters consented vendors by one of the catalog's
// boolean properties.
func NewVendorFlagEndpoint(deps Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		deps.Metrics.RecordQuery("vendor_flag")

		flag, err := tcf.ParseBooleanFlag(r.URL.Query().Get("flag"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		processor, ok := deps.processor(w, r)
		if !ok {
			return
		}
		writeJSON(w, map[string]interface{}{"vendors": processor.ConsentedVendorsByFlag(flag)})
	}
}

// NewVendorURLsEndpoint projects a vendor's policy and device storage
// disclosure URLs from the catalog.
func NewVendorURLsEndpoint(deps Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		deps.Metrics.RecordQuery("vendor_urls")

		id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 16)
		if err != nil {
			writeError(w, http.StatusBadRequest, &errortypes.BadInput{Message: "id must be a vendor ID in [0, 65535]"})
			return
		}

		processor, ok := deps.processor(w, r)
		if !ok {
			return
		}
		writeJSON(w, processor.VendorURLs(uint16(id)))
	}
}

// NewCMPEndpoint resolves the consent record's CMP against the registry.
func NewCMPEndpoint(deps Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		deps.Metrics.RecordQuery("cmp")
		processor, ok := deps.processor(w, r)
		if !ok {
			return
		}
		writeJSON(w, processor.CMPDetails())
	}
}

func parseIDList(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, &errortypes.BadInput{Message: "ids must be a comma-separated list of integers"}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	jsonOutput, err := json.Marshal(payload)
	if err != nil {
		glog.Errorf("Critical error when trying to marshal response payload: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonOutput)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
