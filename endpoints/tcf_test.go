package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagug/TCFProcessor/cmplist"
	"github.com/nagug/TCFProcessor/gvl"
)

// Same fixture as the tcf package tests: consent for vendors 10 and 30,
// LI for 20 and 30, CMP ID 28.
const testConsent = "CPtbRGQPtbRGQAcADBENAcCoAKAAAEAAAAYgAPABAAAQAeAAAIAgAA"

const testCatalog = `{
	"vendorListVersion": 28,
	"vendors": {
		"10": {"id": 10, "name": "Acme Ads", "purposes": [1, 3], "usesCookies": true, "policyUrl": "https://acme.example/privacy"},
		"30": {"id": 30, "name": "Correlate", "purposes": [2]}
	}
}`

const testRegistry = `{"cmps": {"28": {"id": 28, "name": "OneTrust"}}}`

func testDeps(t *testing.T) Deps {
	t.Helper()

	vendors, err := gvl.ParseEagerly([]byte(testCatalog))
	require.NoError(t, err)
	cmps, err := cmplist.Parse([]byte(testRegistry))
	require.NoError(t, err)

	return Deps{Vendors: vendors, CMPs: cmps}
}

func doRequest(t *testing.T, handle httprouter.Handle, url string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("GET", url, nil)
	recorder := httptest.NewRecorder()
	handle(recorder, req, nil)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestMetadataEndpoint(t *testing.T) {
	recorder := doRequest(t, NewMetadataEndpoint(testDeps(t)), "/tcf/metadata?consent="+testConsent)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	body := decodeBody(t, recorder)
	assert.Equal(t, float64(2), body["tcf_version"])
	assert.Equal(t, float64(28), body["cmp_id"])
	assert.Equal(t, "EN", body["consent_language"])
	assert.Equal(t, "DE", body["publisher_cc"])
}

func TestMetadataEndpointEmptyConsent(t *testing.T) {
	recorder := doRequest(t, NewMetadataEndpoint(testDeps(t)), "/tcf/metadata")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, decodeBody(t, recorder), "error")
}

func TestMetadataEndpointMalformedConsent(t *testing.T) {
	recorder := doRequest(t, NewMetadataEndpoint(testDeps(t)), "/tcf/metadata?consent=NOT_A_VALID_TCF_STRING")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestConsentedVendorsEndpoint(t *testing.T) {
	recorder := doRequest(t, NewConsentedVendorsEndpoint(testDeps(t)), "/tcf/vendors?consent="+testConsent)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, []interface{}{float64(10), float64(30)}, body["vendorIds"])
}

func TestConsentedVendorsEndpointWithDetails(t *testing.T) {
	recorder := doRequest(t, NewConsentedVendorsEndpoint(testDeps(t)), "/tcf/vendors?consent="+testConsent+"&details=true")

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	vendors, ok := body["vendors"].([]interface{})
	require.True(t, ok)
	require.Len(t, vendors, 2)

	first, ok := vendors[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Acme Ads", first["name"])
	assert.Equal(t, []interface{}{float64(1), float64(3)}, first["purposes"])
}

func TestLIVendorsEndpoint(t *testing.T) {
	recorder := doRequest(t, NewLIVendorsEndpoint(testDeps(t)), "/tcf/vendors/li?consent="+testConsent)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	vendors, ok := body["vendors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, vendors, "20")
	assert.Contains(t, vendors, "30")
}

func TestVendorMatchEndpoint(t *testing.T) {
	recorder := doRequest(t, NewVendorMatchEndpoint(testDeps(t)), "/tcf/vendors/match?consent="+testConsent+"&list=purposes&ids=1,2")

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	vendors, ok := body["vendors"].(map[string]interface{})
	require.True(t, ok)
	require.Len(t, vendors, 2)

	match, ok := vendors["10"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Acme Ads", match["name"])
	assert.Equal(t, []interface{}{float64(1)}, match["matchedIds"])
}

func TestVendorMatchEndpointRequireAll(t *testing.T) {
	recorder := doRequest(t, NewVendorMatchEndpoint(testDeps(t)), "/tcf/vendors/match?consent="+testConsent+"&list=purposes&ids=1,2&all=true")

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Empty(t, body["vendors"])
}

func TestVendorMatchEndpointBadInput(t *testing.T) {
	deps := testDeps(t)

	recorder := doRequest(t, NewVendorMatchEndpoint(deps), "/tcf/vendors/match?consent="+testConsent+"&list=nope&ids=1")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = doRequest(t, NewVendorMatchEndpoint(deps), "/tcf/vendors/match?consent="+testConsent+"&list=purposes&ids=one,two")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestVendorFlagEndpoint(t *testing.T) {
	recorder := doRequest(t, NewVendorFlagEndpoint(testDeps(t)), "/tcf/vendors/flag?consent="+testConsent+"&flag=usesCookies")

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, map[string]interface{}{"10": "Acme Ads"}, body["vendors"])
}

func TestVendorFlagEndpointBadFlag(t *testing.T) {
	recorder := doRequest(t, NewVendorFlagEndpoint(testDeps(t)), "/tcf/vendors/flag?consent="+testConsent+"&flag=nope")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestVendorURLsEndpoint(t *testing.T) {
	recorder := doRequest(t, NewVendorURLsEndpoint(testDeps(t)), "/tcf/vendor/urls?consent="+testConsent+"&id=10")

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "https://acme.example/privacy", body["policyUrl"])
}

func TestVendorURLsEndpointBadID(t *testing.T) {
	recorder := doRequest(t, NewVendorURLsEndpoint(testDeps(t)), "/tcf/vendor/urls?consent="+testConsent+"&id=abc")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCMPEndpoint(t *testing.T) {
	recorder := doRequest(t, NewCMPEndpoint(testDeps(t)), "/tcf/cmp?consent="+testConsent)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "OneTrust", body["name"])
}
