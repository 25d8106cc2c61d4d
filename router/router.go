package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/nagug/TCFProcessor/endpoints"
)

// Router wires the consent query endpoints onto an httprouter.
type Router struct {
	*httprouter.Router
}

// New builds the route table. Every consent endpoint takes the consent
// string as a query parameter and shares the same read-only reference data.
func New(deps endpoints.Deps, version string, revision string) *Router {
	r := &Router{Router: httprouter.New()}

	r.GET("/tcf/metadata", endpoints.NewMetadataEndpoint(deps))
	r.GET("/tcf/vendors", endpoints.NewConsentedVendorsEndpoint(deps))
	r.GET("/tcf/vendors/li", endpoints.NewLIVendorsEndpoint(deps))
	r.GET("/tcf/vendors/match", endpoints.NewVendorMatchEndpoint(deps))
	r.GET("/tcf/vendors/flag", endpoints.NewVendorFlagEndpoint(deps))
	r.GET("/tcf/vendor/urls", endpoints.NewVendorURLsEndpoint(deps))
	r.GET("/tcf/cmp", endpoints.NewCMPEndpoint(deps))
	r.Handler("GET", "/version", endpoints.NewVersionEndpoint(version, revision))

	return r
}

// SupportCORS wraps the router with a permissive read-only CORS policy.
// All endpoints are GETs over non-sensitive reference data, but the origin
// must still identify itself.
func SupportCORS(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return origin != ""
		},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"},
	})
	return c.Handler(handler)
}
