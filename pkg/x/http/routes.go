package http

import (
	"net/http"
	"sort"

	"github.com/omalloc/rangevault/contrib/log"
)

// PrintRoutes logs the given route patterns in sorted order, for a quick
// sanity check of the internal route table at startup. It logs only the
// patterns passed in: mux is not inspected, since net/http.ServeMux does
// not expose its registered routes.
func PrintRoutes(mux *http.ServeMux, patterns ...string) {
	sorted := append([]string(nil), patterns...)
	sort.Strings(sorted)
	for _, p := range sorted {
		log.Infof("route registered: %s", p)
	}
}
