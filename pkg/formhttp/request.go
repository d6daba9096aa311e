package formhttp

import (
	"net/http"
	"strings"
)

const (
	dataStarAccept = "text/event-stream"
	dataStarQuery  = "datastar"
	hxRequest      = "HX-Request"
)

// IsDataStar reports whether r was sent by the DataStar client, which expects
// element patches over server-sent events.
func IsDataStar(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), dataStarAccept) {
		return true
	}
	if r.URL.Query().Has(dataStarQuery) {
		return true
	}
	return r.Header.Get("Datastar-Request") == "true"
}

// IsHTMX reports whether r was sent by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(hxRequest) == "true"
}

// WantsJSON reports whether the client prefers a JSON state snapshot over HTML.
func WantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// partial reports whether the client swaps fragments in place.
func partial(r *http.Request) bool {
	return IsDataStar(r) || IsHTMX(r)
}
