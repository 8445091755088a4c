package handlers

import "net/http"

// getParam returns a route parameter. pat stores them in the query with a
// leading colon; a plain query value is accepted as well.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}
	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}
	return r.URL.Query().Get(name)
}
