package handlers

import (
	_ "embed"
	"net/http"
)

// OpenAPIPath is where the router serves the campaign API document; the docs
// page loads it from there.
const OpenAPIPath = "/v1/openapi.json"

// campaignAPIDoc describes the read-only campaign endpoints.
//
//go:embed openapi.json
var campaignAPIDoc []byte

// docsPage renders campaignAPIDoc with Redoc from the CDN.
const docsPage = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>Fledge Campaign API</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>
      body { margin: 0; }
      redoc { display: block; height: 100vh; }
    </style>
  </head>
  <body>
    <redoc spec-url="` + OpenAPIPath + `" hide-download-button></redoc>
    <script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
  </body>
</html>`

// docsCacheControl lets browsers and the CDN keep the docs for a few minutes;
// the document only changes on deploy.
const docsCacheControl = "public, max-age=300"

// OpenAPIJSON serves the embedded campaign API document.
func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", docsCacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(campaignAPIDoc)
}

// OpenAPIDocs serves a browsable page for the campaign API document.
func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", docsCacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(docsPage))
}
