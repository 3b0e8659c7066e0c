// Package api holds the OpenAPI document served and enforced by the HTTP server.
package api

import _ "embed"

// Schema is the OpenAPI 3 document for the public HTTP API
//
//go:embed openapi.yaml
var Schema []byte
