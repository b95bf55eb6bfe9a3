// Package docs holds the generated OpenAPI document for the HTTP API.
package docs

import _ "embed"

//go:embed swagger.json
var swaggerJSON []byte

// SwaggerJSON returns the swagger 2.0 document produced by swag from the handler annotations.
func SwaggerJSON() []byte {
	return swaggerJSON
}
