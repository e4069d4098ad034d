package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/travel-getaway/internal/http/v1/hello"
)

// APIPrefix is the path prefix shared by all API operations.
const APIPrefix = "/api"

// Register wires all API operations into the provided huma API.
func Register(api huma.API) {
	hello.Register(api, APIPrefix)
}
