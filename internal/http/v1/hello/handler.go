package hello

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/travel-getaway/internal/platform/logging"
)

// Register wires the greeting operation under prefix (e.g. "/api").
func Register(api huma.API, prefix string) {
	path := prefix + "/hello"
	huma.Register(api, huma.Operation{
		OperationID: "get-hello",
		Method:      http.MethodGet,
		Path:        path,
		Summary:     "Get the greeting",
		Description: "Returns the fixed plain-text greeting.",
		Tags:        []string{"Hello"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Greeting",
				Content: map[string]*huma.MediaType{
					"text/plain": {Schema: &huma.Schema{Type: huma.TypeString, Examples: []any{Greeting}}},
				},
			},
		},
	}, getHandler(path))
}

func getHandler(path string) func(context.Context, *struct{}) (*GetOutput, error) {
	return func(ctx context.Context, _ *struct{}) (*GetOutput, error) {
		applog.LogInfo(ctx, "hello get", zap.String("path", path))
		return &GetOutput{ContentType: contentTypeText, Body: []byte(Greeting)}, nil
	}
}
