package hello

// Greeting is the fixed response body of GET /api/hello.
const Greeting = "Hello, World!"

const contentTypeText = "text/plain; charset=utf-8"

// GetOutput is a raw text response. Huma writes []byte bodies verbatim,
// bypassing JSON/CBOR negotiation.
type GetOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
