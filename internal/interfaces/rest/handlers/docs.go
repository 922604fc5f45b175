package handlers

import (
	"context"
	_ "embed"
	"net/http"
	"sync"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/interfaces/rest"
	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPISpec []byte

var (
	openAPIOnce sync.Once
	openAPIDoc  *openapi3.T
	openAPIErr  error
)

// LoadOpenAPI parses and validates the embedded OpenAPI document.
func LoadOpenAPI(ctx context.Context) (*openapi3.T, error) {
	openAPIOnce.Do(func() {
		loader := openapi3.NewLoader()
		loader.Context = ctx

		doc, err := loader.LoadFromData(openAPISpec)
		if err != nil {
			openAPIErr = err
			return
		}
		if err := doc.Validate(ctx); err != nil {
			openAPIErr = err
			return
		}
		openAPIDoc = doc
	})

	return openAPIDoc, openAPIErr
}

func (h *Handlers) HandleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := LoadOpenAPI(r.Context())
	if err != nil {
		rest.WriteError(w, application.NewInternalError(err), h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, doc, h.logger)
}
