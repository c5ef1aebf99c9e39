package render

import (
	"bytes"
	"embed"
	"errors"
	"html/template"

	"gatekv/internal/database"
	"gatekv/internal/database/network"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	indexTemplate      = "index.html"
	successTemplate    = "200.html"
	badRequestTemplate = "400.html"
)

type KeyLister interface {
	Keys() []string
}

// Page is a rendered response before framing.
type Page struct {
	Status string
	Body   []byte
}

func (p Page) Bytes() []byte {
	return network.FrameResponse(p.Status, p.Body)
}

type Renderer struct {
	templates *template.Template
	keys      KeyLister
}

func NewRenderer(keys KeyLister) (*Renderer, error) {
	if keys == nil {
		return nil, errors.New("key lister cannot be nil")
	}

	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Renderer{
		templates: templates,
		keys:      keys,
	}, nil
}

// Render picks the index page for a skipped outcome, the bad request page when
// the outcome carries an error, and the success page otherwise.
func (r *Renderer) Render(outcome database.Outcome) (Page, error) {
	switch {
	case outcome.Skipped():
		keys := r.keys.Keys()
		return r.page(network.StatusOK, indexTemplate, struct{ Keys []string }{keys})
	case outcome.Err != nil:
		return r.page(network.StatusBadRequest, badRequestTemplate, struct{ Error string }{outcome.Err.Error()})
	default:
		data := struct {
			Command string
			Value   string
		}{Command: *outcome.Command}
		if outcome.Value != nil {
			data.Value = outcome.Value.String()
		}
		return r.page(network.StatusOK, successTemplate, data)
	}
}

func (r *Renderer) page(status, name string, data any) (Page, error) {
	var body bytes.Buffer
	if err := r.templates.ExecuteTemplate(&body, name, data); err != nil {
		return Page{}, err
	}

	return Page{Status: status, Body: body.Bytes()}, nil
}
