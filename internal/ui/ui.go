package ui

import (
	"net/http"
	"regexp"

	"github.com/tdewolff/minify"
	"github.com/tdewolff/minify/css"
	"github.com/tdewolff/minify/html"
	"github.com/tdewolff/minify/js"
	"github.com/vlatan/storytime/internal/config"
	"github.com/vlatan/storytime/internal/models"
	"go.uber.org/zap"
)

type Service interface {
	// Get the map containing the static files
	StaticFiles() models.StaticFiles
	// Get the map containing the generated text files
	TextFiles() models.TextFiles
	// Write JSON to response
	WriteJSON(w http.ResponseWriter, r *http.Request, data any)
	// Write JSON error to response
	JSONError(w http.ResponseWriter, r *http.Request, statusCode int)
}

type service struct {
	staticFiles models.StaticFiles
	textFiles   models.TextFiles
	log         *zap.Logger
}

var validJS = regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$")

// New minifies and compresses the embedded static files
// and builds the text files once, on startup.
func New(cfg *config.Config, log *zap.Logger) Service {

	if log == nil {
		log = zap.NewNop()
	}

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFuncRegexp(validJS, js.Minify)

	return &service{
		staticFiles: parseStaticFiles(m, "static", log),
		textFiles:   parseTextFiles(cfg),
		log:         log,
	}
}
