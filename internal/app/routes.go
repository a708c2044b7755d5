package app

import (
	"net/http"
)

// RegisterRoutes registers routes and
// assigns custom handler to the HTTP server
func (a *App) RegisterRoutes() *App {
	mux := http.NewServeMux()

	// Front page
	mux.HandleFunc("GET /{$}", a.misc.HomeHandler)

	// Stories API
	mux.HandleFunc("POST /api/stories", a.stories.CreateStoryHandler)
	mux.HandleFunc("GET /api/stories", a.stories.ListStoriesHandler)
	mux.HandleFunc("GET /api/stories/{id}", a.stories.GetStoryHandler)
	mux.HandleFunc("GET /api/stories/{id}/storybook", a.stories.StorybookHandler)

	// Uploaded audio
	mux.HandleFunc("GET /audio/{filename}", a.misc.AudioHandler)

	// The rest
	mux.HandleFunc("GET /static/", a.misc.StaticHandler)
	mux.HandleFunc("GET /robots.txt", a.misc.TextHandler)
	mux.HandleFunc("GET /health/{$}", a.misc.HealthHandler)
	mux.HandleFunc("GET /healthcheck", a.misc.HealthCheckHandler)

	// Chain middlewares that apply to all requests.
	// The order is important.
	a.server.Handler = a.mw.ApplyToAll(
		a.mw.RecoverPanic,
		a.mw.CloseBody,
		a.mw.Logging,
		a.mw.CORS,
		a.mw.AddHeaders,
		a.mw.Compress,
		a.mw.HandleErrors,
	)(mux)

	return a
}
