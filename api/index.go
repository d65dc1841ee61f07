package handler

import (
	"net/http"

	"streamhub-backend/bootstrap"
	"streamhub-backend/internal/interfaces/router"
)

var apiHandler http.Handler

func init() {
	app, err := bootstrap.New()
	if err != nil {
		panic("app create: " + err.Error())
	}
	apiHandler = router.Handler(app)
}

// Handler is the Vercel serverless entry point. All requests are rewritten here.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()
	apiHandler.ServeHTTP(w, r)
}
