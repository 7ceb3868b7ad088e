package handlers

import (
	"context"
	"fmt"
	"html"
	"net/http"

	"recipe-service/admin"
)

// Home handles GET / - landing page linking the API and the admin
func Home(site admin.Site) func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		logRequest(ctx, "debug", "Landing page")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<h1>%s</h1>
<ul>
<li><a href="/admin/">Administration</a></li>
<li>API: <code>/users</code>, <code>/recipes</code>, <code>/steps</code>, <code>/ingredients</code></li>
<li>Recipes by user: <code>/recipe-by-user/{id or username}/</code></li>
</ul>
</body>
</html>`, html.EscapeString(site.Title), html.EscapeString(site.Header))))
	}
}
