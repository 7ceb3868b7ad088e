package server

import (
	"net/http"
	"strings"

	"github.com/umakantv/go-utils/httpserver"

	"recipe-service/accounts"
)

// newCheckAuth authenticates API requests through gate and passes the
// caller's permissions to handlers as claims
func newCheckAuth(gate *accounts.Gate) func(r *http.Request) (bool, httpserver.RequestAuth) {
	return func(r *http.Request) (bool, httpserver.RequestAuth) {
		actor, ok := gate.Actor(r)
		if !ok {
			return false, httpserver.RequestAuth{}
		}

		authType := "bearer"
		if strings.HasPrefix(r.Header.Get("Authorization"), "Basic ") {
			authType = "basic"
		}

		return true, httpserver.RequestAuth{
			Type:   authType,
			Client: actor.Name,
			Claims: map[string]interface{}{"permissions": actor.Permissions},
		}
	}
}
