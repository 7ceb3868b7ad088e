package accounts

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Gate resolves the Actor behind an HTTP request. Bearer API tokens and
// basic auth against the user store are accepted.
type Gate struct {
	svc           *Service
	apiToken      string
	readonlyToken string
	admins        map[string]bool
}

// NewGate creates a Gate. Empty tokens are never accepted.
func NewGate(svc *Service, apiToken, readonlyToken string, admins []string) *Gate {
	set := make(map[string]bool, len(admins))
	for _, a := range admins {
		set[a] = true
	}
	return &Gate{
		svc:           svc,
		apiToken:      apiToken,
		readonlyToken: readonlyToken,
		admins:        set,
	}
}

// Actor returns the caller of r, or false when r carries no valid credentials
func (g *Gate) Actor(r *http.Request) (Actor, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return Actor{}, false
	}

	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		switch {
		case tokenMatches(token, g.apiToken):
			return Actor{Name: "api", Permissions: []string{PermViewUser, PermChangeUser}}, true
		case tokenMatches(token, g.readonlyToken):
			return Actor{Name: "api-readonly", Permissions: []string{PermViewUser}}, true
		}
		return Actor{}, false
	}

	username, password, ok := r.BasicAuth()
	if !ok {
		return Actor{}, false
	}
	user, err := g.svc.Authenticate(r.Context(), username, password)
	if err != nil {
		return Actor{}, false
	}

	actor := Actor{Name: user.Username, Permissions: []string{PermViewUser}}
	if g.admins[user.Username] {
		actor.Permissions = append(actor.Permissions, PermChangeUser)
	}
	return actor, true
}

func tokenMatches(got, want string) bool {
	return want != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
