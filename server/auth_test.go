package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"recipe-service/accounts"
	"recipe-service/admin"
)

func TestCheckAuth(t *testing.T) {
	check := newCheckAuth(accounts.NewGate(nil, "full-token", "read-token", nil))

	tests := []struct {
		name       string
		header     string
		wantOK     bool
		wantClient string
		wantPerms  []string
	}{
		{name: "missing header"},
		{name: "unknown token", header: "Bearer other"},
		{name: "full token", header: "Bearer full-token", wantOK: true, wantClient: "api",
			wantPerms: []string{accounts.PermViewUser, accounts.PermChangeUser}},
		{name: "readonly token", header: "Bearer read-token", wantOK: true, wantClient: "api-readonly",
			wantPerms: []string{accounts.PermViewUser}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/recipes", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			ok, auth := check(r)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, "bearer", auth.Type)
			assert.Equal(t, tt.wantClient, auth.Client)
			claims, ok := auth.Claims.(map[string]interface{})
			assert.True(t, ok)
			assert.ElementsMatch(t, tt.wantPerms, claims["permissions"])
		})
	}
}

func TestRoutes_Unique(t *testing.T) {
	table := routes(nil, nil, nil, nil, nil, admin.Site{})

	names := map[string]bool{}
	endpoints := map[string]bool{}
	for _, rt := range table {
		assert.False(t, names[rt.Name], "duplicate route name %s", rt.Name)
		names[rt.Name] = true

		key := rt.Method + " " + rt.Path
		assert.False(t, endpoints[key], "duplicate endpoint %s", key)
		endpoints[key] = true

		assert.NotNil(t, rt.handler, rt.Name)
		if rt.Path == "/health" || rt.Path == "/" || len(rt.Path) > 6 && rt.Path[:7] == "/admin/" {
			assert.Equal(t, "none", rt.AuthType, rt.Name)
		} else {
			assert.Equal(t, "bearer", rt.AuthType, rt.Name)
		}
	}
	assert.True(t, endpoints["GET /recipe-by-user/{user}/"])
	assert.True(t, endpoints["POST /users/{id}/password"])
}
