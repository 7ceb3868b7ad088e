package accounts

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_Actor(t *testing.T) {
	svc, _ := setupTestService(t)
	createAlice(t, svc)

	bobForm := aliceForm()
	bobForm.Username, bobForm.Email = "bob", "b@example.com"
	_, err := svc.Create(context.Background(), bobForm)
	assert.NoError(t, err)

	gate := NewGate(svc, "full-token", "read-token", []string{"alice_1"})

	tests := []struct {
		name      string
		setup     func(h map[string]string)
		basic     []string
		wantOK    bool
		wantName  string
		canChange bool
	}{
		{name: "no header"},
		{name: "api token", setup: bearer("full-token"), wantOK: true, wantName: "api", canChange: true},
		{name: "readonly token", setup: bearer("read-token"), wantOK: true, wantName: "api-readonly"},
		{name: "unknown token", setup: bearer("nope")},
		{name: "empty token", setup: bearer("")},
		{name: "admin basic", basic: []string{"alice_1", "abc"}, wantOK: true, wantName: "alice_1", canChange: true},
		{name: "plain basic", basic: []string{"bob", "abc"}, wantOK: true, wantName: "bob"},
		{name: "wrong password", basic: []string{"bob", "abd"}},
		{name: "unknown user", basic: []string{"carol", "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/users", nil)
			if tt.setup != nil {
				headers := map[string]string{}
				tt.setup(headers)
				for k, v := range headers {
					r.Header.Set(k, v)
				}
			}
			if tt.basic != nil {
				r.SetBasicAuth(tt.basic[0], tt.basic[1])
			}

			actor, ok := gate.Actor(r)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, actor.Name)
			assert.Equal(t, tt.wantOK, actor.CanViewUsers())
			assert.Equal(t, tt.canChange, actor.CanChangeUsers())
		})
	}
}

func TestGate_EmptyTokensNeverMatch(t *testing.T) {
	gate := NewGate(nil, "", "", nil)

	r := httptest.NewRequest("GET", "/users", nil)
	r.Header.Set("Authorization", "Bearer ")

	_, ok := gate.Actor(r)
	assert.False(t, ok)
}

func bearer(token string) func(h map[string]string) {
	return func(h map[string]string) {
		h["Authorization"] = "Bearer " + token
	}
}
