package admin

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-service/database"
	"recipe-service/forms"
	"recipe-service/models"
)

var testSite = Site{Title: "Recipes admin", Header: "Recipes administration", IndexTitle: "Site administration", PageSize: 10}

func render(t *testing.T, page string, data interface{}) string {
	t.Helper()

	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, page, data))
	return buf.String()
}

func TestRender_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	assert.Error(t, r.Render(&bytes.Buffer{}, "nope", nil))
}

func TestRender_Index(t *testing.T) {
	out := render(t, "index", IndexView{
		Base:  Base{Site: testSite, Title: testSite.IndexTitle, Actor: "root", Messages: []string{"Saved."}},
		Stats: database.Stats{Users: 3, Recipes: 2},
	})

	assert.Contains(t, out, "<title>Site administration | Recipes admin</title>")
	assert.Contains(t, out, "Recipes administration")
	assert.Contains(t, out, "Welcome, root")
	assert.Contains(t, out, "<li>Saved.</li>")
	assert.Contains(t, out, "<td>3</td>")
	assert.NotContains(t, out, "/admin/users/add/")
}

func TestRender_UserChangeMasksPassword(t *testing.T) {
	encoded := "pbkdf2_sha256$29000$abcdefghijkl$R1/GfWtwog1T8Ev9VndgDjzkiRzbFr8JpmJtL9cMmQU="
	out := render(t, "user_form", UserFormView{
		Base:     Base{Site: testSite, Title: "Change user"},
		UserID:   7,
		Fields:   UserChangeFields(forms.UserChange{Username: "alice", Email: "a@example.com", IsActive: true}, nil),
		Password: NewPasswordDisplay(encoded),
	})

	assert.Contains(t, out, "pbkdf2_sha256")
	assert.Contains(t, out, "29000")
	assert.Contains(t, out, "abcdef******")
	assert.Contains(t, out, "R1/GfW")
	assert.NotContains(t, out, "abcdefghijkl")
	assert.NotContains(t, out, "R1/GfWtwog1T8Ev9VndgDjzkiRzbFr8JpmJtL9cMmQU=")
	assert.Contains(t, out, `href="/admin/users/7/password/"`)
	assert.Contains(t, out, `value="alice"`)
	assert.NotContains(t, out, `type="submit"`)
}

func TestRender_UserChangeInvalidPassword(t *testing.T) {
	out := render(t, "user_form", UserFormView{
		Base:     Base{Site: testSite, Title: "Change user"},
		UserID:   7,
		Password: NewPasswordDisplay("not-a-hash"),
	})

	assert.Contains(t, out, "Invalid password format or unknown hashing algorithm.")
}

func TestRender_UserAddShowsErrorsWithoutPasswords(t *testing.T) {
	var errs forms.Errors
	errs.Add(forms.FieldPasswordConfirmation, forms.MsgPasswordMismatch)
	form := forms.UserAdd{Username: "alice", Password: "abc", PasswordConfirmation: "xyz", IsActive: true}

	out := render(t, "user_form", UserFormView{
		Base:      Base{Site: testSite, Title: "Add user"},
		IsAdd:     true,
		CanChange: true,
		Fields:    UserAddFields(form, errs),
	})

	assert.Contains(t, out, "The password and your confirmation do not match.")
	assert.NotContains(t, out, `value="abc"`)
	assert.NotContains(t, out, `value="xyz"`)
	assert.Contains(t, out, `name="is_active" checked`)
	assert.Contains(t, out, `type="submit"`)
	assert.NotContains(t, out, "this form")
}

func TestRender_UserList(t *testing.T) {
	users := []models.User{
		{ID: 1, Username: "alice", Email: "a@example.com", Password: "pbkdf2_sha256$29000$salt$hash", IsActive: true},
	}
	out := render(t, "user_list", UserListView{
		Base:     Base{Site: testSite, Title: "Select user to change"},
		Rows:     UserRows(users),
		Query:    "ali",
		IsActive: "1",
		Page:     NewPage(1, 10, 11),
	})

	assert.Contains(t, out, "pbkdf2_sha256$2.....")
	assert.Contains(t, out, `href="/admin/users/1/change/"`)
	assert.Contains(t, out, "Page 1 of 2 (11 users)")
	assert.Contains(t, out, "is_active=1&amp;p=2&amp;q=ali")
}

func TestRender_ObjectListEmpty(t *testing.T) {
	out := render(t, "object_list", ObjectListView{
		Base:    Base{Site: testSite, Title: "Select step to change"},
		Kind:    "steps",
		Columns: []string{"ID", "Step text"},
		Page:    NewPage(1, 10, 0),
	})

	assert.Contains(t, out, "<th>Step text</th>")
	assert.Contains(t, out, "0 steps")
}

func TestRender_Delete(t *testing.T) {
	out := render(t, "delete", DeleteView{
		Base:    Base{Site: testSite, Title: "Are you sure?"},
		Kind:    "user",
		Name:    "alice",
		Action:  "/admin/users/1/delete/",
		Cancel:  "/admin/users/1/change/",
		Related: []string{"Recipe: Soup"},
	})

	assert.Contains(t, out, "<li>Recipe: Soup</li>")
	assert.Contains(t, out, `action="/admin/users/1/delete/"`)
}
