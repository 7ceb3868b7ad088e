package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"

	"recipe-service/accounts"
	"recipe-service/admin"
	cachekeys "recipe-service/cache"
	"recipe-service/database"
	"recipe-service/forms"
	"recipe-service/models"
)

const messagesCookie = "admin_messages"

// AdminHandler serves the HTML administration pages under /admin/
type AdminHandler struct {
	store    *database.Store
	accounts *accounts.Service
	gate     *accounts.Gate
	renderer *admin.Renderer
	site     admin.Site
	cache    cache.Cache
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store *database.Store, svc *accounts.Service, gate *accounts.Gate, renderer *admin.Renderer, site admin.Site, cache cache.Cache) *AdminHandler {
	return &AdminHandler{
		store:    store,
		accounts: svc,
		gate:     gate,
		renderer: renderer,
		site:     site,
		cache:    cache,
	}
}

// Index handles GET /admin/ - record counts
func (h *AdminHandler) Index(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, ok := h.authorize(ctx, w, r, false)
	if !ok {
		return
	}

	stats, err := h.store.Stats(ctx)
	if err != nil {
		h.fail(ctx, w, http.StatusInternalServerError, "Could not load the dashboard", err)
		return
	}

	h.render(ctx, w, http.StatusOK, "index", admin.IndexView{
		Base:      h.base(r, actor, h.site.IndexTitle),
		Stats:     stats,
		CanChange: actor.CanChangeUsers(),
	})
}

// UserList handles GET /admin/users/ - searchable, filterable, paginated users
func (h *AdminHandler) UserList(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, ok := h.authorize(ctx, w, r, false)
	if !ok {
		return
	}

	params := r.URL.Query()
	view := admin.UserListView{
		Base:      h.base(r, actor, "Select user to change", admin.Crumb{Label: "Users"}),
		Query:     params.Get("q"),
		CanChange: actor.CanChangeUsers(),
	}

	query := models.UserQuery{Search: view.Query, OrderBy: "name"}
	switch params.Get("is_active") {
	case "1":
		active := true
		query.IsActive, view.IsActive = &active, "1"
	case "0":
		inactive := false
		query.IsActive, view.IsActive = &inactive, "0"
	}

	page := admin.NewPage(admin.ParsePage(params.Get("p")), h.site.PageSize, 0)
	query.Limit, query.Offset = page.Size, page.Offset()

	users, total, err := h.store.ListUsers(ctx, query)
	if err != nil {
		h.fail(ctx, w, http.StatusInternalServerError, "Could not list users", err)
		return
	}

	view.Rows = admin.UserRows(users)
	view.Page = admin.NewPage(page.Number, page.Size, total)
	h.render(ctx, w, http.StatusOK, "user_list", view)
}

// UserAddForm handles GET /admin/users/add/
func (h *AdminHandler) UserAddForm(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, ok := h.authorize(ctx, w, r, true)
	if !ok {
		return
	}
	h.renderUserAdd(ctx, w, r, actor, forms.UserAdd{IsActive: true}, nil)
}

// UserAdd handles POST /admin/users/add/ - the create flow
func (h *AdminHandler) UserAdd(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, ok := h.authorize(ctx, w, r, true)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.fail(ctx, w, http.StatusBadRequest, "Invalid form submission", err)
		return
	}

	form := admin.UserAddFromValues(r.PostForm)
	user, err := h.accounts.Create(ctx, form)
	if err != nil {
		var fieldErrs forms.Errors
		if errors.As(err, &fieldErrs) {
			h.renderUserAdd(ctx, w, r, actor, form, fieldErrs)
			return
		}
		h.fail(ctx, w, http.StatusInternalServerError, "Could not add the user", err)
		return
	}

	h.cache.Delete(cachekeys.ListKey(usersKind))
	logRequest(ctx, "info", "User added", zap.Int("user_id", user.ID))

	h.flash(w, r, fmt.Sprintf("The user %q was added successfully. You may edit it again below.", user.String()))
	redirect(w, r, userChangeURL(user.ID))
}

func (h *AdminHandler) renderUserAdd(ctx context.Context, w http.ResponseWriter, r *http.Request, actor accounts.Actor, form forms.UserAdd, errs forms.Errors) {
	h.render(ctx, w, http.StatusOK, "user_form", admin.UserFormView{
		Base:      h.base(r, actor, "Add user", admin.Crumb{Label: "Users", URL: "/admin/users/"}, admin.Crumb{Label: "Add user"}),
		Action:    "/admin/users/add/",
		Fields:    admin.UserAddFields(form, errs),
		Errors:    errs.For(forms.NonFieldErrors),
		IsAdd:     true,
		CanChange: true,
	})
}

// UserChangeForm handles GET /admin/users/{id}/change/
func (h *AdminHandler) UserChangeForm(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, ok := h.authorize(ctx, w, r, false)
	if !ok {
		return
	}
	user, ok := h.loadUser(ctx, w, r)
	if !ok {
		return
	}

	form := forms.UserChange{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Username:  user.Username,
		Password:  user.Password,
		IsActive:  user.IsActive,
	}
	h.renderUserChange(ctx, w, r, actor, user, form, nil)
}

// UserChange handles POST /admin/users/{id}/change/ - the edit flow; the
// submitted password field is ignored
func (h *AdminHandler) UserChange(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, ok := h.authorize(ctx, w, r, true)
	if !ok {
		return
	}
	user, ok := h.loadUser(ctx, w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.fail(ctx, w, http.StatusBadRequest, "Invalid form submission", err)
		return
	}

	form := admin.UserChangeFromValues(r.PostForm)
	updated, err := h.accounts.Edit(ctx, user.ID, form)
	if err != nil {
		var fieldErrs forms.Errors
		switch {
		case errors.As(err, &fieldErrs):
			h.renderUserChange(ctx, w, r, actor, user, form, fieldErrs)
		case errors.Is(err, accounts.ErrUserNotFound):
			h.fail(ctx, w, http.StatusNotFound, "User not found", err)
		default:
			h.fail(ctx, w, http.StatusInternalServerError, "Could not change the user", err)
		}
		return
	}

	invalidateUser(h.cache, user.ID)
	logRequest(ctx, "info", "User changed", zap.Int("user_id", user.ID))

	h.flash(w, r, fmt.Sprintf("The user %q was changed successfully.", updated.String()))
	redirect(w, r, "/admin/users/")
}

func (h *AdminHandler) renderUserChange(ctx context.Context, w http.ResponseWriter, r *http.Request, actor accounts.Actor, user *models.User, form forms.UserChange, errs forms.Errors) {
	h.render(ctx, w, http.StatusOK, "user_form", admin.UserFormView{
		Base: h.base(r, actor, "Change user",
			admin.Crumb{Label: "Users", URL: "/admin/users/"}, admin.Crumb{Label: user.String()}),
		Action:    userChangeURL(user.ID),
		Fields:    admin.UserChangeFields(form, errs),
		Errors:    errs.For(forms.NonFieldErrors),
		UserID:    user.ID,
		Password:  admin.NewPasswordDisplay(user.Password),
		CanChange: actor.CanChangeUsers(),
	})
}

// PasswordForm handles GET /admin/users/{id}/password/
func (h *AdminHandler) PasswordForm(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, ok := h.authorize(ctx, w, r, true)
	if !ok {
		return
	}
	user, ok := h.loadUser(ctx, w, r)
	if !ok {
		return
	}
	h.renderPasswordChange(ctx, w, r, actor, user, nil)
}

// PasswordChange handles POST /admin/users/{id}/password/ - the explicit
// password change flow
func (h *AdminHandler) PasswordChange(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, ok := h.authorize(ctx, w, r, false)
	if !ok {
		return
	}
	id, ok := h.pathID(ctx, w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.fail(ctx, w, http.StatusBadRequest, "Invalid form submission", err)
		return
	}

	msg, err := h.accounts.ChangePassword(ctx, actor, id, admin.PasswordChangeFromValues(r.PostForm))
	if err != nil {
		var fieldErrs forms.Errors
		switch {
		case errors.Is(err, accounts.ErrPermissionDenied):
			h.fail(ctx, w, http.StatusForbidden, "You do not have permission to change passwords", err)
		case errors.Is(err, accounts.ErrUserNotFound):
			h.fail(ctx, w, http.StatusNotFound, "User not found", err)
		case errors.As(err, &fieldErrs):
			user, ok := h.loadUser(ctx, w, r)
			if ok {
				h.renderPasswordChange(ctx, w, r, actor, user, fieldErrs)
			}
		default:
			h.fail(ctx, w, http.StatusInternalServerError, "Could not change the password", err)
		}
		return
	}

	invalidateUser(h.cache, id)
	logRequest(ctx, "info", "Password changed", zap.Int("user_id", id))

	h.flash(w, r, msg)
	redirect(w, r, userChangeURL(id))
}

func (h *AdminHandler) renderPasswordChange(ctx context.Context, w http.ResponseWriter, r *http.Request, actor accounts.Actor, user *models.User, errs forms.Errors) {
	h.render(ctx, w, http.StatusOK, "password_change", admin.PasswordChangeView{
		Base: h.base(r, actor, fmt.Sprintf("Change password: %s", user.Username),
			admin.Crumb{Label: "Users", URL: "/admin/users/"},
			admin.Crumb{Label: user.String(), URL: userChangeURL(user.ID)},
			admin.Crumb{Label: "Change password"}),
		Action:   fmt.Sprintf("/admin/users/%d/password/", user.ID),
		UserID:   user.ID,
		Username: user.Username,
		Fields:   admin.PasswordChangeFields(errs),
		Errors:   errs.For(forms.NonFieldErrors),
	})
}

// UserDeleteForm handles GET /admin/users/{id}/delete/ - confirmation page
// listing the recipes that go with the user
func (h *AdminHandler) UserDeleteForm(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, ok := h.authorize(ctx, w, r, true)
	if !ok {
		return
	}
	user, ok := h.loadUser(ctx, w, r)
	if !ok {
		return
	}

	recipes, err := h.store.ListRecipesByUser(ctx, user.ID)
	if err != nil {
		h.fail(ctx, w, http.StatusInternalServerError, "Could not load related recipes", err)
		return
	}
	related := make([]string, 0, len(recipes))
	for _, rec := range recipes {
		related = append(related, "Recipe: "+rec.Name)
	}

	h.render(ctx, w, http.StatusOK, "delete", admin.DeleteView{
		Base: h.base(r, actor, "Are you sure?",
			admin.Crumb{Label: "Users", URL: "/admin/users/"},
			admin.Crumb{Label: user.String(), URL: userChangeURL(user.ID)},
			admin.Crumb{Label: "Delete"}),
		Kind:    "user",
		Name:    user.String(),
		Action:  fmt.Sprintf("/admin/users/%d/delete/", user.ID),
		Cancel:  userChangeURL(user.ID),
		Related: related,
	})
}

// UserDelete handles POST /admin/users/{id}/delete/
func (h *AdminHandler) UserDelete(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(ctx, w, r, true); !ok {
		return
	}
	user, ok := h.loadUser(ctx, w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteUser(ctx, user.ID); err != nil {
		h.fail(ctx, w, http.StatusInternalServerError, "Could not delete the user", err)
		return
	}

	invalidateUser(h.cache, user.ID)
	h.cache.Delete(cachekeys.ListKey(recipesKind))
	logRequest(ctx, "info", "User deleted", zap.Int("user_id", user.ID))

	h.flash(w, r, fmt.Sprintf("The user %q was deleted successfully.", user.String()))
	redirect(w, r, "/admin/users/")
}

// RecipeList handles GET /admin/recipes/
func (h *AdminHandler) RecipeList(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.objectList(ctx, w, r, "recipes", "Select recipe to change", []string{"ID", "Name", "User", "Steps", "Ingredients"},
		func(q models.ListQuery) ([]admin.ObjectRow, int, error) {
			recipes, total, err := h.store.ListRecipes(ctx, q)
			rows := make([]admin.ObjectRow, 0, len(recipes))
			for _, rec := range recipes {
				owner := "-"
				if rec.UserID != nil {
					owner = strconv.Itoa(*rec.UserID)
				}
				rows = append(rows, admin.ObjectRow{ID: rec.ID, Cells: []string{
					strconv.Itoa(rec.ID), rec.Name, owner, strconv.Itoa(len(rec.Steps)), strconv.Itoa(len(rec.Ingredients)),
				}})
			}
			return rows, total, err
		})
}

// StepList handles GET /admin/steps/
func (h *AdminHandler) StepList(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.objectList(ctx, w, r, "steps", "Select step to change", []string{"ID", "Step text"},
		func(q models.ListQuery) ([]admin.ObjectRow, int, error) {
			steps, total, err := h.store.ListSteps(ctx, q)
			rows := make([]admin.ObjectRow, 0, len(steps))
			for _, st := range steps {
				rows = append(rows, admin.ObjectRow{ID: st.ID, Cells: []string{strconv.Itoa(st.ID), st.StepText}})
			}
			return rows, total, err
		})
}

// IngredientList handles GET /admin/ingredients/
func (h *AdminHandler) IngredientList(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.objectList(ctx, w, r, "ingredients", "Select ingredient to change", []string{"ID", "Text"},
		func(q models.ListQuery) ([]admin.ObjectRow, int, error) {
			ingredients, total, err := h.store.ListIngredients(ctx, q)
			rows := make([]admin.ObjectRow, 0, len(ingredients))
			for _, in := range ingredients {
				rows = append(rows, admin.ObjectRow{ID: in.ID, Cells: []string{strconv.Itoa(in.ID), in.Text}})
			}
			return rows, total, err
		})
}

func (h *AdminHandler) objectList(ctx context.Context, w http.ResponseWriter, r *http.Request, kind, title string, columns []string,
	list func(models.ListQuery) ([]admin.ObjectRow, int, error)) {
	actor, ok := h.authorize(ctx, w, r, false)
	if !ok {
		return
	}

	params := r.URL.Query()
	page := admin.NewPage(admin.ParsePage(params.Get("p")), h.site.PageSize, 0)
	rows, total, err := list(models.ListQuery{
		Search:  params.Get("q"),
		OrderBy: "name",
		Limit:   page.Size,
		Offset:  page.Offset(),
	})
	if err != nil {
		h.fail(ctx, w, http.StatusInternalServerError, "Could not list "+kind, err)
		return
	}

	label := strings.ToUpper(kind[:1]) + kind[1:]
	h.render(ctx, w, http.StatusOK, "object_list", admin.ObjectListView{
		Base:    h.base(r, actor, title, admin.Crumb{Label: label}),
		Kind:    kind,
		Columns: columns,
		Rows:    rows,
		Query:   params.Get("q"),
		Page:    admin.NewPage(page.Number, page.Size, total),
	})
}

// authorize resolves the caller from basic auth, challenging the browser
// when credentials are missing
func (h *AdminHandler) authorize(ctx context.Context, w http.ResponseWriter, r *http.Request, change bool) (accounts.Actor, bool) {
	actor, ok := h.gate.Actor(r)
	if !ok || !actor.CanViewUsers() {
		logRequest(ctx, "info", "Admin authentication required")
		w.Header().Set("WWW-Authenticate", `Basic realm="admin", charset="UTF-8"`)
		h.fail(ctx, w, http.StatusUnauthorized, "Authentication required", nil)
		return accounts.Actor{}, false
	}
	if change && !actor.CanChangeUsers() {
		h.fail(ctx, w, http.StatusForbidden, "You do not have permission to change records", nil)
		return accounts.Actor{}, false
	}
	return actor, true
}

func (h *AdminHandler) pathID(ctx context.Context, w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		h.fail(ctx, w, http.StatusNotFound, "User not found", err)
		return 0, false
	}
	return id, true
}

func (h *AdminHandler) loadUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, ok := h.pathID(ctx, w, r)
	if !ok {
		return nil, false
	}
	user, err := h.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.fail(ctx, w, http.StatusNotFound, "User not found", nil)
		} else {
			h.fail(ctx, w, http.StatusInternalServerError, "Could not load the user", err)
		}
		return nil, false
	}
	return user, true
}

func (h *AdminHandler) base(r *http.Request, actor accounts.Actor, title string, crumbs ...admin.Crumb) admin.Base {
	if len(crumbs) > 0 {
		crumbs = append([]admin.Crumb{{Label: "Home", URL: "/admin/"}}, crumbs...)
	}
	return admin.Base{
		Site:     h.site,
		Title:    title,
		Actor:    actor.Name,
		Messages: h.popMessages(r),
		Crumbs:   crumbs,
	}
}

func (h *AdminHandler) render(ctx context.Context, w http.ResponseWriter, status int, page string, data interface{}) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page, data); err != nil {
		h.fail(ctx, w, http.StatusInternalServerError, "Could not render the page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// fail writes a minimal HTML error page
func (h *AdminHandler) fail(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil && status >= http.StatusInternalServerError {
		logRequest(ctx, "error", message, zap.Error(err))
	} else {
		logRequest(ctx, "info", message, zap.Int("status", status))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>%d | %s</title></head>
<body>
<h1>%s</h1>
<p><a href="/admin/">Back to %s</a></p>
</body>
</html>`, status, html.EscapeString(h.site.Title), html.EscapeString(message), html.EscapeString(h.site.Header))))
}

// flash queues msg for the next admin page this browser renders
func (h *AdminHandler) flash(w http.ResponseWriter, r *http.Request, msg string) {
	id := uuid.New().String()
	if c, err := r.Cookie(messagesCookie); err == nil && c.Value != "" {
		id = c.Value
	}

	msgs := append(h.peekMessages(id), msg)
	body, _ := json.Marshal(msgs)
	h.cache.Set(cachekeys.FlashKey(id), string(body), cachekeys.FlashTTL)

	http.SetCookie(w, &http.Cookie{
		Name:     messagesCookie,
		Value:    id,
		Path:     "/admin/",
		HttpOnly: true,
		MaxAge:   int(cachekeys.FlashTTL.Seconds()),
	})
}

func (h *AdminHandler) popMessages(r *http.Request) []string {
	c, err := r.Cookie(messagesCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	msgs := h.peekMessages(c.Value)
	if len(msgs) > 0 {
		h.cache.Delete(cachekeys.FlashKey(c.Value))
	}
	return msgs
}

func (h *AdminHandler) peekMessages(id string) []string {
	cached, err := h.cache.Get(cachekeys.FlashKey(id))
	if err != nil {
		return nil
	}
	body, ok := cachekeys.Bytes(cached)
	if !ok {
		return nil
	}
	var msgs []string
	if err := json.Unmarshal(body, &msgs); err != nil {
		return nil
	}
	return msgs
}

func userChangeURL(id int) string {
	return fmt.Sprintf("/admin/users/%d/change/", id)
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusFound)
}
