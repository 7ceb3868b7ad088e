package server

import (
	"context"
	"net/http"
	"os"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"

	"recipe-service/accounts"
	"recipe-service/admin"
	cachepackage "recipe-service/cache"
	"recipe-service/config"
	"recipe-service/database"
	"recipe-service/handlers"
	"recipe-service/passwords"
)

type route struct {
	httpserver.Route
	handler httpserver.HandlerFunc
}

// InitLogger configures the process-wide logger
func InitLogger() {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})
}

func StartServer() {
	InitLogger()

	logger.Info("Starting Recipe Service...")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		os.Exit(1)
	}

	// Initialize database
	dbConn := database.InitializeDatabase(cfg.DatabasePath)
	defer dbConn.Close()
	store := database.NewStore(dbConn)

	// Initialize cache
	cache := cachepackage.InitializeCache(cfg)
	defer cache.Close()

	renderer, err := admin.NewRenderer()
	if err != nil {
		logger.Error("Failed to load admin templates", zap.Error(err))
		os.Exit(1)
	}
	site := admin.NewSite(cfg)

	svc := accounts.NewService(store, passwords.NewHasher(cfg.PasswordIterations))
	gate := accounts.NewGate(svc, cfg.APIToken, cfg.APIReadonlyToken, cfg.AdminUsernameList())

	// Initialize handlers
	userHandler := handlers.NewUserHandler(store, svc, cache)
	recipeHandler := handlers.NewRecipeHandler(store, cache)
	stepHandler := handlers.NewStepHandler(store, cache)
	ingredientHandler := handlers.NewIngredientHandler(store, cache)
	adminHandler := handlers.NewAdminHandler(store, svc, gate, renderer, site, cache)

	// Create HTTP server with authentication
	server := httpserver.New(cfg.HTTPPort, newCheckAuth(gate))

	for _, rt := range routes(userHandler, recipeHandler, stepHandler, ingredientHandler, adminHandler, site) {
		server.Register(rt.Route, rt.handler)
	}

	logger.Info("Recipe Service started", zap.String("port", cfg.HTTPPort))
	logger.Info("Health check: GET /health")
	logger.Info("API endpoints: /users, /recipes, /steps, /ingredients; admin: /admin/")

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}

func routes(users *handlers.UserHandler, recipes *handlers.RecipeHandler, steps *handlers.StepHandler,
	ingredients *handlers.IngredientHandler, adminPages *handlers.AdminHandler, site admin.Site) []route {
	api := func(name, method, path string, h httpserver.HandlerFunc) route {
		return route{httpserver.Route{Name: name, Method: method, Path: path, AuthType: "bearer"}, h}
	}
	// admin pages answer basic auth challenges themselves
	public := func(name, method, path string, h httpserver.HandlerFunc) route {
		return route{httpserver.Route{Name: name, Method: method, Path: path, AuthType: "none"}, h}
	}

	return []route{
		public("HealthCheck", "GET", "/health", httpserver.HandlerFunc(health)),
		public("Home", "GET", "/", httpserver.HandlerFunc(handlers.Home(site))),

		api("ListUsers", "GET", "/users", users.GetUsers),
		api("CreateUser", "POST", "/users", users.CreateUser),
		api("GetUser", "GET", "/users/{id}", users.GetUser),
		api("UpdateUser", "PUT", "/users/{id}", users.UpdateUser),
		api("PatchUser", "PATCH", "/users/{id}", users.UpdateUser),
		api("DeleteUser", "DELETE", "/users/{id}", users.DeleteUser),
		api("ChangeUserPassword", "POST", "/users/{id}/password", users.ChangePassword),

		api("ListRecipes", "GET", "/recipes", recipes.GetRecipes),
		api("CreateRecipe", "POST", "/recipes", recipes.CreateRecipe),
		api("GetRecipe", "GET", "/recipes/{id}", recipes.GetRecipe),
		api("UpdateRecipe", "PUT", "/recipes/{id}", recipes.UpdateRecipe),
		api("PatchRecipe", "PATCH", "/recipes/{id}", recipes.UpdateRecipe),
		api("DeleteRecipe", "DELETE", "/recipes/{id}", recipes.DeleteRecipe),

		api("RecipeList", "GET", "/recipe/", recipes.GetRecipes),
		api("RecipeAdd", "POST", "/recipe/add/", recipes.CreateRecipe),
		api("RecipeDetail", "GET", "/recipe/{id:[0-9]+}/detail/", recipes.GetRecipe),
		api("RecipeChange", "PUT", "/recipe/{id:[0-9]+}/change/", recipes.UpdateRecipe),
		api("RecipeDelete", "DELETE", "/recipe/{id:[0-9]+}/delete/", recipes.DeleteRecipe),
		api("RecipeByUser", "GET", "/recipe-by-user/{user}/", recipes.RecipesByUser),

		api("ListSteps", "GET", "/steps", steps.GetSteps),
		api("CreateStep", "POST", "/steps", steps.CreateStep),
		api("GetStep", "GET", "/steps/{id}", steps.GetStep),
		api("UpdateStep", "PUT", "/steps/{id}", steps.UpdateStep),
		api("PatchStep", "PATCH", "/steps/{id}", steps.UpdateStep),
		api("DeleteStep", "DELETE", "/steps/{id}", steps.DeleteStep),

		api("ListIngredients", "GET", "/ingredients", ingredients.GetIngredients),
		api("CreateIngredient", "POST", "/ingredients", ingredients.CreateIngredient),
		api("GetIngredient", "GET", "/ingredients/{id}", ingredients.GetIngredient),
		api("UpdateIngredient", "PUT", "/ingredients/{id}", ingredients.UpdateIngredient),
		api("PatchIngredient", "PATCH", "/ingredients/{id}", ingredients.UpdateIngredient),
		api("DeleteIngredient", "DELETE", "/ingredients/{id}", ingredients.DeleteIngredient),

		public("AdminIndex", "GET", "/admin/", adminPages.Index),
		public("AdminUserList", "GET", "/admin/users/", adminPages.UserList),
		public("AdminUserAddForm", "GET", "/admin/users/add/", adminPages.UserAddForm),
		public("AdminUserAdd", "POST", "/admin/users/add/", adminPages.UserAdd),
		public("AdminUserChangeForm", "GET", "/admin/users/{id}/change/", adminPages.UserChangeForm),
		public("AdminUserChange", "POST", "/admin/users/{id}/change/", adminPages.UserChange),
		public("AdminPasswordForm", "GET", "/admin/users/{id}/password/", adminPages.PasswordForm),
		public("AdminPasswordChange", "POST", "/admin/users/{id}/password/", adminPages.PasswordChange),
		public("AdminUserDeleteForm", "GET", "/admin/users/{id}/delete/", adminPages.UserDeleteForm),
		public("AdminUserDelete", "POST", "/admin/users/{id}/delete/", adminPages.UserDelete),
		public("AdminRecipeList", "GET", "/admin/recipes/", adminPages.RecipeList),
		public("AdminStepList", "GET", "/admin/steps/", adminPages.StepList),
		public("AdminIngredientList", "GET", "/admin/ingredients/", adminPages.IngredientList),
	}
}

func health(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy", "service": "recipe-service"}`))
}
