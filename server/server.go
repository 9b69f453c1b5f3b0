package server

import (
	"net/http"
	"strings"

	"recipe-server/confs"
	"recipe-server/db"
	httpHandler "recipe-server/handlers/http"
	"recipe-server/repositories"
	"recipe-server/services"
	"recipe-server/usecases"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	app *gin.Engine
	db  db.Database
	cfg *confs.Config
}

func NewServer(cfg *confs.Config, database db.Database) *Server {
	s := &Server{
		app: gin.Default(),
		db:  database,
		cfg: cfg,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.app
}

func (s *Server) Start() error {
	return s.app.Run(s.cfg.Server.Addr)
}

func (s *Server) setupRoutes() {
	s.app.HandleMethodNotAllowed = true
	s.app.MaxMultipartMemory = services.MaxUploadSize
	s.app.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
	})

	// Setup CORS middleware
	config := cors.DefaultConfig()
	if len(s.cfg.Server.CORSOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = s.cfg.Server.CORSOrigins
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	// Uploaded images
	s.app.Static(s.cfg.Media.URL, s.cfg.Media.Root)

	// Initialize repositories
	userRepo := repositories.NewUserPgRepository(s.db)
	tokenRepo := repositories.NewTokenPgRepository(s.db)
	recipeRepo := repositories.NewRecipePgRepository(s.db)
	tagRepo := repositories.NewTagPgRepository(s.db)
	ingredientRepo := repositories.NewIngredientPgRepository(s.db)

	// Initialize use cases
	userUseCase := usecases.NewUserUseCase(userRepo, tokenRepo)
	recipeUseCase := usecases.NewRecipeUseCase(recipeRepo, services.NewImageStore(s.cfg.Media))
	tagUseCase := usecases.NewAttributeUseCase(tagRepo)
	ingredientUseCase := usecases.NewAttributeUseCase(ingredientRepo)

	// Initialize handlers
	userHandler := httpHandler.NewUserHandler(userUseCase)
	loginHandler := httpHandler.NewLoginHandler(userUseCase)
	recipeHandler := httpHandler.NewRecipeHandler(recipeUseCase, s.cfg.Media.URL)
	tagHandler := httpHandler.NewAttributeHandler(tagUseCase)
	ingredientHandler := httpHandler.NewAttributeHandler(ingredientUseCase)
	adminHandler := httpHandler.NewAdminHandler(userUseCase)

	auth := httpHandler.TokenAuth(userUseCase)

	// a wrong method on a protected path still needs credentials first
	s.app.NoMethod(s.authUnlessPublic(auth), func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method \"" + c.Request.Method + "\" not allowed."})
	})

	// User routes
	user := s.app.Group("/user")
	{
		user.POST("/create/", userHandler.CreateUser)
		user.POST("/token/", loginHandler.CreateToken)

		me := user.Group("/me", auth)
		me.GET("/", userHandler.GetProfile)
		me.PATCH("/", userHandler.UpdateProfile)
		me.PUT("/", userHandler.UpdateProfile)
	}

	// Recipe routes
	recipe := s.app.Group("/recipe", auth)
	{
		recipes := recipe.Group("/recipes")
		{
			recipes.GET("/", recipeHandler.GetRecipes)
			recipes.POST("/", recipeHandler.CreateRecipe)
			recipes.GET("/:id/", recipeHandler.GetRecipe)
			recipes.PUT("/:id/", recipeHandler.UpdateRecipe)
			recipes.PATCH("/:id/", recipeHandler.UpdateRecipe)
			recipes.DELETE("/:id/", recipeHandler.DeleteRecipe)
			recipes.POST("/:id/upload-image/", recipeHandler.UploadImage)
		}

		attributeRoutes(recipe.Group("/tags"), tagHandler)
		attributeRoutes(recipe.Group("/ingredients"), ingredientHandler)
	}

	// Admin routes
	admin := s.app.Group("/admin", auth, httpHandler.StaffOnly())
	{
		admin.GET("/users/", adminHandler.GetAllUsers)
		admin.POST("/users/", adminHandler.CreateUser)
		admin.GET("/users/:id/", adminHandler.GetUser)
		admin.PATCH("/users/:id/", adminHandler.UpdateUser)
	}
}

func (s *Server) authUnlessPublic(auth gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch p := c.Request.URL.Path; {
		case p == "/health", p == "/user/create/", p == "/user/token/",
			strings.HasPrefix(p, strings.TrimSuffix(s.cfg.Media.URL, "/")+"/"):
			c.Next()
		default:
			auth(c)
		}
	}
}

func attributeRoutes(group *gin.RouterGroup, h *httpHandler.AttributeHandler) {
	group.GET("/", h.GetAll)
	group.POST("/", h.Create)
	group.GET("/:id/", h.Get)
	group.PUT("/:id/", h.Update)
	group.PATCH("/:id/", h.Update)
	group.DELETE("/:id/", h.Delete)
}
