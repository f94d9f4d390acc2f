package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/voyage-tours/voyage/docs"
	v1 "github.com/voyage-tours/voyage/internal/api/handler/v1"
	"github.com/voyage-tours/voyage/internal/api/handler/web"
	"github.com/voyage-tours/voyage/internal/api/middleware"
	"github.com/voyage-tours/voyage/internal/config"
	"github.com/voyage-tours/voyage/internal/pkg/media"
	"github.com/voyage-tours/voyage/internal/repository"
	"github.com/voyage-tours/voyage/internal/repository/dao"
	"github.com/voyage-tours/voyage/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	hub         *web.CommentHub
	loginLimits *middleware.RateLimiter
}

type repositories struct {
	users     *repository.UserRepository
	catalog   *repository.CatalogRepository
	carts     *repository.CartRepository
	favorites *repository.FavoriteRepository
	comments  *repository.CommentRepository
}

type services struct {
	auth      *service.AuthService
	users     *service.UserService
	catalog   *service.CatalogService
	carts     *service.CartService
	favorites *service.FavoriteService
	comments  *service.CommentService
	admin     *service.AdminService
}

func NewServer(conf *config.AppConfig, db *gorm.DB, store *media.Store) (*Server, error) {
	engine, err := newEngine(conf)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Config:      conf,
		Router:      engine,
		hub:         web.NewCommentHub(),
		loginLimits: middleware.NewRateLimiter(conf.API.LoginRatePerMinute),
	}

	repos := initRepositories(db)
	svcs := s.initServices(repos, store)

	s.MountMiddlewares(middleware.NewAuthenticator(conf.API.JWTSigningKey, svcs.users))
	s.Router.SetHTMLTemplate(web.Templates(store))
	s.Router.Static(conf.Media.URL, store.Root())

	s.MountWebHandlers(svcs, store)
	s.MountAPIHandlers(svcs, store)

	return s, nil
}

// newEngine builds a bare engine whose ClientIP only honours X-Forwarded-For
// from the configured proxies.
func newEngine(conf *config.AppConfig) (*gin.Engine, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	if err := engine.SetTrustedProxies(conf.API.TrustedProxies); err != nil {
		return nil, fmt.Errorf("engine.SetTrustedProxies -> %w", err)
	}

	return engine, nil
}

func initRepositories(db *gorm.DB) repositories {
	catalogDAO := dao.NewCatalogDAO(db)

	return repositories{
		users:     repository.NewUserRepository(dao.NewUserDAO(db)),
		catalog:   repository.NewCatalogRepository(catalogDAO),
		carts:     repository.NewCartRepository(dao.NewCartDAO(db), dao.NewPaymentDAO(db), dao.NewTransactor(db)),
		favorites: repository.NewFavoriteRepository(dao.NewFavoriteDAO(db)),
		comments:  repository.NewCommentRepository(dao.NewCommentDAO(db)),
	}
}

func (s *Server) initServices(repos repositories, store *media.Store) services {
	return services{
		auth:      service.NewAuthService(repos.users),
		users:     service.NewUserService(repos.users, store),
		catalog:   service.NewCatalogService(repos.catalog, repos.favorites),
		carts:     service.NewCartService(repos.carts, repos.catalog),
		favorites: service.NewFavoriteService(repos.favorites, repos.catalog),
		comments:  service.NewCommentService(repos.comments, repos.catalog, s.hub),
		admin:     service.NewAdminService(repos.catalog, repos.carts, repos.favorites, repos.users, store),
	}
}

func (s *Server) MountMiddlewares(auth *middleware.Authenticator) {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.Metrics())
	s.Router.Use(auth.Identify())
}

func (s *Server) MountWebHandlers(svcs services, store *media.Store) {
	catalog := web.NewCatalogHandler(svcs.catalog, svcs.comments)
	carts := web.NewCartHandler(svcs.carts)
	favorites := web.NewFavoriteHandler(svcs.favorites)
	profiles := web.NewProfileHandler(svcs.users, svcs.favorites, store)
	accounts := web.NewAccountHandler(svcs.auth, s.Config.API.JWTSigningKey, s.Config.API.TokenTTL)

	getPost := []string{http.MethodGet, http.MethodPost}
	r := s.Router

	r.GET("/", catalog.HandleIndex)
	r.GET("/catalog/", catalog.HandleCatalog)
	r.Match(getPost, "/tour/:id/", catalog.HandleTourDetail)
	r.GET("/tour/:id/comments/ws", s.hub.HandleComments)

	r.Match(getPost, "/accounts/register/", accounts.HandleRegister)
	r.GET("/accounts/login/", accounts.HandleLogin)
	r.POST("/accounts/login/", middleware.RateLimit(s.loginLimits, web.HandleLoginRateLimited), accounts.HandleLogin)
	r.Match(getPost, "/accounts/logout/", accounts.HandleLogout)

	private := r.Group("/", middleware.RequireLogin())
	{
		private.GET("/cart/", carts.HandleCart)
		private.Match(getPost, "/cart/add/:id/", carts.HandleAdd)
		private.Match(getPost, "/cart/remove/:id/", carts.HandleRemove)
		private.Match(getPost, "/checkout/", carts.HandleCheckout)
		private.GET("/tickets/", carts.HandleTickets)

		private.GET("/favorites/", favorites.HandleFavorites)
		private.Match(getPost, "/favorites/add/:id/", favorites.HandleToggle)
		private.Match(getPost, "/favorites/remove/:id/", favorites.HandleRemove)

		private.Match(getPost, "/profile/", profiles.HandleProfile)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", v1.HandleHealthcheck)
}

func (s *Server) MountAPIHandlers(svcs services, store *media.Store) {
	const basePath = "/api/v1"

	authHandler := v1.NewAuthHandler(s.Config.API, svcs.auth)
	adminHandler := v1.NewAdminHandler(svcs.admin, store)
	verify := middleware.NewAuthenticator(s.Config.API.JWTSigningKey, svcs.users).VerifyJWT()

	api := s.Router.Group(basePath)
	{
		api.POST("/auth/signup", authHandler.HandleSignup)
		api.POST("/auth/login", middleware.RateLimit(s.loginLimits, v1.HandleRateLimited), authHandler.HandleLogin)
	}

	admin := api.Group("/admin", verify, middleware.RequireStaff())
	{
		admin.GET("/categories", adminHandler.HandleListCategories)
		admin.POST("/categories", adminHandler.HandleCreateCategory)
		admin.DELETE("/categories/:categoryID", adminHandler.HandleDeleteCategory)

		admin.GET("/tours", adminHandler.HandleListTours)
		admin.POST("/tours", adminHandler.HandleCreateTour)
		admin.PUT("/tours/:tourID", adminHandler.HandleUpdateTour)
		admin.POST("/tours/:tourID/image", adminHandler.HandleUploadTourImage)
		admin.DELETE("/tours/:tourID", adminHandler.HandleDeleteTour)

		admin.GET("/faqs", adminHandler.HandleListFAQs)
		admin.POST("/faqs", adminHandler.HandleCreateFAQ)
		admin.DELETE("/faqs/:faqID", adminHandler.HandleDeleteFAQ)

		admin.GET("/reviews", adminHandler.HandleListReviews)
		admin.GET("/favorites", adminHandler.HandleListFavorites)
		admin.GET("/cart-items", adminHandler.HandleListCartItems)
		admin.GET("/payments", adminHandler.HandleListPayments)
		admin.GET("/profiles", adminHandler.HandleListProfiles)
	}

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Voyage API"
	docs.SwaggerInfo.Description = "Accounts and back office API of the Voyage tour catalog."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// Start runs the background workers until ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run(ctx)

	go func() {
		<-ctx.Done()
		s.loginLimits.Stop()
	}()
}
