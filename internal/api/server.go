package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/campus-events-api/docs"
	v1 "github.com/vietanh2810/campus-events-api/internal/api/handler/v1"
	"github.com/vietanh2810/campus-events-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/campus-events-api/internal/api/middleware"
	"github.com/vietanh2810/campus-events-api/internal/config"
	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/pkg/spreadsheet"
	"github.com/vietanh2810/campus-events-api/internal/repository"
	"github.com/vietanh2810/campus-events-api/internal/repository/dao"
	"github.com/vietanh2810/campus-events-api/internal/repository/mongodao"
	"github.com/vietanh2810/campus-events-api/internal/service"
)

// Store holds the data access objects of one database backend.
type Store struct {
	Users    repository.UserDAO
	Clubs    repository.ClubDAO
	Events   repository.EventDAO
	Feedback repository.FeedbackDAO
}

func NewPostgresStore(db *gorm.DB) Store {
	return Store{
		Users:    dao.NewUserDAO(db),
		Clubs:    dao.NewClubDAO(db),
		Events:   dao.NewEventDAO(db),
		Feedback: dao.NewFeedbackDAO(db),
	}
}

func NewMongoStore(db *mongo.Database) Store {
	return Store{
		Users:    mongodao.NewUserDAO(db),
		Clubs:    mongodao.NewClubDAO(db),
		Events:   mongodao.NewEventDAO(db),
		Feedback: mongodao.NewFeedbackDAO(db),
	}
}

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	registry *prometheus.Registry
	authSvc  *service.AuthService
	userSvc  *service.UserService
}

type handlers struct {
	auth     *v1.AuthHandler
	user     *v1.UserHandler
	admin    *v1.AdminHandler
	club     *v1.ClubHandler
	event    *v1.EventHandler
	feedback *v1.FeedbackHandler
	report   *v1.ReportHandler
	upload   *v1.UploadHandler
}

func NewServer(conf *config.AppConfig, store Store, images service.ImageHost) (*Server, error) {
	loc, err := conf.API.Location()
	if err != nil {
		return nil, fmt.Errorf("conf.API.Location -> %w", err)
	}

	if err = request.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("request.RegisterValidators -> %w", err)
	}

	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		Config:   conf,
		Router:   engine,
		registry: registry,
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(store, images, loc))

	return s, nil
}

func (s *Server) initHandlers(store Store, images service.ImageHost, loc *time.Location) handlers {
	userRepo := repository.NewUserRepository(store.Users)
	clubRepo := repository.NewClubRepository(store.Clubs)
	eventRepo := repository.NewEventRepository(store.Events)
	feedbackRepo := repository.NewFeedbackRepository(store.Feedback)

	s.authSvc = service.NewAuthService(userRepo)
	s.userSvc = service.NewUserService(userRepo)
	clubSvc := service.NewClubService(clubRepo)
	eventSvc := service.NewEventService(eventRepo, userRepo, loc)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, eventRepo, loc)
	reportSvc := service.NewReportService(eventRepo, clubRepo, userRepo, feedbackRepo, spreadsheet.NewExcelReportWriter())
	uploadSvc := service.NewUploadService(images, s.Config.Storage.MaxUploadSize)

	return handlers{
		auth:     v1.NewAuthHandler(s.Config.API, s.authSvc),
		user:     v1.NewUserHandler(s.userSvc),
		admin:    v1.NewAdminHandler(s.authSvc, s.userSvc),
		club:     v1.NewClubHandler(clubSvc),
		event:    v1.NewEventHandler(eventSvc),
		feedback: v1.NewFeedbackHandler(feedbackSvc),
		report:   v1.NewReportHandler(reportSvc),
		upload:   v1.NewUploadHandler(uploadSvc, s.Config.Storage.MaxUploadSize),
	}
}

// BootstrapAdmin creates the configured admin account when no account
// uses its email yet.
func (s *Server) BootstrapAdmin(ctx context.Context) error {
	if !s.Config.Admin.Enabled() {
		return nil
	}

	created, err := s.authSvc.EnsureAdmin(ctx, domain.User{
		Email:    s.Config.Admin.Email,
		Name:     s.Config.Admin.Name,
		Password: s.Config.Admin.Password,
	})
	if err != nil {
		return fmt.Errorf("s.authSvc.EnsureAdmin -> %w", err)
	}
	if created {
		zap.L().Info("admin account created", zap.String("email", s.Config.Admin.Email))
	}

	return nil
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.NewMetrics(s.registry).Handler())
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	authn := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()
	role := func(roles ...domain.Role) gin.HandlerFunc {
		return middleware.RequireRole(s.userSvc, roles...)
	}

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", h.auth.HandleSignup)
		public.POST("/auth/login", h.auth.HandleLogin)

		public.GET("/events", h.event.HandleListPublicEvents)
		public.GET("/events/:eventID", h.event.HandleGetPublicEvent)
		public.GET("/events/:eventID/feedback", h.feedback.HandleEventFeedback)
		public.GET("/clubs", h.club.HandleListClubs)
		public.GET("/clubs/:clubID", h.club.HandleGetClub)
	}

	users := s.Router.Group(basePath, authn, role(domain.RoleAdmin, domain.RoleFaculty, domain.RoleCoordinator, domain.RoleStudent))
	{
		users.GET("/users/me", h.user.HandleGetMe)
		users.PATCH("/users/me", h.user.HandleUpdateMe)
		users.POST("/uploads/images", h.upload.HandleUploadImage)
	}

	admin := s.Router.Group(basePath+"/admin", authn, role(domain.RoleAdmin))
	{
		admin.POST("/faculty", h.admin.HandleRegisterFaculty)
		admin.GET("/faculty", h.admin.HandleListFaculty)
		admin.DELETE("/faculty/:userID", h.admin.HandleDeleteFaculty)
	}

	clubs := s.Router.Group(basePath+"/clubs", authn, role(domain.RoleFaculty))
	{
		clubs.POST("", h.club.HandleCreateClub)
		clubs.POST("/:clubID/coordinators", h.club.HandleAssignCoordinator)
		clubs.DELETE("/:clubID/coordinators/:userID", h.club.HandleRemoveCoordinator)
	}

	faculty := s.Router.Group(basePath+"/faculty", authn, role(domain.RoleFaculty))
	{
		faculty.GET("/events", h.event.HandleListEventsByStatus)
		faculty.GET("/events/:eventID", h.event.HandleGetEvent)
		faculty.PATCH("/events/:eventID/verify", h.event.HandleVerifyEvent)
		faculty.DELETE("/events/:eventID", h.event.HandleDeleteEvent)
		faculty.GET("/events/:eventID/report", h.report.HandleDownloadReport)
	}

	coordinator := s.Router.Group(basePath+"/coordinator", authn, role(domain.RoleCoordinator))
	{
		coordinator.POST("/events", h.event.HandleCreateEvent)
		coordinator.GET("/events", h.event.HandleListOwnEvents)
		coordinator.PATCH("/events/:eventID", h.event.HandleUpdateEvent)
		coordinator.POST("/events/:eventID/attendance", h.event.HandleMarkAttendance)
		coordinator.GET("/events/:eventID/participants", h.event.HandleParticipants)
	}

	student := s.Router.Group(basePath+"/student", authn, role(domain.RoleStudent))
	{
		student.GET("/events", h.event.HandleListStudentEvents)
		student.POST("/events/:eventID/register", h.event.HandleRegister)
		student.GET("/my-events", h.event.HandleMyEvents)
		student.POST("/events/:eventID/feedback", h.feedback.HandleSubmitFeedback)
		student.POST("/events/:eventID/reviews", h.feedback.HandleSubmitFeedback)
		student.GET("/feedback", h.feedback.HandleStudentFeedback)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Campus Events API"
	docs.SwaggerInfo.Description = "Clubs, events, registrations, attendance and feedback for a campus."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
