// Package httpapi exposes the backend over REST. It maps typed service
// errors onto HTTP statuses and guards admin and teacher routes with
// JWT access levels.
package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mathrevise/backend/internal/logging"
	"github.com/mathrevise/backend/internal/server/config"
	"github.com/mathrevise/backend/internal/server/models"
	"github.com/mathrevise/backend/internal/server/services"
)

// AuthService is the slice of the auth service the HTTP layer uses.
type AuthService interface {
	ValidateLogin(ctx context.Context, username, password string) (*services.LoginResult, error)
	AddUser(ctx context.Context, in *services.NewUser) error
	UnlockUser(ctx context.Context, username string) error
	DeleteUser(ctx context.Context, username string) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

// QuizService is the slice of the quiz service the HTTP layer uses.
type QuizService interface {
	ListQuestionSets(ctx context.Context) ([]models.QuestionSet, error)
	AddQuestionSet(ctx context.Context, set *models.QuestionSet) error
	DeleteQuestionSet(ctx context.Context, name string) error
	RecordReview(ctx context.Context, username, setName string, responses []models.Response) (*models.QuizReview, error)
	ListReviews(ctx context.Context, username string) ([]models.QuizReview, error)
}

type Server struct {
	app       *fiber.App
	address   string
	jwtSecret []byte
	logger    logging.Logger

	auth AuthService
	quiz QuizService
}

func NewServer(cfg *config.Config, authSvc AuthService, quizSvc QuizService, l logging.Logger) *Server {
	s := &Server{
		address:   cfg.EndpointAddrHTTP,
		jwtSecret: []byte(cfg.SecretKey),
		logger:    l.With("module", "httpapi"),
		auth:      authSvc,
		quiz:      quizSvc,
	}

	app := fiber.New(fiber.Config{
		AppName:               "mathrevise backend",
		DisableStartupMessage: true,
	})

	app.Use(fiberrecover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	app.Get("/health", s.health)

	api := app.Group("/api/v1")
	api.Post("/login", s.login)

	// registration is open; creating elevated accounts still needs an admin
	// token, checked in the handler
	api.Post("/users", s.optionalAuth(), s.createUser)

	userGroup := api.Group("/users", s.requireAuth(), requireLevel(models.AccessAdmin))
	userGroup.Get("/", s.listUsers)
	userGroup.Post("/:username/unlock", s.unlockUser)
	userGroup.Delete("/:username", s.deleteUser)

	setGroup := api.Group("/question-sets", s.requireAuth())
	setGroup.Get("/", s.listQuestionSets)
	setGroup.Post("/", requireLevel(models.AccessTeacher, models.AccessAdmin), s.createQuestionSet)
	setGroup.Delete("/:name", requireLevel(models.AccessTeacher, models.AccessAdmin), s.deleteQuestionSet)

	reviewGroup := api.Group("/reviews", s.requireAuth())
	reviewGroup.Get("/", s.listReviews)
	reviewGroup.Post("/", s.createReview)

	s.app = app
	return s
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info(context.Background(), "http server starting", "address", s.address)
	return s.app.Listen(s.address)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
