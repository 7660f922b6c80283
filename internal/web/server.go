package web

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"ecal/internal/config"
	applog "ecal/internal/log"
	"ecal/internal/store"
	"ecal/internal/sync"
	"ecal/internal/weather"
)

// Server exposes the planner HTTP API and, optionally, a static SPA.
type Server struct {
	cfg      *config.Config
	store    *store.Store
	weather  *weather.Client
	importer *sync.Importer
	app      *fiber.App
}

// New builds the Fiber application and registers all routes.
func New(cfg *config.Config, st *store.Store, wc *weather.Client, imp *sync.Importer) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		weather:  wc,
		importer: imp,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "ecal",
	})
	app.Use(recover.New())
	if s.basicAuthEnabled() {
		applog.Info("HTTP basic auth enabled")
		app.Use(s.basicAuthMiddleware())
	}

	s.app = app
	s.registerRoutes()
	return s
}

// App exposes the underlying Fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on the configured address until Shutdown.
func (s *Server) Listen() error {
	applog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
	return s.app.Listen(s.cfg.Listen)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	api.Get("/health", s.handleHealth)

	api.Get("/events.ics", s.exportEvents)
	api.Get("/events", s.listEvents)
	api.Post("/events", s.createEvent)
	api.Get("/events/:id", s.getEvent)
	api.Patch("/events/:id", s.updateEvent)
	api.Delete("/events/:id", s.deleteEvent)
	api.Get("/events/:id/occurrences", s.listOccurrences)

	api.Get("/chores", s.listChores)
	api.Post("/chores", s.createChore)
	api.Get("/chores/:id", s.getChore)
	api.Patch("/chores/:id", s.updateChore)
	api.Delete("/chores/:id", s.deleteChore)

	api.Get("/lists", s.listTodoLists)
	api.Post("/lists", s.createTodoList)
	api.Get("/lists/:id", s.getTodoList)
	api.Patch("/lists/:id", s.updateTodoList)
	api.Delete("/lists/:id", s.deleteTodoList)
	api.Get("/lists/:id/items", s.listTodoItems)
	api.Post("/lists/:id/items", s.createTodoItem)
	api.Patch("/lists/:id/items/:itemID", s.updateTodoItem)
	api.Delete("/lists/:id/items/:itemID", s.deleteTodoItem)

	api.Get("/categories", s.listCategories)
	api.Post("/categories", s.createCategory)
	api.Get("/categories/:id", s.getCategory)
	api.Patch("/categories/:id", s.updateCategory)
	api.Delete("/categories/:id", s.deleteCategory)

	api.Get("/syncs", s.listCalendarSyncs)
	api.Post("/syncs", s.createCalendarSync)
	api.Get("/syncs/:id", s.getCalendarSync)
	api.Patch("/syncs/:id", s.updateCalendarSync)
	api.Delete("/syncs/:id", s.deleteCalendarSync)

	api.Get("/weather", s.getWeather)

	api.Post("/sync/caldav", s.runCalDAVSync)

	if s.cfg.StaticDir != "" {
		s.registerStatic(s.cfg.StaticDir)
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// registerStatic serves the SPA build from dir. Non-API paths that do
// not match a file fall back to index.html so client-side routing
// works.
func (s *Server) registerStatic(dir string) {
	s.app.Static("/", dir)
	s.app.Use(func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "not found"})
		}
		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			return fiber.ErrNotFound
		}
		return c.SendFile(index)
	})
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware guards all endpoints except /api/health.
func (s *Server) basicAuthMiddleware() fiber.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return func(c *fiber.Ctx) error {
		if c.Path() == "/api/health" {
			return c.Next()
		}

		u, p, ok := parseBasicAuth(c.Get(fiber.HeaderAuthorization))
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="ecal", charset="UTF-8"`)
			return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: "unauthorized"})
		}
		return c.Next()
	}
}

func parseBasicAuth(header string) (username, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	username, password, ok = strings.Cut(string(decoded), ":")
	return username, password, ok
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
