package mapserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/internal/logger"
)

// saveResponse is the answer to a save request.
type saveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Server is the map REST API plus static file serving for the game
// client.
type Server struct {
	store  *Store
	engine *gin.Engine
}

// New builds the server over a store. staticDir, when non-empty, is
// served for every non-API path.
func New(store *Store, staticDir string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLog())

	s := &Server{store: store, engine: engine}

	api := engine.Group("/api")
	api.POST("/save-map", s.handleSave)
	api.GET("/maps", s.handleList)
	api.GET("/map/:name", s.handleLoad)

	if staticDir != "" {
		files := http.FileServer(http.Dir(staticDir))
		engine.NoRoute(gin.WrapH(files))
	}
	return s
}

// Handler exposes the router, for tests and custom http servers.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	logger.Info("map server listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

// requestLog tags every request with an id and logs method, path,
// status and duration.
func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// handleSave takes the map document itself as the request body, with
// the map name carried inside it. The document is validated through the
// parser and stored in normalized form, so out-of-range values are
// clamped on the way in.
func (s *Server) handleSave(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, saveResponse{Message: "invalid request body"})
		return
	}
	doc, err := document.FromJSON(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, saveResponse{Message: "invalid map data"})
		return
	}
	data, err := doc.ToJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, saveResponse{Message: "failed to encode map"})
		return
	}
	if err := s.store.Save(doc.Name, data); err != nil {
		if errors.Is(err, ErrBadName) {
			c.JSON(http.StatusBadRequest, saveResponse{Message: "invalid map name"})
			return
		}
		logger.Error("save map failed", zap.String("name", doc.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, saveResponse{Message: "failed to save map"})
		return
	}
	c.JSON(http.StatusOK, saveResponse{Success: true, Message: "Map saved successfully"})
}

func (s *Server) handleList(c *gin.Context) {
	maps, err := s.store.List()
	if err != nil {
		logger.Error("list maps failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list maps"})
		return
	}
	c.JSON(http.StatusOK, maps)
}

func (s *Server) handleLoad(c *gin.Context) {
	name := c.Param("name")
	data, err := s.store.Load(name)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrBadName) {
		c.JSON(http.StatusNotFound, gin.H{"error": "map not found"})
		return
	}
	if err != nil {
		logger.Error("load map failed", zap.String("name", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load map"})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}
