// Package server exposes the extraction pipeline over HTTP: a multipart
// PDF upload endpoint backed by the document-understanding service, and a
// raw-text endpoint backed by the heuristic parser. CORS is permissive,
// matching the single-page frontend this serves.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"invoicebridge/internal/logger"
)

// Extractor is the document-understanding boundary. The gemini client
// satisfies it; tests substitute a stub.
type Extractor interface {
	ExtractInvoice(ctx context.Context, pdf []byte) (map[string]any, error)
}

// Server serves the upload API.
type Server struct {
	engine       *gin.Engine
	extractor    Extractor
	responsesDir string
	log          zerolog.Logger
}

// New creates a server around the given extractor. Structured responses
// are persisted under responsesDir, one JSON file per upload.
func New(extractor Extractor, responsesDir string) *Server {
	s := &Server{
		extractor:    extractor,
		responsesDir: responsesDir,
		log:          logger.WithComponent("server"),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), corsMiddleware())

	engine.GET("/", s.handleRoot)
	engine.POST("/extract", s.handleExtract)
	engine.POST("/parse", s.handleParse)

	s.engine = engine
	return s
}

// Handler exposes the router, used by tests and by custom http.Server
// setups.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server on addr and blocks.
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("Starting upload server")
	return s.engine.Run(addr)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
