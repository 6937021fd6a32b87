// Package httpapi exposes conversations over HTTP: a blocking run endpoint, a
// newline-delimited JSON streaming endpoint, and a human-input endpoint that
// feeds a live conversation's inbound queue.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hupe1980/chatmesh/driver"
	"github.com/hupe1980/chatmesh/feature"
	"github.com/hupe1980/chatmesh/logging"
)

// Options configures a Server.
type Options struct {
	// Logger receives request-level events. Defaults to NoOp.
	Logger logging.Logger
}

// Server wires the feature registry and the conversation driver into a gin
// router.
type Server struct {
	features *feature.Registry
	driver   *driver.Driver
	logger   logging.Logger
}

// NewServer constructs a Server.
func NewServer(features *feature.Registry, drv *driver.Driver, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Server{features: features, driver: drv, logger: opts.Logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)

	v1 := r.Group("/v1")
	{
		v1.GET("/features", s.handleListFeatures)
		v1.POST("/chats/:feature", s.handleRunChat)
		v1.POST("/chats/:feature/stream", s.handleStreamChat)
		v1.POST("/conversations/:id/input", s.handlePushInput)
	}

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "conversations": s.driver.Live()})
}

func (s *Server) handleListFeatures(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"features": s.features.Names()})
}

// handleRunChat runs a conversation to completion and returns its result. A
// conversation that terminates without a recognizable final answer (turn cap,
// nothing authoritative) is still a success: finalText is null and the full
// history is returned. Only infrastructure failures produce 5xx.
func (s *Server) handleRunChat(c *gin.Context) {
	conv, ok := s.launch(c)
	if !ok {
		return
	}

	result, err := driver.Collect(c.Request.Context(), conv.Bridge.Outbound())
	if err != nil {
		s.logger.Error("conversation collection failed", "conversation_id", conv.ID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Conversation-Id", conv.ID)
	c.JSON(http.StatusOK, result)
}

// handleStreamChat streams envelopes as NDJSON, one JSON object per line,
// ending with the sentinel. The conversation is tied to the request context:
// a disconnecting client cancels it.
func (s *Server) handleStreamChat(c *gin.Context) {
	conv, ok := s.launch(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("X-Conversation-Id", conv.ID)
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	for env := range conv.Bridge.Outbound() {
		if err := enc.Encode(env); err != nil {
			s.logger.Warn("stream write failed", "conversation_id", conv.ID, "error", err.Error())
			conv.Cancel()
			return
		}
		c.Writer.Flush()
	}
}

func (s *Server) handlePushInput(c *gin.Context) {
	var body struct {
		Input string `json:"input"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.driver.PushInput(c.Param("id"), body.Input); err != nil {
		if errors.Is(err, driver.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// launch resolves the feature, builds a fresh chat from the request seed, and
// starts the conversation. Returns false after writing the error response.
func (s *Server) launch(c *gin.Context) (*driver.Conversation, bool) {
	name := c.Param("feature")

	feat, err := s.features.Get(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}

	seed := map[string]any{}
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&seed); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seed payload"})
			return nil, false
		}
	}

	g, seedMsg, err := feat.Build(seed)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	conv := s.driver.Launch(c.Request.Context(), name, g, seedMsg)
	s.logger.Info("conversation started", "conversation_id", conv.ID, "feature", name)

	return conv, true
}
