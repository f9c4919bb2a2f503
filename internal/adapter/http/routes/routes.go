package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"deliverysync/internal/adapter/http/handlers"
	"deliverysync/internal/sandbox"
)

// Server is the sandbox HTTP server: the REST endpoints the client gateway
// talks to plus the websocket push endpoint.
type Server struct {
	engine   *gin.Engine
	emulator *sandbox.Emulator
	hub      *sandbox.Hub
	log      *zap.SugaredLogger
}

func NewServer(emulator *sandbox.Emulator, hub *sandbox.Hub, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		engine:   gin.New(),
		emulator: emulator,
		hub:      hub,
		log:      log,
	}
	s.setMiddlewares()
	s.registerRoutes()
	return s
}

// Run starts the server and blocks.
func (s *Server) Run(addr string) error {
	s.log.Infof("[sandbox][http] listening addr=%s", addr)
	return s.engine.Run(addr)
}

// Engine exposes the router for handler tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) setMiddlewares() {
	s.engine.Use(gin.Logger())
	s.engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.log.Errorf("[sandbox][http] recovered from panic err=%v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}

func (s *Server) registerRoutes() {
	orderHandler := handlers.NewOrderHandler(s.emulator)
	negotiationHandler := handlers.NewNegotiationHandler(s.emulator)
	authHandler := handlers.NewAuthHandler(s.emulator)

	// Password reset is the one unauthenticated REST endpoint.
	s.engine.POST("/api/auth/reset-password", authHandler.ResetPassword)

	if s.hub != nil {
		s.engine.GET("/ws", func(c *gin.Context) {
			s.hub.ServeWS(c.Writer, c.Request)
		})
	}

	authed := s.engine.Group("/", handlers.BearerAuth())
	{
		authed.GET("/order/:id", orderHandler.GetOrder)

		negotiation := authed.Group("/negotiation")
		{
			negotiation.POST("", negotiationHandler.Create)
			negotiation.GET("/order-negotiation/:orderId", negotiationHandler.GetByOrderID)
			negotiation.PUT("/:id/customer-response", negotiationHandler.CustomerResponse)
			negotiation.GET("/customer/pending", negotiationHandler.PendingForCustomer)
		}
	}
}
