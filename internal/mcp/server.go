// ABOUTME: MCP server setup for the meal planner.
// ABOUTME: Wraps the MCP server around the planning service.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harperreed/mealplan/internal/service"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with planning service access.
type Server struct {
	mcpServer *mcp.Server
	svc       *service.Service
	logger    *zap.Logger
}

// NewServer creates a new MCP server around svc.
func NewServer(svc *service.Service, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "mealplan",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
		logger:    logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio", zap.String("user_id", s.svc.UserID()))
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
