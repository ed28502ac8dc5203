package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB                Pinger
	GatewayConfigured bool
	ImageStore        string
}

// Report is the health payload.
type Report struct {
	OK         bool   `json:"ok"`
	Database   string `json:"database"`
	Gateway    string `json:"gateway"`
	ImageStore string `json:"imageStore"`
}

// NewService constructs a new health service. db may be nil when running on
// in-memory repositories.
func NewService(db Pinger, gatewayConfigured bool, imageStore string) *Service {
	return &Service{DB: db, GatewayConfigured: gatewayConfigured, ImageStore: imageStore}
}

// Status reports dependency state. Only an unreachable database makes it not OK;
// a missing gateway still serves classification and parsing.
func (s *Service) Status(ctx context.Context) Report {
	if s == nil {
		return Report{OK: true, Database: "memory", Gateway: "unconfigured", ImageStore: "inline"}
	}
	r := Report{OK: true, Database: "memory", Gateway: "unconfigured", ImageStore: s.ImageStore}
	if r.ImageStore == "" {
		r.ImageStore = "inline"
	}
	if s.GatewayConfigured {
		r.Gateway = "configured"
	}
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			r.OK = false
			r.Database = "down"
		} else {
			r.Database = "ok"
		}
	}
	return r
}
