package ctrl

import (
	"context"
	"io"
	"time"

	"github.com/niposch/wake-on-lan-web/internal/auth"
	"github.com/niposch/wake-on-lan-web/internal/auth/jwt"
	"github.com/niposch/wake-on-lan-web/internal/config"
	"github.com/niposch/wake-on-lan-web/internal/repo/s3"
	"github.com/niposch/wake-on-lan-web/internal/wol"
)

type AppRepo interface {
	authRepo
	deviceRepo
	userRepo
	Ping(ctx context.Context) error
}

type AppCtrl interface {
	authCtrl
	deviceCtrl
	userCtrl
	Health(ctx context.Context) error
}

type CacheService interface {
	io.Closer
	GetToStruct(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, t time.Duration, key string, val any)
	Delete(ctx context.Context, key string)
	InvalidateKeysByPattern(ctx context.Context, pattern string)
}

// WakeSender hands a magic packet to the network layer.
type WakeSender interface {
	Send(ctx context.Context, pkt wol.MagicPacket, addr string, port int) error
}

// AgentService issues a remote shutdown through the companion agent.
type AgentService interface {
	Shutdown(ctx context.Context, ip string) error
}

type S3Service interface {
	UploadFile(ctx context.Context, req *s3.UploadFileRequest) (string, error)
}

type Controller struct {
	au      auth.Core
	tokens  jwt.Port
	repo    AppRepo
	cache   CacheService
	s3      S3Service
	wake    WakeSender
	agent   AgentService
	wolPort int
}

func New(
	au auth.Core,
	tokens jwt.Port,
	repo AppRepo,
	cache CacheService,
	s3 S3Service,
	wake WakeSender,
	agent AgentService,
	conf config.Config,
) *Controller {
	return &Controller{
		au:      au,
		tokens:  tokens,
		repo:    repo,
		cache:   cache,
		s3:      s3,
		wake:    wake,
		agent:   agent,
		wolPort: conf.Wol.Port,
	}
}

func (c *Controller) Health(ctx context.Context) error {
	return c.repo.Ping(ctx)
}
