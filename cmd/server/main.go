package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/talentbridge/staffing-platform/internal/config"
	"github.com/talentbridge/staffing-platform/internal/database"
	"github.com/talentbridge/staffing-platform/internal/handler"
	"github.com/talentbridge/staffing-platform/internal/middleware"
	"github.com/talentbridge/staffing-platform/internal/model"
	"github.com/talentbridge/staffing-platform/internal/queue"
	"github.com/talentbridge/staffing-platform/internal/repository"
	"github.com/talentbridge/staffing-platform/internal/router"
	"github.com/talentbridge/staffing-platform/internal/service"
)

func main() {
	// .env is optional; real deployments inject env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is best-effort: a nil client disables rate limiting and the
	// response cache without taking the API down with it.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	profiles := repository.NewProfileRepo(db)
	tokens := repository.NewTokenRepo(db)
	jobs := repository.NewJobRepo(db)
	applications := repository.NewApplicationRepo(db)
	savedJobs := repository.NewSavedJobRepo(db)

	identity := service.NewIdentityService(users, roles, profiles, tokens, cfg.BcryptCost)
	appSvc := service.NewApplicationService(applications, jobs, service.NewAMQPNotifier())
	saveSvc := service.NewSavedJobService(savedJobs, jobs)

	seedAdmin(cfg, identity, roles)

	authH := handler.NewAuthHandler(cfg, identity, tokens)
	publicH := handler.NewPublicHandler(cfg, jobs, appSvc)
	seekerH := handler.NewSeekerHandler(appSvc, saveSvc)
	employerH := handler.NewEmployerHandler(jobs, appSvc)
	adminH := handler.NewAdminHandler(appSvc)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, cfg.JWTSecret))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterSeeker(e, seekerH, cfg.JWTSecret)
	router.RegisterEmployer(e, employerH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, employerH, cfg.JWTSecret)

	// The consumer keeps its own reconnect loop, so a broker outage never
	// touches the HTTP server.
	go func() {
		if err := queue.StartApplicationConsumer(); err != nil {
			log.Printf("application consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin creates the bootstrap admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are both set.  Admin is not a self-service role, so
// without the seed (or a manual database insert) no admin could ever
// exist.  The seed is idempotent: an already-registered email or an
// already-assigned role is not an error.
func seedAdmin(cfg config.Config, identity *service.IdentityService, roles *repository.RoleRepo) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := identity.EnsureAccount(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Printf("admin seed: %v", err)
		return
	}
	if err := roles.Assign(ctx, id, model.RoleAdmin); err != nil && !errors.Is(err, repository.ErrRoleAssigned) {
		log.Printf("admin seed: assign role: %v", err)
		return
	}
	log.Printf("admin account ready (id=%d)", id)
}
