package app

import (
	"context"
	"errors"
	"log"
	"time"

	"carenet/internal/config"
	"carenet/internal/database"
	"carenet/internal/database/migration"
	dbpostgres "carenet/internal/database/postgres"
	"carenet/internal/database/seeder"
	"carenet/internal/infrastructure/cache"
	"carenet/internal/infrastructure/imagehost"
	"carenet/internal/infrastructure/mail"
	"carenet/internal/infrastructure/push"
	"carenet/internal/infrastructure/storage"
	"carenet/internal/pkg/jwt"
	"carenet/internal/repository"
	"carenet/internal/usecase"
	"carenet/internal/ws"
	"carenet/migrations"
)

// Container owns every long lived dependency of the API server. Optional integrations
// (object storage, image host, push, mail) stay nil when they are not configured and the
// usecases degrade accordingly.
type Container struct {
	Config config.Config
	Logger *log.Logger
	DB     database.DB
	Cache  *cache.Redis
	JWT    jwt.Service

	Hub   *ws.Hub
	Relay *ws.Relay

	Auth      *usecase.Auth
	Profiles  *usecase.Profiles
	Account   *usecase.Account
	Messaging *usecase.Messaging
	CareTeam  *usecase.CareTeam
	Posts     *usecase.Posts
	Jobs      *usecase.Jobs

	stop context.CancelFunc
	done chan struct{}
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, cfg.App.AppName)
	if err != nil {
		return nil, err
	}

	runner := migration.Runner{Dir: cfg.App.MigrationsDir, Source: migrations.FS, Logger: logger}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if cfg.Database.RunSeeders {
		seeds := seeder.Runner{Seeders: seeder.Defaults(cfg.Database.SeedPassword), Logger: logger}
		if err := seeds.Run(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Printf("Demo data seeded")
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, logger),
		JWT: jwt.NewHMACService(
			cfg.JWT.AccessSecret,
			cfg.JWT.RefreshSecret,
			cfg.JWT.AccessExpiresIn,
			cfg.JWT.RefreshExpiresIn,
		),
		Hub: ws.NewHub(logger),
	}
	c.Relay = ws.NewRelay(c.Hub, c.Cache, cfg.Realtime.Channel, logger)

	users := repository.NewPostgresUserRepository(db)
	profiles := repository.NewPostgresProfileRepository(db)
	accounts := repository.NewPostgresAccountRepository(db)
	devices := repository.NewPostgresDeviceRepository(db)

	var notifier usecase.PushNotifier
	if cfg.Push.Enabled() {
		fcm, err := push.NewFCM(ctx, cfg.Push, devices, logger)
		if err != nil {
			logger.Printf("Push disabled | error=%v", err)
		} else {
			notifier = fcm
		}
	}

	var objects usecase.ObjectStorage
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3(ctx, cfg.Storage)
		if err != nil {
			logger.Printf("Object storage disabled | error=%v", err)
		} else {
			objects = s3
		}
	}

	var images usecase.ImageHost
	if cfg.ImageHost.Enabled() {
		images = imagehost.NewClient(cfg.ImageHost, logger)
	}

	var mailer usecase.Mailer
	if cfg.Mail.Enabled() {
		mailer = mail.NewSender(cfg.Mail, logger)
	}

	var statsCache usecase.Cache
	if c.Cache.Available() {
		statsCache = c.Cache
	}

	c.Auth = usecase.NewAuthUsecase(users, accounts, profiles, c.JWT, logger)
	c.Profiles = usecase.NewProfileUsecase(profiles, users, images, statsCache, cfg.Redis.TTL, cfg.ImageHost.MaxImageBytes, logger)
	c.Account = usecase.NewAccountUsecase(profiles, accounts, devices, statsCache, logger)
	c.Messaging = usecase.NewMessagingUsecase(
		repository.NewPostgresConversationRepository(db),
		repository.NewPostgresMessageRepository(db),
		c.Relay,
		notifier,
		logger,
	)
	c.CareTeam = usecase.NewCareTeamUsecase(repository.NewPostgresCareTeamRepository(db), notifier, logger)
	c.Posts = usecase.NewPostUsecase(repository.NewPostgresPostRepository(db), logger)
	c.Jobs = usecase.NewJobUsecase(
		repository.NewPostgresJobRepository(db),
		repository.NewPostgresApplicationRepository(db),
		objects,
		mailer,
		notifier,
		usecase.JobsConfig{
			SignedURLTTL:   cfg.Storage.SignedURLTTL,
			MaxResumeBytes: cfg.Storage.MaxResumeBytes,
			AppURL:         cfg.Mail.AppURL,
		},
		logger,
	)

	return c, nil
}

// Start runs the websocket hub and the realtime relay until Close.
func (c *Container) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.stop = cancel
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)
		relayDone := make(chan struct{})
		go func() {
			c.Relay.Run(ctx)
			close(relayDone)
		}()
		c.Hub.Run(ctx)
		<-relayDone
	}()
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stop != nil {
		c.stop()
		<-c.done
	}

	var errs []error
	if err := c.Cache.Close(); err != nil {
		errs = append(errs, err)
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
