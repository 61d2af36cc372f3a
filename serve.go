package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aouyang1/portfolio/api"
	"github.com/aouyang1/portfolio/api/client"
	"github.com/aouyang1/portfolio/auth"
	"github.com/aouyang1/portfolio/cache"
	"github.com/aouyang1/portfolio/config"
	"github.com/aouyang1/portfolio/content"
	"github.com/aouyang1/portfolio/slideshow"
	"github.com/aouyang1/portfolio/store"
)

const serverReadyTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server and the photo managers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

// openStore loads the configuration and opens the database with content and
// slider settings in place.
func openStore() (*config.Config, *store.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(cfg.PhotosDir(), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create photos directory: %w", err)
	}

	db, err := store.NewDatabase(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	settings := api.SliderSettingsFromConfig(cfg.Slider)
	if err := db.SeedSliderSettings(&settings); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to seed slider settings: %w", err)
	}
	return cfg, db, nil
}

func loadContent(path string) (*content.Content, error) {
	if path == "" {
		return content.Default()
	}
	return content.Load(path)
}

func identityConfig(cfg *config.Config) (auth.IdentityConfig, error) {
	identity := auth.Default()
	identity.HostedUI = cfg.Auth.HostedUIURL
	identity.ClientID = cfg.Auth.ClientID
	if err := identity.Validate(); err != nil {
		return auth.IdentityConfig{}, err
	}
	return identity, nil
}

func runServe(ctx context.Context) error {
	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := loadContent(cfg.ContentFile)
	if err != nil {
		return err
	}
	if _, err := content.Import(db, c, cfg.PhotosDir()); err != nil {
		return fmt.Errorf("failed to import content: %w", err)
	}

	identity, err := identityConfig(cfg)
	if err != nil {
		return err
	}

	settings, err := db.GetSliderSettings()
	if err != nil {
		return err
	}
	registry := slideshow.NewRegistry(nil, api.SliderConfig(*settings),
		slideshow.WithIdleTTL(cfg.Slider.IdleTTL),
		slideshow.WithMaxSliders(cfg.Slider.MaxSliders),
	)
	defer registry.Close()

	var pageCache cache.PageCache = cache.Noop{}
	if cfg.ValkeyAddr != "" {
		valkey, err := cache.ConnectValkey(cfg.ValkeyAddr, cfg.ValkeyPass)
		if err != nil {
			return err
		}
		defer valkey.Close()
		pageCache = cache.NewValkeyCache(valkey, cache.DefaultPageTTL)
	}

	adminToken := cfg.Admin.Token
	if adminToken == "" {
		// the photo managers still need the API
		adminToken = uuid.NewString()
		slog.Info("admin token not set, admin API limited to the photo managers")
	}

	webServer, err := api.NewWebServer(db, cfg, registry, identity,
		api.WithPageCache(pageCache),
		api.WithAdminToken(adminToken),
	)
	if err != nil {
		return err
	}
	if err := webServer.RefreshPhotos(ctx); err != nil {
		return err
	}

	photoClient := client.NewPhotoClient(cfg.WebServerURL, adminToken)
	localManager, err := api.NewLocalManager(cfg.PhotosDir(), photoClient)
	if err != nil {
		return err
	}
	reapManager, err := api.NewReapManager(registry)
	if err != nil {
		return err
	}
	remoteManager, err := api.NewRemoteManager(ctx, cfg.Remote, cfg.RemotePhotosDir(), photoClient)
	switch {
	case errors.Is(err, api.ErrRemoteDisabled):
		slog.Info("remote photo sync disabled")
	case err != nil:
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return webServer.Start(ctx) })
	g.Go(func() error { return reapManager.Run(ctx) })
	g.Go(func() error {
		// managers register photos through the server
		if err := waitForServer(ctx, photoClient); err != nil {
			return err
		}
		if remoteManager != nil {
			g.Go(func() error { return remoteManager.Run(ctx) })
		}
		return localManager.Run(ctx)
	})

	return g.Wait()
}

func waitForServer(ctx context.Context, photoClient *client.PhotoClient) error {
	ctx, cancel := context.WithTimeout(ctx, serverReadyTimeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		if _, err := photoClient.GetPhotos(store.CategoryRemote); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return errors.New("web server did not become ready")
			}
			return nil
		case <-ticker.C:
		}
	}
}
