package main

import (
	"context"

	"atelier/internal/platform/config"
	"atelier/internal/platform/logger"
	"atelier/internal/remote"
	"atelier/internal/router"
	"atelier/internal/snapshot"
	"atelier/internal/storefront/metrics"
	"atelier/internal/storefront/models"
	"atelier/internal/storefront/service"
)

// main runs a scripted demo of the client engine: snapshots are restored
// from disk, a shopper browses and fills a bag, and all state is mirrored
// back to the snapshot directory. Anonymous flows work without a backend;
// point ATELIER_API_URL at a running stubapi to exercise the remote paths
// after a previous authenticated session.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	log.Info("initializing atelier",
		"api_url", cfg.RemoteBaseURL,
		"snapshot_dir", cfg.SnapshotDir,
	)

	client := remote.New(cfg.RemoteBaseURL, remote.WithLogger(log))
	snapshots := snapshot.NewFile(cfg.SnapshotDir, log)

	store := service.New(client, snapshots,
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithHydrateConcurrency(4),
	)
	store.Hydrate(ctx)

	nav := router.New(router.NewMemoryHistory("/"), router.WithLogger(log))
	nav.Mount()

	nav.NavigateTo(router.PageShopAll)
	nav.NavigateToProduct("1")

	if err := store.AddToBag(ctx, models.BagLine{
		ProductID: "1",
		Name:      "Wool Overcoat",
		UnitPrice: 420,
		Image:     "/img/wool-overcoat.jpg",
		Size:      "M",
		Color:     "Camel",
	}); err != nil {
		log.Warn("bag add failed", "error", err)
	}
	store.UpdateBagQuantity("1", "M", "Camel", 2)

	if err := store.ToggleFavorite(ctx, "5"); err != nil {
		log.Warn("favorite toggle failed", "error", err)
	}

	nav.NavigateBack()

	state := nav.State()
	log.Info("demo finished",
		"page", string(state.CurrentPage),
		"authenticated", store.Session().IsAuthenticated(),
		"bag_lines", len(store.Bag()),
		"favorites", len(store.Favorites()),
	)

	store.WaitBackground()
}
