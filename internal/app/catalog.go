package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"ocl/internal/adapters/cache"
	"ocl/internal/adapters/http"
	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
	"ocl/internal/services/catalog"
	"ocl/internal/services/config"
)

// CatalogFactory creates the catalog service on first use. Commands that
// never reach the catalog do not open the cache or ask for its settings.
// It implements domain.ClusterLister and domain.NamespaceLister.
type CatalogFactory struct {
	provider domain.ConfigProvider
	vars     domain.VariableSource
	logger   *slog.Logger

	cacheOnce sync.Once
	store     *cache.Store
	cacheErr  error

	serviceOnce sync.Once
	service     *catalog.Service
	serviceErr  error
}

// NewCatalogFactory creates a new catalog factory.
func NewCatalogFactory(provider domain.ConfigProvider, vars domain.VariableSource, logger *slog.Logger) *CatalogFactory {
	return &CatalogFactory{
		provider: provider,
		vars:     vars,
		logger:   logger,
	}
}

// ListClusters implements domain.ClusterLister.
func (f *CatalogFactory) ListClusters(ctx context.Context) ([]domain.Cluster, error) {
	svc, err := f.Service(ctx)
	if err != nil {
		return nil, err
	}
	return svc.ListClusters(ctx)
}

// ListNamespaces implements domain.NamespaceLister.
func (f *CatalogFactory) ListNamespaces(ctx context.Context) ([]domain.Namespace, error) {
	svc, err := f.Service(ctx)
	if err != nil {
		return nil, err
	}
	return svc.ListNamespaces(ctx)
}

// Cache opens the query cache.
func (f *CatalogFactory) Cache() (*cache.Store, error) {
	f.cacheOnce.Do(func() {
		dir, err := f.provider.GetCacheDir()
		if err != nil {
			f.cacheErr = err
			return
		}
		f.store, f.cacheErr = cache.Open(dir, f.logger)
	})
	return f.store, f.cacheErr
}

// Service returns the catalog service, creating it on the first call.
func (f *CatalogFactory) Service(ctx context.Context) (*catalog.Service, error) {
	f.serviceOnce.Do(func() {
		f.service, f.serviceErr = f.createService(ctx)
	})
	return f.service, f.serviceErr
}

func (f *CatalogFactory) createService(ctx context.Context) (*catalog.Service, error) {
	settings, err := f.settings(ctx)
	if err != nil {
		return nil, err
	}

	store, err := f.Cache()
	if err != nil {
		return nil, err
	}

	httpAdapter := http.NewAdapter(probeTimeout, false, f.logger)
	client := catalog.NewClient(httpAdapter, store, settings, f.logger)
	return catalog.NewService(client, f.logger), nil
}

func (f *CatalogFactory) settings(ctx context.Context) (catalog.Settings, error) {
	url, err := f.vars.Get(ctx, config.VarAppInterfaceURL)
	if err != nil {
		return catalog.Settings{}, err
	}
	token, err := f.vars.GetSecret(ctx, config.VarAppInterfaceToken)
	if err != nil {
		return catalog.Settings{}, err
	}

	rawTTL, err := f.vars.GetDefault(ctx, config.VarCacheTimeoutMinutes,
		strconv.Itoa(int(catalog.DefaultCacheTTL/time.Minute)))
	if err != nil {
		return catalog.Settings{}, err
	}
	minutes, err := strconv.Atoi(rawTTL)
	if err != nil || minutes < 0 {
		return catalog.Settings{}, cerrors.NewConfigurationError(config.VarCacheTimeoutMinutes, rawTTL,
			fmt.Sprintf("%s must be a non-negative number of minutes", config.EnvName(config.VarCacheTimeoutMinutes)), err)
	}

	return catalog.Settings{
		URL:   url,
		Token: token,
		TTL:   time.Duration(minutes) * time.Minute,
	}, nil
}

// Close closes the query cache when it was opened.
func (f *CatalogFactory) Close() error {
	if f.store == nil {
		return nil
	}
	return f.store.Close()
}
