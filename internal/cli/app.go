package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/studyprep/internal/cache"
	"github.com/ppiankov/studyprep/internal/catalog"
	"github.com/ppiankov/studyprep/internal/chat"
	"github.com/ppiankov/studyprep/internal/llm"
	"github.com/ppiankov/studyprep/internal/logging"
	"github.com/ppiankov/studyprep/internal/model"
	"github.com/ppiankov/studyprep/internal/selector"
	"github.com/ppiankov/studyprep/internal/util"
)

// availabilityTimeout bounds the startup reachability check of an LLM provider
const availabilityTimeout = 5 * time.Second

// app holds the components every command wires together
type app struct {
	cfg      *model.Config
	logger   *zap.SugaredLogger
	selector *selector.Selector
	engine   *chat.Engine
}

// newApp builds the catalog, generator and engine from configuration.
// Extra options are applied after the configured ones.
func newApp(cfg *model.Config, opts ...chat.Option) (*app, error) {
	logger, err := logging.New(cfg.Output.LogMode, cfg.Output.Verbose)
	if err != nil {
		return nil, err
	}

	cat, err := openCatalog(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Output.Verbose && cfg.Chat.CatalogFile != "" {
		fmt.Fprintf(os.Stderr, "Using catalog: %s\n", cfg.Chat.CatalogFile)
	}

	sel := selector.New(cat, cfg.Chat.VerifyThreshold)

	gen, err := newGenerator(cfg, sel, logger)
	if err != nil {
		return nil, err
	}

	engineOpts := []chat.Option{
		chat.WithGenerator(gen),
		chat.WithOptions(chat.Options{
			PrimaryDelay: cfg.Chat.PrimaryDelay,
			VerifyDelay:  cfg.Chat.VerifyDelay,
		}),
		chat.WithLogger(logger),
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		selector: sel,
		engine:   chat.NewEngine(sel, append(engineOpts, opts...)...),
	}, nil
}

// openCatalog loads the configured catalog file or URL. Downloads go through
// the same proxy settings as the LLM client.
func openCatalog(ctx context.Context, cfg *model.Config) (*catalog.Catalog, error) {
	var fetcher *catalog.Fetcher
	if catalog.IsRemote(cfg.Chat.CatalogFile) {
		client := util.NewHTTPClient(cfg.LLM.HTTPProxy, cfg.LLM.HTTPSProxy, cfg.LLM.NoProxy)
		fetcher = catalog.NewFetcher(client, time.Duration(cfg.LLM.Timeout)*time.Second)
	}
	cat, err := catalog.Open(ctx, cfg.Chat.CatalogFile, fetcher)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

// newGenerator returns the canned generator unless an LLM provider is configured
func newGenerator(cfg *model.Config, sel *selector.Selector, logger *zap.SugaredLogger) (chat.Generator, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("configure LLM: %w", err)
	}
	if provider == nil {
		return chat.NewCannedGenerator(sel), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), availabilityTimeout)
	defer cancel()
	if !provider.IsAvailable(ctx) {
		fmt.Fprintf(os.Stderr, "Warning: LLM provider %s is unreachable, using catalog answers\n", provider.Name())
		logger.Warnw("LLM provider unreachable, falling back to catalog answers", "provider", provider.Name())
		return chat.NewCannedGenerator(sel), nil
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "LLM: %s/%s\n", provider.Name(), cfg.LLM.Model)
	}

	genOpts := []llm.GeneratorOption{llm.WithModel(cfg.LLM.Model), llm.WithLogger(logger)}
	if cfg.Cache.Enabled {
		genOpts = append(genOpts, llm.WithCache(
			cache.New(cfg.Cache.Dir, cfg.Cache.MemoryTTL, cfg.Cache.DiskTTL),
			0, // each layer applies its own TTL
		))
	}
	return llm.NewGenerator(provider, sel, genOpts...), nil
}

// engineOptions translates the shared --instant and --random-seed flags
func engineOptions(instant bool, seed int64) []chat.Option {
	var opts []chat.Option
	if instant {
		opts = append(opts, chat.WithClock(chat.InstantClock{}))
	}
	if seed != 0 {
		opts = append(opts, chat.WithRandom(selector.NewSeededRandom(uint64(seed))))
	}
	return opts
}
