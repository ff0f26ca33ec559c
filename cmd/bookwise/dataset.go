package main

import (
	"context"

	"bookwise/books"
	"bookwise/llm/tools"
	"bookwise/logger"
	"bookwise/metrics"
)

// openEngine builds the query engine over the configured dataset. In reload
// mode the file is read on every query and load errors surface per call.
func openEngine(ctx context.Context) (*books.Engine, error) {
	loadCfg := books.LoadConfig{
		Path:     cfg.Dataset.Path,
		Encoding: cfg.Dataset.Encoding,
	}
	log := logger.For(ctx).WithField("path", loadCfg.Path)

	if cfg.Dataset.ReloadPerCall {
		log.Info("dataset is reloaded on every query")
		return books.NewReloadingEngine(loadCfg), nil
	}

	done := logger.Track(ctx, "dataset load")
	ds, err := books.Load(loadCfg)
	done()
	if err != nil {
		metrics.ObserveDatasetLoad(0, err)
		return nil, err
	}
	metrics.ObserveDatasetLoad(ds.Len(), nil)
	log.WithField("records", ds.Len()).Info("dataset loaded")
	return books.NewEngine(ds), nil
}

// newBookRegistry returns a registry holding the two book tools.
func newBookRegistry(engine tools.BookSearcher) (*tools.Registry, error) {
	reg := tools.NewRegistry()
	if err := tools.RegisterBookTools(reg, engine); err != nil {
		return nil, err
	}
	return reg, nil
}
