package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/arkhamtr/internal/archive"
	"codeberg.org/snonux/arkhamtr/internal/batch"
	"codeberg.org/snonux/arkhamtr/internal/cache"
	"codeberg.org/snonux/arkhamtr/internal/cli"
	"codeberg.org/snonux/arkhamtr/internal/convert"
	"codeberg.org/snonux/arkhamtr/internal/glossary"
	"codeberg.org/snonux/arkhamtr/internal/logging"
	"codeberg.org/snonux/arkhamtr/internal/metrics"
	"codeberg.org/snonux/arkhamtr/internal/models"
	"codeberg.org/snonux/arkhamtr/internal/processor"
	"codeberg.org/snonux/arkhamtr/internal/report"
	"codeberg.org/snonux/arkhamtr/internal/translation"
)

// app holds what every command shares once flags and config are resolved
type app struct {
	flags   *cli.Flags
	logger  *logrus.Logger
	metrics *metrics.Collector
	report  *report.Reporter
}

// pipeline is the translation stack shared by translate and translate-csv
type pipeline struct {
	store      cache.Store
	translator *translation.Translator
	resolver   *processor.Resolver
}

func (a *app) init() {
	a.logger = logging.New(a.flags.LogLevel, a.flags.LogFormat, os.Stderr)
	logging.AddFields(a.logger, logrus.Fields{"run_id": uuid.NewString()})
	a.metrics = metrics.New()
	a.report = report.New(os.Stdout, a.flags.Lang)
}

func (a *app) buildPipeline(ctx context.Context) (*pipeline, error) {
	backendConfig, err := a.flags.BackendConfig(a.logger)
	if err != nil {
		return nil, err
	}
	backend, err := translation.NewBackend(ctx, backendConfig)
	if err != nil {
		return nil, err
	}

	translatorConfig, err := a.flags.TranslatorConfig(a.logger, a.metrics)
	if err != nil {
		return nil, err
	}
	translator := translation.NewTranslator(backend, translatorConfig)

	resolverConfig, err := a.flags.ResolverConfig(a.logger, a.metrics)
	if err != nil {
		return nil, err
	}
	resolverConfig.Model = translator.Model()

	g, err := glossary.Load(a.flags.GlossaryPath, a.logger)
	if err != nil {
		return nil, err
	}

	store, err := cache.Open(ctx, a.flags.CacheDSN, a.logger)
	if err != nil {
		return nil, err
	}

	a.logger.WithFields(logrus.Fields{
		"provider": backend.Name(),
		"model":    translator.Model(),
		"glossary": g.Len(),
		"cache":    a.flags.CacheDSN,
	}).Info("Translation pipeline ready")

	return &pipeline{
		store:      store,
		translator: translator,
		resolver:   processor.NewResolver(store, translator, g, resolverConfig),
	}, nil
}

func (a *app) writeMetrics() {
	if a.flags.MetricsFile == "" {
		return
	}
	if err := a.metrics.WriteTextfile(a.flags.MetricsFile); err != nil {
		a.logger.WithError(err).Warn("Failed to write metrics file")
	}
}

func (a *app) runTranslate(ctx context.Context) error {
	if err := a.flags.ValidateTranslate(); err != nil {
		return err
	}

	processorConfig, err := a.flags.ProcessorConfig(a.logger, a.metrics)
	if err != nil {
		return err
	}

	files, err := processor.FindInputs(a.flags.Root, a.flags.Packs)
	if err != nil {
		return err
	}

	p, err := a.buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.store.Close()

	if a.flags.Archive {
		archived, err := archive.ArchiveDir(processorConfig.OutputDir, time.Now())
		if err != nil {
			return err
		}
		if archived != "" {
			a.logger.WithField("archive", archived).Info("Archived previous output")
		}
	}

	proc := processor.NewProcessor(p.resolver, processorConfig)
	result, err := proc.Run(ctx, files)
	a.writeMetrics()
	a.report.Run(result, processorConfig.OutputDir, processorConfig.DryRun)

	if err != nil {
		return err
	}
	return result.Err()
}

func (a *app) runConvert() error {
	converter := convert.NewConverter(&convert.ConverterOptions{
		Fields: a.flags.ConvertColumns,
		Logger: a.logger,
	})

	result, err := converter.ConvertDir(a.flags.ConvertSource, a.flags.ConvertOutput)
	if err != nil {
		return err
	}

	a.report.Convert(result, a.flags.ConvertOutput)
	return nil
}

func (a *app) runTranslateCSV(ctx context.Context) error {
	batchConfig, err := a.flags.BatchConfig(a.logger, a.metrics)
	if err != nil {
		return err
	}
	output, err := a.flags.BatchOutputPath()
	if err != nil {
		return err
	}

	p, err := a.buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.store.Close()

	proc := batch.NewProcessor(p.resolver, p.translator, batchConfig)
	result, err := proc.TranslateFile(ctx, a.flags.BatchInput, output)
	a.writeMetrics()
	if err != nil {
		return err
	}

	a.report.Batch(result)
	return nil
}

func (a *app) runCacheStats(ctx context.Context) error {
	store, err := cache.Open(ctx, a.flags.CacheDSN, a.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	a.report.CacheStats(stats)
	return nil
}

func (a *app) runCacheImport(ctx context.Context, files []string) error {
	store, err := cache.Open(ctx, a.flags.CacheDSN, a.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, file := range files {
		rows, err := convert.ReadAudit(file)
		if err != nil {
			return err
		}

		items := make([]cache.ImportItem, 0, len(rows))
		for _, row := range rows {
			items = append(items, cache.ImportItem{
				Field:  row.Field,
				Source: row.Source,
				Target: row.Target,
			})
		}

		count, err := cache.Import(ctx, store, a.flags.ModelName(), items)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", file, err)
		}
		a.report.Imported(count, file)
	}
	return nil
}

func (a *app) runModels(ctx context.Context) error {
	lister := models.NewLister(cli.GetOpenAIKey(), a.flags.BaseURL)
	return lister.ListAvailableModels(ctx, os.Stdout)
}
