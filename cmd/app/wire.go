//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/crop-advisor/internal/bootstrap"
	"github.com/yanqian/crop-advisor/internal/domain/admin"
	"github.com/yanqian/crop-advisor/internal/domain/crop"
	"github.com/yanqian/crop-advisor/internal/domain/report"
	"github.com/yanqian/crop-advisor/internal/domain/session"
	"github.com/yanqian/crop-advisor/internal/infra/config"
	"github.com/yanqian/crop-advisor/internal/infra/export"
	"github.com/yanqian/crop-advisor/internal/infra/predictor"
	httpiface "github.com/yanqian/crop-advisor/internal/interface/http"
	"github.com/yanqian/crop-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideCropConfig,
		provideSessionConfig,
		provideReportConfig,
		provideAdminConfig,
		providePredictorClient,
		provideHistoryRepository,
		provideStatsStore,
		provideArchiveStorage,
		provideRateLimiter,
		export.NewXLSXWriter,
		crop.NewService,
		report.NewService,
		admin.NewService,
		session.NewRegistry,
		wire.Bind(new(crop.Predictor), new(*predictor.Client)),
		wire.Bind(new(report.HistorySource), new(crop.Service)),
		wire.Bind(new(report.HistoryWriter), new(*export.XLSXWriter)),
		wire.Bind(new(session.Recommender), new(crop.Service)),
		httpiface.NewPresenter,
		httpiface.NewHandler,
		httpiface.NewPageHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
