//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/RGisanEclipse/neuronote-go/internal/infra/config"
	"github.com/RGisanEclipse/neuronote-go/pkg/logger"
)

func initializeApp() (*App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideSession,
		provideStore,
		provideAuthClient,
		provideTokenManager,
		provideRetryingExecutor,
		provideOTPClient,
		newApp,
	)
	return nil, nil
}
