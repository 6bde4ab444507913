//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"github.com/itshubble/hubble-server/internal/biz"
	"github.com/itshubble/hubble-server/internal/conf"
	"github.com/itshubble/hubble-server/internal/data"
	"github.com/itshubble/hubble-server/internal/server"
	"github.com/itshubble/hubble-server/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Bootstrap, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(server.ProviderSet, data.ProviderSet, biz.ProviderSet, service.ProviderSet, newApp))
}
