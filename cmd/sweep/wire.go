//go:build wireinject
// +build wireinject

package main

import (
	"github.com/itshubble/hubble-server/internal/biz"
	"github.com/itshubble/hubble-server/internal/conf"
	"github.com/itshubble/hubble-server/internal/data"

	"github.com/google/wire"
)

// wireApp 初始化应用
func wireApp(*conf.Bootstrap) (*SweepApp, func(), error) {
	panic(wire.Build(
		newLogger,
		data.ProviderSet,
		biz.ProviderSet,
		wire.Struct(new(SweepApp), "*"),
	))
}
