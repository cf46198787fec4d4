package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/offerlab/preventivo/internal/clock"
	"github.com/offerlab/preventivo/internal/logger"
	"github.com/offerlab/preventivo/internal/migration"
	"github.com/offerlab/preventivo/internal/server"
	"github.com/offerlab/preventivo/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Functional domains. server.Module pulls in config, catalog
		// and quote and registers all routes.
		server.Module,
		migration.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
