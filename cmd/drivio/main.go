package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/drivio/drivio/internal/clock"
	"github.com/drivio/drivio/internal/config"
	"github.com/drivio/drivio/internal/logger"
	"github.com/drivio/drivio/internal/migration"
	"github.com/drivio/drivio/internal/scheduler"
	"github.com/drivio/drivio/internal/server"
	"github.com/drivio/drivio/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
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
