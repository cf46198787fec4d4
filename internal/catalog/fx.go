package catalog

import (
	"github.com/offerlab/preventivo/internal/catalog/repository"
	"github.com/offerlab/preventivo/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
