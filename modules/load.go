package modules

import (
	"github.com/apexev/workshop/modules/warehouse"
	"github.com/apexev/workshop/pkg/application"
)

var BuiltInModules = []application.Module{
	warehouse.NewModule(nil),
}

func Load(app application.Application, modules ...application.Module) error {
	return application.Load(app, modules...)
}
