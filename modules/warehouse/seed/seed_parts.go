package seed

import (
	"context"

	"github.com/Rhymond/go-money"
	"github.com/go-faster/errors"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/pkg/configuration"
)

type demoPart struct {
	name        string
	sku         string
	description string
	priceCents  int64
	stock       int
}

var demoParts = []demoPart{
	{"Brake Pad Set Front", "BRK-VENTO-001", "Front axle brake pad set, ceramic compound", 18900, 24},
	{"Brake Disc Front", "BRK-VENTO-002", "Ventilated front brake disc, 320mm", 24500, 12},
	{"Cabin Air Filter", "FLT-VENTO-001", "HEPA cabin filter with activated carbon layer", 4900, 40},
	{"Coolant Pump", "CLN-VENTO-001", "Electric coolant pump for battery thermal loop", 32900, 6},
	{"12V Auxiliary Battery", "BAT-AUX-001", "AGM auxiliary battery, 45Ah", 21900, 8},
	{"Charge Port Cover", "CHG-VENTO-001", "Replacement charge port flap assembly", 8900, 15},
	{"Wiper Blade Set", "WPR-VENTO-001", "Frameless wiper blade pair, 24/18 inch", 3900, 50},
	{"Suspension Control Arm", "SUS-VENTO-001", "Front lower control arm with bushings", 41900, 4},
}

// PartsSeedFunc loads the demo catalog, skipping SKUs that already exist so
// repeated boots stay idempotent.
func PartsSeedFunc(repo part.Repository) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		logger := configuration.Use().Logger()
		for _, d := range demoParts {
			if _, err := repo.GetBySKU(ctx, d.sku); err == nil {
				logger.Infof("Part %s already exists", d.sku)
				continue
			} else if !errors.Is(err, part.ErrNotFound) {
				return errors.Wrapf(err, "failed to look up part %s", d.sku)
			}

			p := part.New(d.name, d.sku, d.description, money.New(d.priceCents, money.USD), d.stock)
			if _, err := repo.Create(ctx, p); err != nil {
				return errors.Wrapf(err, "failed to seed part %s", d.sku)
			}
			logger.Infof("Seeded part %s", d.sku)
		}
		return nil
	}
}
