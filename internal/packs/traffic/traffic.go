// Package traffic is a demo directive pack over a road crossing scene.
// Positions are meters along one road, speeds meters per second.
package traffic

import (
	"bytes"
	"context"
	_ "embed"
	"math"

	"github.com/aretw0/augur/pkg/adapters/memory"
	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/dsl"
)

// Scene is the YAML ontology the pack is written against.
//
//go:embed scene.yaml
var Scene []byte

const (
	// SpeedLimit is 50 km/h.
	SpeedLimit = 13.9
	// Near is the distance under which two agents interact.
	Near = 50.0
	// Horizon bounds the distances worth reifying.
	Horizon = 500.0
)

// YieldQuery pairs drivers approaching a crossing with the pedestrians on it.
const YieldQuery = `result(D, P) :- object_value(D, "approaches", Z), object_value(P, "on", Z).`

// LoadScene parses Scene into a fresh in-memory ontology.
func LoadScene(opts ...memory.OntologyOption) (*memory.Ontology, error) {
	return memory.Load(bytes.NewReader(Scene), opts...)
}

// Declare returns the pack declarations.
func Declare() *dsl.Builder {
	b := dsl.New()

	b.Class("Vehicle").
		Equivalence("isFast", func(ctx context.Context, c domain.Call) (bool, error) {
			v, ok, err := number(ctx, c.View, c.Self, "speed")
			return ok && v > SpeedLimit, err
		}).
		Target("FastVehicle")

	driver := b.Class("Driver")
	driver.Subsumption("isSpeeding", speeding).Target("Speeder")

	driver.ObjectProperty("approaches", "approaches", func(ctx context.Context, c domain.Call) (bool, error) {
		d, ok, err := distance(ctx, c.View, c.Self, c.Arg(0))
		return ok && d <= Near, err
	}).Params("Crossing")

	driver.DataProperty("risk", "risk", domain.Value(func(ctx context.Context, c domain.Call) (string, error) {
		fast, err := speeding(ctx, c)
		if err != nil {
			return "", err
		}
		if fast {
			return "high", nil
		}
		return "low", nil
	}))

	driver.ReifiedObjectProperty("encounter", "Encounter", []string{"driver", "pedestrian"},
		func(ctx context.Context, c domain.Call) (bool, error) {
			d, ok, err := distance(ctx, c.View, c.Self, c.Arg(0))
			return ok && d <= Near, err
		}).Params("Pedestrian")

	driver.ReifiedDataProperty("distance", "Distance", "from", "to", "meters",
		func(ctx context.Context, c domain.Call) (any, error) {
			d, ok, err := distance(ctx, c.View, c.Self, c.Arg(0))
			if err != nil || !ok || d > Horizon {
				return nil, err
			}
			return d, nil
		}).Params("Crossing")

	driver.ObjectProperty("yields", "yieldsTo", func(context.Context, domain.Call) (bool, error) {
		return true, nil
	}).Query(YieldQuery, "D", "P")

	return b
}

// speeding holds when any vehicle driven by the self instance exceeds the limit.
func speeding(ctx context.Context, c domain.Call) (bool, error) {
	cars, err := c.View.ObjectValues(ctx, c.Self, "drives")
	if err != nil {
		return false, err
	}
	for _, car := range cars {
		v, ok, err := number(ctx, c.View, car, "speed")
		if err != nil {
			return false, err
		}
		if ok && v > SpeedLimit {
			return true, nil
		}
	}
	return false, nil
}

func distance(ctx context.Context, view domain.View, a, b domain.IndividualID) (float64, bool, error) {
	pa, ok, err := number(ctx, view, a, "position")
	if err != nil || !ok {
		return 0, false, err
	}
	pb, ok, err := number(ctx, view, b, "position")
	if err != nil || !ok {
		return 0, false, err
	}
	return math.Abs(pa - pb), true, nil
}

// number returns the first numeric value of a data property.
func number(ctx context.Context, view domain.View, id domain.IndividualID, property string) (float64, bool, error) {
	vals, err := view.DataValues(ctx, id, property)
	if err != nil || len(vals) == 0 {
		return 0, false, err
	}
	switch v := vals[0].(type) {
	case float64:
		return v, true, nil
	case int:
		return float64(v), true, nil
	}
	return 0, false, nil
}
