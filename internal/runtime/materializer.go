package runtime

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/ports"
)

// Outcome is what applying a directive to one tuple changed.
type Outcome struct {
	// Effect is empty when nothing changed.
	Effect  domain.Effect
	Created domain.IndividualID
}

// Changed reports whether the ABox was modified.
func (o Outcome) Changed() bool {
	return o.Effect != ""
}

// Materializer applies directives to candidate tuples.
// No-op checks run before evaluation so the function is skipped when the
// mutation could not change anything. Class equivalence always evaluates.
type Materializer struct {
	eval   Evaluator
	ledger ports.TupleLedger
}

// NewMaterializer creates a materializer recording reified tuples in ledger.
func NewMaterializer(ledger ports.TupleLedger) *Materializer {
	return &Materializer{ledger: ledger}
}

// Apply evaluates d on tuple and applies the resulting change.
func (m *Materializer) Apply(ctx context.Context, onto ports.Ontology, d domain.Directive, tuple domain.Tuple) (Outcome, error) {
	if len(tuple) != d.Arity() {
		return Outcome{}, domain.Configf(d.ID(), "tuple %s has %d slot(s), function takes %d", tuple, len(tuple), d.Arity())
	}

	switch s := d.Spec.(type) {
	case domain.ClassSubsumption:
		return m.subsume(ctx, onto, d, tuple)
	case domain.ClassEquivalence:
		return m.equate(ctx, onto, d, tuple)
	case domain.ObjectProperty:
		return m.objectProperty(ctx, onto, d, s, tuple)
	case domain.DataProperty:
		return m.dataProperty(ctx, onto, d, s, tuple)
	case domain.ReifiedObjectProperty:
		return m.reify(ctx, onto, d, tuple, s.Class, func(id domain.IndividualID, _ domain.Verdict) error {
			for i, p := range s.Properties {
				if err := onto.AddObjectValue(ctx, id, p, tuple[i]); err != nil {
					return domain.Collaborator("assert "+p, err)
				}
			}
			return nil
		})
	case domain.ReifiedDataProperty:
		return m.reify(ctx, onto, d, tuple, s.Class, func(id domain.IndividualID, v domain.Verdict) error {
			if err := onto.AddObjectValue(ctx, id, s.From, tuple[0]); err != nil {
				return domain.Collaborator("assert "+s.From, err)
			}
			if err := onto.AddObjectValue(ctx, id, s.To, tuple[1]); err != nil {
				return domain.Collaborator("assert "+s.To, err)
			}
			if err := onto.SetDataValue(ctx, id, s.Property, v.Value); err != nil {
				return domain.Collaborator("set "+s.Property, err)
			}
			return nil
		})
	default:
		return Outcome{}, domain.Configf(d.ID(), "unsupported augmentation %T", d.Spec)
	}
}

func hasClass(ctx context.Context, onto ports.Ontology, id domain.IndividualID, class domain.ClassID) (bool, error) {
	classes, err := onto.Classes(ctx, id)
	if err != nil {
		return false, domain.Collaborator("classes of "+string(id), err)
	}
	return slices.Contains(classes, class), nil
}

func (m *Materializer) subsume(ctx context.Context, onto ports.Ontology, d domain.Directive, tuple domain.Tuple) (Outcome, error) {
	self, target := tuple.Self(), d.Target()
	present, err := hasClass(ctx, onto, self, target)
	if err != nil || present {
		return Outcome{}, err
	}

	v, err := m.eval.Evaluate(ctx, onto, d, tuple)
	if err != nil || !v.Holds {
		return Outcome{}, err
	}
	if err := onto.AddClass(ctx, self, target); err != nil {
		return Outcome{}, domain.Collaborator("add class "+string(target), err)
	}
	return Outcome{Effect: domain.EffectClassAdded}, nil
}

func (m *Materializer) equate(ctx context.Context, onto ports.Ontology, d domain.Directive, tuple domain.Tuple) (Outcome, error) {
	self, target := tuple.Self(), d.Target()
	v, err := m.eval.Evaluate(ctx, onto, d, tuple)
	if err != nil {
		return Outcome{}, err
	}
	present, err := hasClass(ctx, onto, self, target)
	if err != nil {
		return Outcome{}, err
	}

	switch {
	case v.Holds && !present:
		if err := onto.AddClass(ctx, self, target); err != nil {
			return Outcome{}, domain.Collaborator("add class "+string(target), err)
		}
		return Outcome{Effect: domain.EffectClassAdded}, nil
	case !v.Holds && present:
		if err := onto.RemoveClass(ctx, self, target); err != nil {
			return Outcome{}, domain.Collaborator("remove class "+string(target), err)
		}
		return Outcome{Effect: domain.EffectClassRemoved}, nil
	}
	return Outcome{}, nil
}

func (m *Materializer) objectProperty(ctx context.Context, onto ports.Ontology, d domain.Directive, s domain.ObjectProperty, tuple domain.Tuple) (Outcome, error) {
	self, target := tuple[0], tuple[1]
	existing, err := onto.ObjectValues(ctx, self, s.Property)
	if err != nil {
		return Outcome{}, domain.Collaborator("read "+s.Property, err)
	}
	if slices.Contains(existing, target) {
		return Outcome{}, nil
	}

	v, err := m.eval.Evaluate(ctx, onto, d, tuple)
	if err != nil || !v.Holds {
		return Outcome{}, err
	}
	if err := onto.AddObjectValue(ctx, self, s.Property, target); err != nil {
		return Outcome{}, domain.Collaborator("assert "+s.Property, err)
	}
	return Outcome{Effect: domain.EffectObjectAsserted}, nil
}

func (m *Materializer) dataProperty(ctx context.Context, onto ports.Ontology, d domain.Directive, s domain.DataProperty, tuple domain.Tuple) (Outcome, error) {
	self := tuple.Self()
	existing, err := onto.DataValues(ctx, self, s.Property)
	if err != nil {
		return Outcome{}, domain.Collaborator("read "+s.Property, err)
	}
	if len(existing) > 0 {
		return Outcome{}, nil
	}

	v, err := m.eval.Evaluate(ctx, onto, d, tuple)
	if err != nil || v.Value == nil {
		return Outcome{}, err
	}
	if err := onto.SetDataValue(ctx, self, s.Property, v.Value); err != nil {
		return Outcome{}, domain.Collaborator("set "+s.Property, err)
	}
	return Outcome{Effect: domain.EffectDataSet}, nil
}

// reify creates one individual of class per holding tuple, at most once per
// tuple and directive as recorded by the ledger.
func (m *Materializer) reify(ctx context.Context, onto ports.Ontology, d domain.Directive, tuple domain.Tuple, class domain.ClassID, link func(domain.IndividualID, domain.Verdict) error) (Outcome, error) {
	key := tuple.Key()
	seen, err := m.ledger.Contains(ctx, onto.ID(), d.ID(), key)
	if err != nil {
		return Outcome{}, domain.Collaborator("tuple ledger", err)
	}
	if seen {
		return Outcome{}, nil
	}

	v, err := m.eval.Evaluate(ctx, onto, d, tuple)
	if err != nil || !v.Holds {
		return Outcome{}, err
	}

	id, err := onto.NewIndividual(ctx, class)
	if err != nil {
		return Outcome{}, domain.Collaborator("create "+string(class), err)
	}
	if err := link(id, v); err != nil {
		return Outcome{}, fmt.Errorf("reify %s%s as %s: %w", d.ID(), tuple, id, err)
	}
	if err := m.ledger.Add(ctx, onto.ID(), d.ID(), key); err != nil {
		return Outcome{}, domain.Collaborator("tuple ledger", err)
	}
	return Outcome{Effect: domain.EffectReified, Created: id}, nil
}
