package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/augur/pkg/domain"
	"github.com/google/uuid"
)

type individual struct {
	classes []domain.ClassID
	objects map[string][]domain.IndividualID
	data    map[string][]any
}

// Ontology implements ports.Ontology in memory.
// Individuals are enumerated in insertion order. Safe for concurrent use.
type Ontology struct {
	id string

	mu          sync.RWMutex
	order       []domain.IndividualID
	individuals map[domain.IndividualID]*individual
	supers      map[domain.ClassID][]domain.ClassID
	objectProps map[string]struct{}
	dataProps   map[string]domain.Datatype
	newID       func(class domain.ClassID) domain.IndividualID
}

// OntologyOption configures an Ontology.
type OntologyOption func(*Ontology)

// WithIDGenerator overrides how NewIndividual names fresh individuals.
func WithIDGenerator(fn func(class domain.ClassID) domain.IndividualID) OntologyOption {
	return func(o *Ontology) {
		o.newID = fn
	}
}

// NewOntology creates an empty ontology identified by id.
func NewOntology(id string, opts ...OntologyOption) *Ontology {
	o := &Ontology{
		id:          id,
		individuals: make(map[domain.IndividualID]*individual),
		supers:      make(map[domain.ClassID][]domain.ClassID),
		objectProps: make(map[string]struct{}),
		dataProps:   make(map[string]domain.Datatype),
		newID: func(class domain.ClassID) domain.IndividualID {
			return domain.IndividualID(string(class) + "-" + uuid.NewString())
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ID returns the ontology identity.
func (o *Ontology) ID() string {
	return o.id
}

// DeclareClass declares a class and its direct superclasses.
func (o *Ontology) DeclareClass(class domain.ClassID, supers ...domain.ClassID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, s := range supers {
		if !slices.Contains(o.supers[class], s) {
			o.supers[class] = append(o.supers[class], s)
		}
	}
	if _, ok := o.supers[class]; !ok {
		o.supers[class] = nil
	}
}

// DeclareObjectProperty declares an object property.
func (o *Ontology) DeclareObjectProperty(names ...string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, n := range names {
		o.objectProps[n] = struct{}{}
	}
}

// DeclareDataProperty declares a data property with its range.
func (o *Ontology) DeclareDataProperty(name string, rng domain.Datatype) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dataProps[name] = rng
}

// AddIndividual adds an individual asserted to classes.
func (o *Ontology) AddIndividual(id domain.IndividualID, classes ...domain.ClassID) error {
	if id == "" {
		return fmt.Errorf("individual ID cannot be empty")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.individuals[id]; exists {
		return fmt.Errorf("individual %s already exists", id)
	}
	o.insertLocked(id, classes)
	return nil
}

func (o *Ontology) insertLocked(id domain.IndividualID, classes []domain.ClassID) {
	ind := &individual{
		objects: make(map[string][]domain.IndividualID),
		data:    make(map[string][]any),
	}
	for _, c := range classes {
		if !slices.Contains(ind.classes, c) {
			ind.classes = append(ind.classes, c)
		}
	}
	o.individuals[id] = ind
	o.order = append(o.order, id)
}

// Len returns the number of individuals.
func (o *Ontology) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.order)
}

// isA reports whether class c is sub (reflexively, transitively) of target.
func (o *Ontology) isALocked(c, target domain.ClassID, seen map[domain.ClassID]bool) bool {
	if c == target {
		return true
	}
	if seen[c] {
		return false
	}
	seen[c] = true
	for _, s := range o.supers[c] {
		if o.isALocked(s, target, seen) {
			return true
		}
	}
	return false
}

// Individuals returns the individuals asserted to class or one of its declared subclasses.
func (o *Ontology) Individuals(ctx context.Context, class domain.ClassID) ([]domain.IndividualID, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]domain.IndividualID, 0, len(o.order))
	for _, id := range o.order {
		if class == domain.Thing {
			out = append(out, id)
			continue
		}
		for _, c := range o.individuals[id].classes {
			if o.isALocked(c, class, map[domain.ClassID]bool{}) {
				out = append(out, id)
				break
			}
		}
	}
	return out, nil
}

func (o *Ontology) lookupLocked(id domain.IndividualID) (*individual, error) {
	ind, ok := o.individuals[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrIndividualNotFound, id)
	}
	return ind, nil
}

// Classes returns the asserted classes of an individual.
func (o *Ontology) Classes(ctx context.Context, id domain.IndividualID) ([]domain.ClassID, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	ind, err := o.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(ind.classes), nil
}

// AddClass asserts class on an individual. Asserting a present class is a no-op.
func (o *Ontology) AddClass(ctx context.Context, id domain.IndividualID, class domain.ClassID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	ind, err := o.lookupLocked(id)
	if err != nil {
		return err
	}
	if !slices.Contains(ind.classes, class) {
		ind.classes = append(ind.classes, class)
	}
	return nil
}

// RemoveClass retracts class from an individual. Retracting an absent class is a no-op.
func (o *Ontology) RemoveClass(ctx context.Context, id domain.IndividualID, class domain.ClassID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	ind, err := o.lookupLocked(id)
	if err != nil {
		return err
	}
	ind.classes = slices.DeleteFunc(ind.classes, func(c domain.ClassID) bool { return c == class })
	return nil
}

// ObjectValues returns the targets of property on an individual.
func (o *Ontology) ObjectValues(ctx context.Context, id domain.IndividualID, property string) ([]domain.IndividualID, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if _, ok := o.objectProps[property]; !ok {
		return nil, fmt.Errorf("%w: object property %s", domain.ErrPropertyNotDeclared, property)
	}
	ind, err := o.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(ind.objects[property]), nil
}

// AddObjectValue asserts property(id, target). Duplicate assertions are ignored.
func (o *Ontology) AddObjectValue(ctx context.Context, id domain.IndividualID, property string, target domain.IndividualID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.objectProps[property]; !ok {
		return fmt.Errorf("%w: object property %s", domain.ErrPropertyNotDeclared, property)
	}
	ind, err := o.lookupLocked(id)
	if err != nil {
		return err
	}
	if _, err := o.lookupLocked(target); err != nil {
		return err
	}
	if !slices.Contains(ind.objects[property], target) {
		ind.objects[property] = append(ind.objects[property], target)
	}
	return nil
}

// DataValues returns the values of a data property on an individual.
func (o *Ontology) DataValues(ctx context.Context, id domain.IndividualID, property string) ([]any, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if _, ok := o.dataProps[property]; !ok {
		return nil, fmt.Errorf("%w: data property %s", domain.ErrPropertyNotDeclared, property)
	}
	ind, err := o.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(ind.data[property]), nil
}

// SetDataValue replaces the values of a data property.
func (o *Ontology) SetDataValue(ctx context.Context, id domain.IndividualID, property string, value any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.dataProps[property]; !ok {
		return fmt.Errorf("%w: data property %s", domain.ErrPropertyNotDeclared, property)
	}
	ind, err := o.lookupLocked(id)
	if err != nil {
		return err
	}
	ind.data[property] = []any{value}
	return nil
}

// DataRange returns the declared range of a data property.
func (o *Ontology) DataRange(ctx context.Context, property string) (domain.Datatype, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	rng, ok := o.dataProps[property]
	if !ok {
		return domain.DatatypeAny, fmt.Errorf("%w: data property %s", domain.ErrPropertyNotDeclared, property)
	}
	return rng, nil
}

// NewIndividual creates a fresh individual asserted to class.
func (o *Ontology) NewIndividual(ctx context.Context, class domain.ClassID) (domain.IndividualID, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.newID(class)
	if _, exists := o.individuals[id]; exists {
		return "", fmt.Errorf("generated individual ID %s already exists", id)
	}
	o.insertLocked(id, []domain.ClassID{class})
	return id, nil
}

// Describe returns a copy of everything asserted about an individual.
func (o *Ontology) Describe(ctx context.Context, id domain.IndividualID) (domain.Description, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	ind, err := o.lookupLocked(id)
	if err != nil {
		return domain.Description{}, err
	}
	desc := domain.Description{
		ID:      id,
		Classes: slices.Clone(ind.classes),
		Objects: make(map[string][]domain.IndividualID, len(ind.objects)),
		Data:    make(map[string][]any, len(ind.data)),
	}
	for p, vals := range ind.objects {
		if len(vals) > 0 {
			desc.Objects[p] = slices.Clone(vals)
		}
	}
	for p, vals := range ind.data {
		if len(vals) > 0 {
			desc.Data[p] = slices.Clone(vals)
		}
	}
	return desc, nil
}

// Schema is the TBox subset the in-memory ontology knows about.
type Schema struct {
	Classes          map[domain.ClassID][]domain.ClassID
	ObjectProperties []string
	DataProperties   map[string]domain.Datatype
}

// Schema returns a copy of the declared classes and properties.
func (o *Ontology) Schema() Schema {
	o.mu.RLock()
	defer o.mu.RUnlock()
	s := Schema{
		Classes:          make(map[domain.ClassID][]domain.ClassID, len(o.supers)),
		ObjectProperties: slices.Sorted(maps.Keys(o.objectProps)),
		DataProperties:   maps.Clone(o.dataProps),
	}
	for c, supers := range o.supers {
		s.Classes[c] = slices.Clone(supers)
	}
	return s
}
