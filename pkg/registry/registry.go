package registry

import (
	"sync"

	"github.com/aretw0/augur/pkg/domain"
)

// Registry records the augmentation directives declared on classes.
// Classes and directives are kept in registration order.
type Registry struct {
	mu         sync.RWMutex
	classes    []domain.ClassID
	directives map[domain.ClassID][]domain.Directive
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		directives: make(map[domain.ClassID][]domain.Directive),
	}
}

// Augment marks a class as augmented without registering a directive.
// Marking a class twice is a no-op.
func (r *Registry) Augment(class domain.ClassID) error {
	if class == "" {
		return domain.Configf("", "class identifier is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markLocked(class)
	return nil
}

func (r *Registry) markLocked(class domain.ClassID) {
	if _, ok := r.directives[class]; ok {
		return
	}
	r.classes = append(r.classes, class)
	r.directives[class] = nil
}

// Register validates and records one directive.
// It returns a *domain.ConfigurationError if the directive is malformed or its
// (class, name) pair is already registered.
func (r *Registry) Register(d domain.Directive) error {
	if err := Validate(d); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.directives[d.Class] {
		if existing.Name == d.Name {
			return domain.Configf(d.ID(), "function registered twice on %s", d.Class)
		}
	}
	r.markLocked(d.Class)
	r.directives[d.Class] = append(r.directives[d.Class], d.Clone())
	return nil
}

// Validate checks a directive without registering it.
func Validate(d domain.Directive) error {
	id := d.ID()
	switch {
	case d.Class == "":
		return domain.Configf(id, "owning class is required")
	case d.Name == "":
		return domain.Configf(id, "function name is required")
	case d.Func == nil:
		return domain.Configf(id, "function is nil")
	case d.Spec == nil:
		return domain.Configf(id, "augmentation kind is required")
	}

	if err := d.Spec.Validate(); err != nil {
		return &domain.ConfigurationError{Directive: id, Reason: d.Kind().String() + " parameters", Err: err}
	}

	if extra := d.Arity() - 1; len(d.Params) > extra {
		return domain.Configf(id, "%s takes %d parameter type(s), got %d", d.Kind(), extra, len(d.Params))
	}

	if q := d.Query; q != nil {
		if (q.Text == "") == (q.File == "") {
			return domain.Configf(id, "query needs exactly one of text or file")
		}
		if len(q.Variables) > 0 && len(q.Variables) != d.Arity() {
			return domain.Configf(id, "query declares %d variable(s), function takes %d", len(q.Variables), d.Arity())
		}
	}
	return nil
}

// Classes returns the augmented classes in registration order.
func (r *Registry) Classes() []domain.ClassID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ClassID, len(r.classes))
	copy(out, r.classes)
	return out
}

// DirectivesFor returns copies of the directives of a class in registration order.
func (r *Registry) DirectivesFor(class domain.ClassID) []domain.Directive {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.directives[class]
	out := make([]domain.Directive, len(list))
	for i, d := range list {
		out[i] = d.Clone()
	}
	return out
}

// Lookup returns one directive by class and name.
func (r *Registry) Lookup(class domain.ClassID, name string) (domain.Directive, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.directives[class] {
		if d.Name == name {
			return d.Clone(), true
		}
	}
	return domain.Directive{}, false
}

// Len returns the total number of registered directives.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, list := range r.directives {
		n += len(list)
	}
	return n
}
