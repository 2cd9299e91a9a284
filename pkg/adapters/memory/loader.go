package memory

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/augur/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Document is the YAML form of an in-memory ontology.
type Document struct {
	ID               string                     `yaml:"id"`
	Classes          map[string][]string        `yaml:"classes,omitempty"`
	ObjectProperties []string                   `yaml:"object_properties,omitempty"`
	DataProperties   map[string]domain.Datatype `yaml:"data_properties,omitempty"`
	Individuals      []domain.Description       `yaml:"individuals,omitempty"`
}

// LoadFile reads an ontology document from path.
func LoadFile(path string, opts ...OntologyOption) (*Ontology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ontology %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, opts...)
}

// Load decodes an ontology document.
// Individuals are created first so that object values may reference any of them.
func Load(r io.Reader, opts ...OntologyOption) (*Ontology, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode ontology: %w", err)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("ontology document is missing an id")
	}

	o := NewOntology(doc.ID, opts...)
	for class, supers := range doc.Classes {
		ss := make([]domain.ClassID, len(supers))
		for i, s := range supers {
			ss[i] = domain.ClassID(s)
		}
		o.DeclareClass(domain.ClassID(class), ss...)
	}
	o.DeclareObjectProperty(doc.ObjectProperties...)
	for p, rng := range doc.DataProperties {
		o.DeclareDataProperty(p, rng)
	}

	for _, ind := range doc.Individuals {
		if err := o.AddIndividual(ind.ID, ind.Classes...); err != nil {
			return nil, err
		}
	}

	ctx := context.Background()
	for _, ind := range doc.Individuals {
		for p, targets := range ind.Objects {
			for _, t := range targets {
				if err := o.AddObjectValue(ctx, ind.ID, p, t); err != nil {
					return nil, fmt.Errorf("individual %s: %w", ind.ID, err)
				}
			}
		}
		for p, vals := range ind.Data {
			if len(vals) == 0 {
				continue
			}
			if err := o.SetDataValue(ctx, ind.ID, p, vals[0]); err != nil {
				return nil, fmt.Errorf("individual %s: %w", ind.ID, err)
			}
		}
	}
	return o, nil
}

// Document returns the YAML form of the ontology.
func (o *Ontology) Document(ctx context.Context) (Document, error) {
	schema := o.Schema()
	doc := Document{
		ID:               o.ID(),
		Classes:          make(map[string][]string, len(schema.Classes)),
		ObjectProperties: schema.ObjectProperties,
		DataProperties:   schema.DataProperties,
	}
	for c, supers := range schema.Classes {
		ss := make([]string, len(supers))
		for i, s := range supers {
			ss[i] = string(s)
		}
		doc.Classes[string(c)] = ss
	}

	ids, err := o.Individuals(ctx, domain.Thing)
	if err != nil {
		return Document{}, err
	}
	for _, id := range ids {
		desc, err := o.Describe(ctx, id)
		if err != nil {
			return Document{}, err
		}
		doc.Individuals = append(doc.Individuals, desc)
	}
	return doc, nil
}

// Save writes the ontology as YAML.
func (o *Ontology) Save(ctx context.Context, w io.Writer) error {
	doc, err := o.Document(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode ontology: %w", err)
	}
	return enc.Close()
}
