// Package export serializes the ABox of an ontology as RDF.
package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/augur/pkg/domain"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"
)

// DefaultBase is the namespace of identifiers that are not already IRIs.
const DefaultBase = "urn:augur:"

const (
	rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	owlNS   = "http://www.w3.org/2002/07/owl#"
	xsdNS   = "http://www.w3.org/2001/XMLSchema#"
)

// Source is the read access the exporter needs.
type Source interface {
	Individuals(ctx context.Context, class domain.ClassID) ([]domain.IndividualID, error)
	Describe(ctx context.Context, id domain.IndividualID) (domain.Description, error)
}

// Triple is one exported statement. Object is an IRI when Literal is empty.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
	Literal   bool
	Datatype  string
}

// Exporter writes ontologies as RDF.
type Exporter struct {
	Base string
}

// New creates an exporter resolving plain identifiers against base.
// An empty base selects DefaultBase.
func New(base string) *Exporter {
	if base == "" {
		base = DefaultBase
	}
	return &Exporter{Base: base}
}

// Triples returns the ABox of src in individual order. Within an individual,
// types come first, then object and data properties sorted by name.
func (e *Exporter) Triples(ctx context.Context, src Source) ([]Triple, error) {
	ids, err := src.Individuals(ctx, domain.Thing)
	if err != nil {
		return nil, fmt.Errorf("list individuals: %w", err)
	}

	var out []Triple
	for _, id := range ids {
		desc, err := src.Describe(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", id, err)
		}
		subject := e.iri(string(id))
		for _, c := range desc.Classes {
			out = append(out, Triple{Subject: subject, Predicate: rdfType, Object: e.classIRI(c)})
		}
		for _, p := range sortedKeys(desc.Objects) {
			for _, target := range desc.Objects[p] {
				out = append(out, Triple{Subject: subject, Predicate: e.iri(p), Object: e.iri(string(target))})
			}
		}
		for _, p := range sortedKeys(desc.Data) {
			for _, v := range desc.Data[p] {
				lex, dt := literal(v)
				out = append(out, Triple{Subject: subject, Predicate: e.iri(p), Object: lex, Literal: true, Datatype: dt})
			}
		}
	}
	return out, nil
}

// Write serializes the ABox of src to w.
func (e *Exporter) Write(ctx context.Context, w io.Writer, src Source, format Format) error {
	triples, err := e.Triples(ctx, src)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	switch format {
	case FormatNTriples, "":
		writeNTriples(bw, triples)
	case FormatTurtle:
		writeTurtle(bw, triples)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	return bw.Flush()
}

func writeNTriples(w *bufio.Writer, triples []Triple) {
	for _, t := range triples {
		fmt.Fprintf(w, "<%s> <%s> %s .\n", t.Subject, t.Predicate, object(t, false))
	}
}

// writeTurtle groups consecutive triples by subject.
func writeTurtle(w *bufio.Writer, triples []Triple) {
	fmt.Fprintf(w, "@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .\n")
	fmt.Fprintf(w, "@prefix owl: <%s> .\n", owlNS)
	fmt.Fprintf(w, "@prefix xsd: <%s> .\n", xsdNS)

	for i, t := range triples {
		if i == 0 || triples[i-1].Subject != t.Subject {
			fmt.Fprintf(w, "\n<%s>\n", t.Subject)
		}
		pred := "<" + t.Predicate + ">"
		if t.Predicate == rdfType {
			pred = "a"
		}
		end := " ;\n"
		if i == len(triples)-1 || triples[i+1].Subject != t.Subject {
			end = " .\n"
		}
		fmt.Fprintf(w, "    %s %s%s", pred, object(t, true), end)
	}
}

func object(t Triple, prefixed bool) string {
	if !t.Literal {
		return "<" + t.Object + ">"
	}
	s := `"` + escapeString(t.Object) + `"`
	if t.Datatype == "" {
		return s
	}
	if prefixed {
		return s + "^^xsd:" + strings.TrimPrefix(t.Datatype, xsdNS)
	}
	return s + "^^<" + t.Datatype + ">"
}

// literal returns the lexical form and XSD datatype of a data value.
func literal(v any) (string, string) {
	switch x := v.(type) {
	case string:
		return x, ""
	case bool:
		return strconv.FormatBool(x), xsdNS + "boolean"
	case int:
		return strconv.FormatInt(int64(x), 10), xsdNS + "integer"
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x), xsdNS + "integer"
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), xsdNS + "double"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), xsdNS + "double"
	default:
		return fmt.Sprintf("%v", x), ""
	}
}

func (e *Exporter) classIRI(c domain.ClassID) string {
	if c == domain.Thing {
		return owlNS + "Thing"
	}
	return e.iri(string(c))
}

// iri keeps absolute IRIs and resolves everything else against the base.
func (e *Exporter) iri(id string) string {
	if strings.Contains(id, "://") || strings.HasPrefix(id, "urn:") {
		return id
	}
	return e.Base + url.PathEscape(id)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
