package domain

import "time"

// RunStatus is the outcome of one ontology pass.
type RunStatus string

const (
	StatusAugmented   RunStatus = "augmented"
	StatusAlreadyDone RunStatus = "already_done"
	StatusFailed      RunStatus = "failed"
)

// RunRecord marks an ontology as augmented.
type RunRecord struct {
	OntologyID  string    `json:"ontology_id"`
	CompletedAt time.Time `json:"completed_at"`
	Changes     int       `json:"changes"`
}

// DirectiveResult summarizes one directive within a pass.
type DirectiveResult struct {
	Directive  string        `json:"directive"`
	Kind       Kind          `json:"kind"`
	Candidates int           `json:"candidates"`
	Changes    int           `json:"changes"`
	Duration   time.Duration `json:"duration"`
}

// OntologyResult summarizes one ontology within an augmentation call.
type OntologyResult struct {
	OntologyID     string            `json:"ontology_id"`
	Status         RunStatus         `json:"status"`
	Changes        int               `json:"changes"`
	NewIndividuals []IndividualID    `json:"new_individuals,omitempty"`
	Directives     []DirectiveResult `json:"directives,omitempty"`
}

// Report is the outcome of an augmentation call, in ontology argument order.
type Report struct {
	Ontologies []OntologyResult `json:"ontologies"`
}

// Changes returns the total number of ABox changes across all ontologies.
func (r *Report) Changes() int {
	total := 0
	for _, o := range r.Ontologies {
		total += o.Changes
	}
	return total
}

// NewIndividuals returns every individual created by reification.
func (r *Report) NewIndividuals() []IndividualID {
	var ids []IndividualID
	for _, o := range r.Ontologies {
		ids = append(ids, o.NewIndividuals...)
	}
	return ids
}

// Result returns the result for one ontology.
func (r *Report) Result(ontologyID string) (OntologyResult, bool) {
	for _, o := range r.Ontologies {
		if o.OntologyID == ontologyID {
			return o, true
		}
	}
	return OntologyResult{}, false
}
