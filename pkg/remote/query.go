package remote

import "fmt"

// Distance metrics supported by the service.
const (
	MetricL2     = "L2"
	MetricCosine = "cosine"
	MetricDot    = "dot"
)

const (
	defaultLimit   = 10
	defaultNprobes = 20
)

// VectorQuery is the wire body of a vector similarity search,
// POST /v1/table/{name}/query/. Field names follow the service's JSON
// contract.
type VectorQuery struct {
	Vector       []float32 `json:"vector"`
	K            int       `json:"k"`
	Nprobes      int       `json:"nprobes"`
	RefineFactor *int      `json:"refine_factor,omitempty"`
	Columns      []string  `json:"columns,omitempty"`
	Filter       string    `json:"filter,omitempty"`
	Prefilter    bool      `json:"prefilter"`
	Metric       string    `json:"metric,omitempty"`
	VectorColumn string    `json:"vector_column,omitempty"`
}

// NewVectorQuery starts a query for the given target vector with service
// defaults: top 10 results, 20 probes, L2 distance, no prefiltering.
func NewVectorQuery(vector []float32) *VectorQuery {
	return &VectorQuery{
		Vector:  vector,
		K:       defaultLimit,
		Nprobes: defaultNprobes,
		Metric:  MetricL2,
	}
}

// WithLimit sets the number of results to return.
func (q *VectorQuery) WithLimit(k int) *VectorQuery {
	q.K = k
	return q
}

// WithNprobes sets the number of index partitions to probe. Higher is more
// accurate and slower.
func (q *VectorQuery) WithNprobes(n int) *VectorQuery {
	q.Nprobes = n
	return q
}

// WithRefineFactor re-ranks refine*k candidates in memory for better recall.
func (q *VectorQuery) WithRefineFactor(refine int) *VectorQuery {
	q.RefineFactor = &refine
	return q
}

// WithColumns restricts the columns returned in the result.
func (q *VectorQuery) WithColumns(columns ...string) *VectorQuery {
	q.Columns = columns
	return q
}

// WithFilter applies a SQL predicate to the results.
func (q *VectorQuery) WithFilter(filter string) *VectorQuery {
	q.Filter = filter
	return q
}

// WithPrefilter applies the filter before the vector search instead of after.
func (q *VectorQuery) WithPrefilter(prefilter bool) *VectorQuery {
	q.Prefilter = prefilter
	return q
}

// WithMetric sets the distance metric (MetricL2, MetricCosine, MetricDot).
func (q *VectorQuery) WithMetric(metric string) *VectorQuery {
	q.Metric = metric
	return q
}

// WithVectorColumn names the vector column to search when the table has
// several.
func (q *VectorQuery) WithVectorColumn(column string) *VectorQuery {
	q.VectorColumn = column
	return q
}

func (q *VectorQuery) validate() error {
	if len(q.Vector) == 0 {
		return fmt.Errorf("query vector is empty")
	}
	if q.K <= 0 {
		return fmt.Errorf("query limit must be positive, got %d", q.K)
	}
	if q.Nprobes <= 0 {
		return fmt.Errorf("nprobes must be positive, got %d", q.Nprobes)
	}
	if q.RefineFactor != nil && *q.RefineFactor <= 0 {
		return fmt.Errorf("refine factor must be positive, got %d", *q.RefineFactor)
	}
	return nil
}
