package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one record in a batch generation run.
type Result struct {
	id     string
	name   string
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result.
func NewOK(id, name string) Result { return Result{id: id, name: name, status: StatusOK} }

// NewError creates a failed batch result.
func NewError(id, name string, err error) Result {
	return Result{id: id, name: name, status: StatusError, err: err}
}

// ID returns the record identifier.
func (r Result) ID() string { return r.id }

// Name returns the human-readable record name, if known.
func (r Result) Name() string { return r.name }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// OK reports whether the record was processed successfully.
func (r Result) OK() bool { return r.status == StatusOK }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Summary counts successes and failures across results.
func Summary(results []Result) (succeeded, failed int) {
	for _, r := range results {
		if r.OK() {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
