// Package explorer holds the filter/result state of the sales table and
// sequences the fetches that change it.
//
// Coordinator is not safe for concurrent use. It is meant to be owned by a
// single writer (the bubbletea Update loop); only Pending.Run may be called
// from another goroutine.
package explorer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/thesavant42/salesview/internal/models"
)

// Phase is the lifecycle state of the view.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseErrored:
		return "errored"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Fetcher returns the rows matching a serialized query.
type Fetcher interface {
	FetchRows(ctx context.Context, params models.QueryParams) ([]models.Row, error)
}

// View is the single "current criteria + current result" pair.
type View struct {
	criteria models.FilterCriteria
	phase    Phase
	result   *models.ResultSet
	err      error
	seq      uint64 // last issued sequence number
}

// Pending is a fetch that has been issued but not yet run.
type Pending struct {
	Seq      uint64
	Criteria models.FilterCriteria

	fetcher Fetcher
	params  models.QueryParams
}

// Outcome is the result of running a Pending fetch.
type Outcome struct {
	Seq      uint64
	Criteria models.FilterCriteria
	Rows     []models.Row
	Err      error
}

// Run performs the fetch. It does not touch the View and may be called
// from any goroutine.
func (p Pending) Run(ctx context.Context) Outcome {
	rows, err := p.fetcher.FetchRows(ctx, p.params)
	return Outcome{Seq: p.Seq, Criteria: p.Criteria, Rows: rows, Err: err}
}

// Coordinator owns one View and drives every transition on it.
type Coordinator struct {
	view    View
	fetcher Fetcher
	logger  *log.Logger
}

// NewCoordinator returns a Coordinator in the Empty state.
func NewCoordinator(fetcher Fetcher, logger *log.Logger) *Coordinator {
	return &Coordinator{
		view:    View{criteria: models.ClearCriteria(), phase: PhaseEmpty},
		fetcher: fetcher,
		logger:  logger,
	}
}

// Phase returns the current lifecycle state.
func (c *Coordinator) Phase() Phase { return c.view.phase }

// Criteria returns the criteria currently being edited.
func (c *Coordinator) Criteria() models.FilterCriteria { return c.view.criteria }

// Result returns the last loaded ResultSet. It stays visible while a newer
// search is Loading and is nil after Clear or a failed fetch.
func (c *Coordinator) Result() *models.ResultSet { return c.view.result }

// Err returns the failure that put the view into Errored.
func (c *Coordinator) Err() error { return c.view.err }

// Seq returns the last issued sequence number.
func (c *Coordinator) Seq() uint64 { return c.view.seq }

// SetField edits one criteria field. The displayed result is left alone
// until the next Search.
func (c *Coordinator) SetField(key models.FilterKey, value string) error {
	next, err := c.view.criteria.SetField(key, value)
	if err != nil {
		return err
	}
	c.view.criteria = next
	return nil
}

// Search issues a fetch for the held criteria and moves the view to
// Loading. Any fetch still outstanding is superseded.
func (c *Coordinator) Search() Pending {
	c.view.seq++
	c.view.phase = PhaseLoading
	c.view.err = nil

	p := Pending{
		Seq:      c.view.seq,
		Criteria: c.view.criteria,
		fetcher:  c.fetcher,
		params:   c.view.criteria.Serialize(),
	}
	if c.logger != nil {
		c.logger.Debug("Search issued", "seq", p.Seq, "query", p.params.Encode())
	}
	return p
}

// Apply folds a finished fetch into the view. Outcomes for anything but
// the last issued fetch, or arriving after a Clear, are dropped and Apply
// returns false.
func (c *Coordinator) Apply(o Outcome) bool {
	if o.Seq != c.view.seq || c.view.phase != PhaseLoading {
		if c.logger != nil {
			c.logger.Debug("Stale outcome dropped", "seq", o.Seq, "current", c.view.seq, "phase", c.view.phase)
		}
		return false
	}

	if o.Err != nil {
		c.view.phase = PhaseErrored
		c.view.result = nil
		c.view.err = o.Err
		if c.logger != nil {
			c.logger.Error("Search failed", "seq", o.Seq, "criteria", o.Criteria.String(), "error", o.Err)
		}
		return true
	}

	c.view.phase = PhaseLoaded
	c.view.result = models.NewResultSet(o.Criteria, o.Rows)
	c.view.err = nil
	if c.logger != nil {
		c.logger.Info("Search loaded", "seq", o.Seq, "rows", len(o.Rows), "criteria", o.Criteria.String())
	}
	return true
}

// Clear resets the criteria, drops the result, and invalidates any
// in-flight fetch.
func (c *Coordinator) Clear() {
	c.view.seq++
	c.view.criteria = models.ClearCriteria()
	c.view.phase = PhaseEmpty
	c.view.result = nil
	c.view.err = nil
}

// NotifyExternalChange re-runs the search with the currently held criteria
// after upstream data changed. It reports false and issues nothing while
// the view is Empty.
func (c *Coordinator) NotifyExternalChange() (Pending, bool) {
	if c.view.phase == PhaseEmpty {
		return Pending{}, false
	}
	if c.logger != nil {
		c.logger.Info("External change, refreshing", "criteria", c.view.criteria.String())
	}
	return c.Search(), true
}

// Snapshot returns the ResultSet an export should be built from.
func (c *Coordinator) Snapshot() (*models.ResultSet, error) {
	if c.view.phase != PhaseLoaded || c.view.result.Len() == 0 {
		return nil, &models.PreconditionError{Reason: models.ReasonNothingToExport}
	}
	return c.view.result, nil
}
