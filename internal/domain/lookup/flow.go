package lookup

import (
	"context"
	"net/http"
	"sync"

	"pricetable/internal/domain/pricetable"
	"pricetable/internal/domain/product"
	"pricetable/pkg/logger"
)

// FieldErrorReporter receives the violations of a rejected barcode.
type FieldErrorReporter interface {
	ReportFieldErrors(ctx context.Context, violations []product.Violation)
}

// Content is the most recent lookup answer. It lives until the next search
// and is never merged into the product table.
type Content struct {
	Status     int
	Body       *product.Product
	Violations []product.Violation
}

// ModalView is what the detail modal renders.
type ModalView struct {
	Open     bool             `json:"open"`
	Loading  bool             `json:"loading"`
	Severity Severity         `json:"severity,omitempty"`
	Message  string           `json:"message,omitempty"`
	Status   int              `json:"status,omitempty"`
	Body     *product.Product `json:"body"`
	NotFound bool             `json:"notFound"`
	Error    string           `json:"error,omitempty"`
}

// Flow is the barcode lookup state machine:
// idle -> loading -> open, or idle with the violations reported.
type Flow struct {
	gateway  product.Gateway
	reporter FieldErrorReporter
	policy   pricetable.FailurePolicy
	log      *logger.Logger

	mu      sync.RWMutex
	loading bool
	open    bool
	content Content
	lastErr error
	issued  uint64

	inflight sync.WaitGroup
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithFailurePolicy sets what a transport failure does to the loading flag.
func WithFailurePolicy(p pricetable.FailurePolicy) FlowOption {
	return func(f *Flow) { f.policy = p }
}

// WithLogger sets the flow's logger.
func WithLogger(l *logger.Logger) FlowOption {
	return func(f *Flow) { f.log = l }
}

// NewFlow creates an idle flow.
func NewFlow(gateway product.Gateway, reporter FieldErrorReporter, opts ...FlowOption) *Flow {
	f := &Flow{
		gateway:  gateway,
		reporter: reporter,
		policy:   pricetable.ClearLoadingOnFailure,
		log:      logger.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.WithComponent("barcode-lookup")
	return f
}

// SearchByBarcode starts a lookup. Loading is set before it returns; the
// answer is applied asynchronously and only if no newer search was started.
func (f *Flow) SearchByBarcode(ctx context.Context, barcode string) {
	f.mu.Lock()
	f.issued++
	seq := f.issued
	f.loading = true
	f.lastErr = nil
	f.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	f.inflight.Add(1)
	go func() {
		defer f.inflight.Done()
		resp, err := f.gateway.GetByBarcode(ctx, barcode)
		f.settle(ctx, seq, barcode, resp, err)
	}()
}

// Close dismisses the modal and the loading indicator.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.loading = false
}

// Loading reports whether a lookup is pending.
func (f *Flow) Loading() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loading
}

// Content returns the most recent answer.
func (f *Flow) Content() Content {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.content
}

// View renders the modal state.
func (f *Flow) View() ModalView {
	f.mu.RLock()
	defer f.mu.RUnlock()

	view := ModalView{
		Open:    f.open,
		Loading: f.loading,
		Status:  f.content.Status,
	}
	if f.lastErr != nil {
		view.Error = "barcode lookup failed"
	}
	if f.content.Status == 0 {
		return view
	}

	outcome := Classify(f.content.Status)
	view.Severity = outcome.Severity
	view.Message = outcome.Message
	view.NotFound = !outcome.ShowsDetail
	if outcome.ShowsDetail {
		view.Body = f.content.Body
	}
	return view
}

// Wait blocks until every started lookup has settled.
func (f *Flow) Wait() {
	f.inflight.Wait()
}

func (f *Flow) settle(ctx context.Context, seq uint64, barcode string, resp product.LookupResponse, err error) {
	log := f.log.WithContext(ctx).With("seq", seq, "barcode", barcode)

	f.mu.Lock()
	if seq != f.issued {
		f.mu.Unlock()
		log.Debugw("discarding superseded lookup")
		return
	}

	if err != nil {
		if f.policy == pricetable.ClearLoadingOnFailure {
			f.loading = false
			f.lastErr = err
		}
		f.mu.Unlock()
		log.Errorw("barcode lookup failed", "error", err)
		return
	}

	f.content = Content{Status: resp.Status, Body: resp.Product}

	if resp.Status == http.StatusBadRequest {
		var violations []product.Violation
		if resp.Validation != nil {
			violations = resp.Validation.Violations
		}
		f.content.Violations = violations
		f.loading = false
		f.mu.Unlock()

		log.Infow("barcode rejected", "violations", len(violations))
		if f.reporter != nil {
			f.reporter.ReportFieldErrors(ctx, violations)
		}
		return
	}

	f.loading = false
	f.open = true
	f.mu.Unlock()

	log.Infow("barcode lookup settled", "status", resp.Status, "classification", Classify(resp.Status).Classification)
}
