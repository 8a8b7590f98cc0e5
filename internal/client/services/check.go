package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/safescan/internal/client/client"
	"github.com/dmitrijs2005/safescan/internal/client/models"
	"github.com/dmitrijs2005/safescan/internal/common"
	"github.com/dmitrijs2005/safescan/internal/logging"
)

const (
	opLookup = "lookup"
	opCheck  = "check"
)

// ActiveProfileSource yields the profile new history entries are recorded under.
type ActiveProfileSource interface {
	Active() models.Profile
}

// ScanOutcome is the result of looking up one barcode. Either NotFound is set
// (with optional Similar candidates) or Product, Item and Pending are.
type ScanOutcome struct {
	Barcode  string
	Product  *models.Product
	Item     *models.HistoryItem
	NotFound bool
	Message  string
	Similar  []models.SimilarProduct
	Pending  *PendingCheck
}

// CheckReport is what a completed ingredient check produced.
type CheckReport struct {
	Result       models.CheckResult
	Item         models.HistoryItem
	Notification *models.Notification
}

// PendingCheck is the deferred, user-initiated ingredient check of a looked-up
// product. Nothing runs until Run is called.
type PendingCheck struct {
	svc     *CheckService
	product models.Product
}

func (p *PendingCheck) Barcode() string { return p.product.Barcode }

// Run calls the remote check and records its result.
func (p *PendingCheck) Run(ctx context.Context) (*CheckReport, error) {
	return p.svc.runCheck(ctx, p.product)
}

// CheckService sequences lookup, history recording and the deferred check.
// Responses overtaken by a newer request for the same barcode are discarded
// with common.ErrStaleResponse.
type CheckService struct {
	products ProductService
	profiles ActiveProfileSource
	history  *HistoryCache
	client   client.Client
	log      logging.Logger

	tokens  *requestTokens
	applyMu sync.Mutex
}

func NewCheckService(products ProductService, profiles ActiveProfileSource, history *HistoryCache, c client.Client, log logging.Logger) *CheckService {
	return &CheckService{
		products: products,
		profiles: profiles,
		history:  history,
		client:   c,
		log:      log,
		tokens:   newRequestTokens(),
	}
}

// Lookup resolves barcode. An unknown barcode is not an error: the outcome has
// NotFound set. A found product is recorded in history under the active
// profile and the outcome carries the pending check.
func (s *CheckService) Lookup(ctx context.Context, barcode string) (*ScanOutcome, error) {
	barcode = strings.TrimSpace(barcode)
	tok := s.tokens.next(opLookup, barcode)
	product, err := s.products.Lookup(ctx, barcode)

	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if !s.tokens.claim(opLookup, barcode, tok) {
		s.log.Debug(ctx, "discarding stale lookup", "barcode", barcode)
		return nil, common.ErrStaleResponse
	}

	var nf *ProductNotFoundError
	if errors.As(err, &nf) {
		return &ScanOutcome{Barcode: nf.Barcode, NotFound: true, Message: nf.Message, Similar: nf.Similar}, nil
	}
	if err != nil {
		return nil, err
	}

	item, err := s.history.RecordScan(ctx, product.Barcode, *product, s.profiles.Active())
	if err != nil {
		return nil, fmt.Errorf("record scan: %w", err)
	}
	return &ScanOutcome{
		Barcode: product.Barcode,
		Product: product,
		Item:    &item,
		Pending: &PendingCheck{svc: s, product: product.Clone()},
	}, nil
}

// LookupSimilar looks up the index-th similar candidate of a not-found outcome.
func (s *CheckService) LookupSimilar(ctx context.Context, outcome *ScanOutcome, index int) (*ScanOutcome, error) {
	if outcome == nil || !outcome.NotFound || index < 0 || index >= len(outcome.Similar) {
		return nil, ErrNoSuchCandidate
	}
	return s.Lookup(ctx, outcome.Similar[index].Barcode)
}

func (s *CheckService) runCheck(ctx context.Context, product models.Product) (*CheckReport, error) {
	barcode := product.Barcode
	tok := s.tokens.next(opCheck, barcode)
	result, err := s.client.Check(ctx, barcode, product.RawAttributes)

	s.applyMu.Lock()
	if !s.tokens.claim(opCheck, barcode, tok) {
		s.applyMu.Unlock()
		s.log.Debug(ctx, "discarding stale check", "barcode", barcode)
		return nil, common.ErrStaleResponse
	}
	if err != nil {
		s.applyMu.Unlock()
		return nil, classify(err)
	}
	item, notification, err := s.history.RecordCheckResult(ctx, barcode, *result)
	s.applyMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("record check result: %w", err)
	}

	if err := s.client.SaveHistory(ctx, item); err != nil {
		s.log.Warn(ctx, "saving history remotely failed", "barcode", barcode, "error", err)
	}

	return &CheckReport{Result: *result, Item: item, Notification: notification}, nil
}

// Watch is the single subscriber of a scanner's decoded-value channel. Every
// value is looked up and handed to handle. It returns when events is closed
// or ctx is done.
func (s *CheckService) Watch(ctx context.Context, events <-chan string, handle func(*ScanOutcome, error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case barcode, ok := <-events:
			if !ok {
				return
			}
			handle(s.Lookup(ctx, barcode))
		}
	}
}
