package workflow

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/shopkeep/internal/catalog"
	"github.com/five82/shopkeep/internal/state"
)

// ProvisionalPrefix marks ids assigned locally to records the server
// created without returning an id.
const ProvisionalPrefix = "local-"

// Outcome is the result of a submission or reload. Catalog changes have
// already been applied to the store when an Outcome is returned.
type Outcome struct {
	Gen        uint64
	Kind       RequestKind
	Notice     Notice
	Product    catalog.Product
	CloseModal bool
	Failure    *catalog.Failure
}

// Service runs workflow requests against the remote store and applies their
// results to the session catalog.
type Service struct {
	client catalog.Store
	store  *state.Store
	logger *zap.Logger
	newID  func() string
}

// NewService wires a Service. A nil logger disables logging.
func NewService(client catalog.Store, store *state.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		store:  store,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Store returns the catalog the service mutates.
func (s *Service) Store() *state.Store { return s.store }

// Lookup finds a product by id. A miss is not an error.
func (s *Service) Lookup(id catalog.ID) (catalog.Product, bool) {
	return s.store.Find(id)
}

// CheckDuplicate returns the product whose trimmed title matches title
// case-insensitively.
func (s *Service) CheckDuplicate(title string) (catalog.Product, bool) {
	if NormalizeTitle(title) == "" {
		return catalog.Product{}, false
	}
	return s.store.FindByTitle(title)
}

// Reload fetches the full catalog. A failed fetch leaves an empty catalog.
func (s *Service) Reload(ctx context.Context) Outcome {
	products, failure := s.client.List(ctx)
	if failure != nil {
		s.store.Load(nil, failure)
		s.logger.Warn("catalog load failed",
			zap.String("kind", failure.Kind.String()),
			zap.Int("status", failure.Status),
			zap.Error(failure))
		return Outcome{Notice: Notice{Kind: ReloadFailed, Status: failure.Status}, Failure: failure}
	}
	s.store.Load(products, nil)
	s.logger.Info("catalog loaded", zap.Int("products", len(products)))
	return Outcome{Notice: Notice{Kind: Reloaded, Count: len(products)}}
}

// Submit dispatches req to the matching operation.
func (s *Service) Submit(ctx context.Context, req Request) Outcome {
	var out Outcome
	switch req.Kind {
	case RequestUpdate:
		out = s.Update(ctx, req.ID, req.Payload)
	case RequestCreate:
		out = s.Create(ctx, req.Payload)
	case RequestUpdateExisting:
		out = s.UpdateExisting(ctx, req.ID, req.Payload)
	default:
		out = Outcome{}
	}
	out.Gen = req.Gen
	out.Kind = req.Kind
	return out
}

// Update sends an edit. On success the server's product replaces the local
// one. On failure the payload is applied locally and the product is marked
// unsynced. The modal closes either way.
func (s *Service) Update(ctx context.Context, id catalog.ID, payload catalog.Payload) Outcome {
	res := s.client.Update(ctx, id, payload)
	if res.OK() {
		p := res.Product
		if p.ID == "" {
			p.ID = id
		}
		s.store.UpsertAt(id, p)
		s.logger.Info("product updated", zap.String("id", string(id)))
		return Outcome{Notice: Notice{Kind: UpdateSaved}, Product: p, CloseModal: true}
	}

	f := res.Failure
	local, found := s.store.Overlay(id, payload)
	s.logger.Warn("update not confirmed, applied locally",
		zap.String("id", string(id)),
		zap.String("kind", f.Kind.String()),
		zap.Int("status", f.Status),
		zap.Bool("found", found),
		zap.Error(f))

	notice := Notice{Kind: UpdateOffline}
	if f.Kind == catalog.ServerRejected {
		notice = Notice{Kind: UpdateServerRejected, Status: f.Status}
	}
	return Outcome{Notice: notice, Product: local, CloseModal: true, Failure: f}
}

// Create sends a new product. Success inserts it at the front (or replaces a
// product with the same id); failure leaves the catalog untouched and keeps
// the form open.
func (s *Service) Create(ctx context.Context, payload catalog.Payload) Outcome {
	res := s.client.Create(ctx, payload)
	if !res.OK() {
		f := res.Failure
		s.logger.Warn("create failed",
			zap.String("title", payload.Title),
			zap.String("kind", f.Kind.String()),
			zap.Int("status", f.Status),
			zap.Error(f))
		notice := Notice{Kind: CreateOffline}
		if f.Kind == catalog.ServerRejected {
			notice = Notice{Kind: CreateServerRejected, Status: f.Status}
		}
		return Outcome{Notice: notice, Failure: f}
	}

	p := res.Product
	if p.ID == "" {
		p.ID = catalog.ID(ProvisionalPrefix + s.newID())
	}
	replaced := s.store.Upsert(p)
	s.logger.Info("product created", zap.String("id", string(p.ID)), zap.Bool("replaced", replaced))
	return Outcome{Notice: Notice{Kind: CreateSaved}, Product: p, CloseModal: true}
}

// UpdateExisting updates the product a create form collided with. Only a
// confirmed write changes the catalog.
func (s *Service) UpdateExisting(ctx context.Context, id catalog.ID, payload catalog.Payload) Outcome {
	res := s.client.Update(ctx, id, payload)
	if !res.OK() {
		f := res.Failure
		s.logger.Warn("update of existing product failed",
			zap.String("id", string(id)),
			zap.String("kind", f.Kind.String()),
			zap.Int("status", f.Status),
			zap.Error(f))
		return Outcome{Notice: Notice{Kind: ExistingUpdateFailed, Status: f.Status}, Failure: f}
	}

	p := res.Product
	if p.ID == "" {
		p.ID = id
	}
	if !s.store.ReplaceExisting(p) {
		s.store.UpsertAt(id, p)
	}
	s.logger.Info("existing product updated", zap.String("id", string(p.ID)))
	return Outcome{Notice: Notice{Kind: ExistingUpdated}, Product: p, CloseModal: true}
}
