package workflow

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/five82/shopkeep/internal/catalog"
	"github.com/five82/shopkeep/internal/state"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func seeded(t *testing.T, products ...catalog.Product) *state.Store {
	t.Helper()
	store := &state.Store{}
	store.Load(products, nil)
	return store
}

func apple() catalog.Product {
	return catalog.Product{
		ID:          "1",
		Title:       "Apple",
		Price:       catalog.NewPrice(10),
		Description: "crisp",
		Category:    catalog.Category{ID: "2", Name: "Fruit", Embedded: true},
		Images:      catalog.Images{"a.png"},
	}
}

func TestSession_ViewToggleKeepsValues(t *testing.T) {
	var s Session
	s.OpenView(apple())

	require.Equal(t, Viewing, s.Phase())
	assert.False(t, s.Editable())
	assert.Equal(t, Labels{Toggle: "Edit", Submit: "Save", ToggleEnabled: true}, s.Labels())
	_, ok := s.BeginSubmit()
	assert.False(t, ok, "submit is disabled while viewing")

	before := s.Buffer()
	require.True(t, s.ToggleEdit())
	assert.Equal(t, Editing, s.Phase())
	assert.Equal(t, before, s.Buffer())
	assert.Equal(t, "Update", s.Labels().Submit)
	assert.Equal(t, "Cancel", s.Labels().Toggle)

	require.True(t, s.ToggleEdit())
	assert.Equal(t, Viewing, s.Phase())
	assert.Equal(t, before, s.Buffer())
}

func TestBufferFrom_PopulatesFields(t *testing.T) {
	b := BufferFrom(apple())
	assert.Equal(t, EditBuffer{
		ID:          "1",
		Title:       "Apple",
		Price:       "10",
		Description: "crisp",
		CategoryID:  "2",
		Images:      "a.png",
	}, b)

	empty := BufferFrom(catalog.Product{ID: "9"})
	assert.Equal(t, EditBuffer{ID: "9"}, empty)
}

func TestEditBuffer_PayloadCoercion(t *testing.T) {
	b := EditBuffer{Title: "T", Price: "abc", CategoryID: "x", Images: " a.png , ,b.png "}

	up := b.UpdatePayload()
	assert.Zero(t, up.Price)
	assert.Nil(t, up.CategoryID)
	assert.Equal(t, []string{"a.png", "b.png"}, up.Images)

	cr := b.CreatePayload()
	require.NotNil(t, cr.CategoryID)
	assert.Equal(t, DefaultCategoryID, *cr.CategoryID)

	assert.Equal(t, []string{}, EditBuffer{}.UpdatePayload().Images)
}

func TestSession_SubmitDisablesAndStaleOutcomeIgnored(t *testing.T) {
	var s Session
	s.OpenEdit(apple())
	req, ok := s.BeginSubmit()
	require.True(t, ok)
	assert.Equal(t, RequestUpdate, req.Kind)
	assert.Equal(t, catalog.ID("1"), req.ID)
	assert.Equal(t, s.Gen(), req.Gen)

	assert.Equal(t, Submitting, s.Phase())
	assert.False(t, s.Labels().SubmitEnabled)
	assert.Equal(t, "Saving...", s.Labels().Submit)
	_, again := s.BeginSubmit()
	assert.False(t, again, "one submission in flight per session")

	s.Close()
	s.OpenView(apple())
	assert.False(t, s.Finish(Outcome{Gen: req.Gen, CloseModal: true}), "stale outcome must not touch the new session")
	assert.Equal(t, Viewing, s.Phase())
}

func TestSession_FinishKeepsCreateFormOpenOnFailure(t *testing.T) {
	var s Session
	s.OpenCreate()
	require.True(t, s.SetBuffer(EditBuffer{ID: "ignored", Title: "New"}))
	assert.Equal(t, catalog.ID(""), s.Buffer().ID, "the form cannot set the id")

	req, ok := s.BeginSubmit()
	require.True(t, ok)
	assert.Equal(t, RequestCreate, req.Kind)
	assert.True(t, s.IsCreate())

	require.True(t, s.Finish(Outcome{Gen: req.Gen}))
	assert.Equal(t, Creating, s.Phase())
	assert.Equal(t, "New", s.Buffer().Title)
}

func TestService_UpdateSuccessReplacesProduct(t *testing.T) {
	updated := apple()
	updated.Title = "Green Apple"
	fake := &fakeStore{update: catalog.Result{Product: updated}}
	store := seeded(t, apple(), catalog.Product{ID: "2", Title: "Pear"})
	svc := NewService(fake, store, nil)

	var s Session
	s.OpenEdit(apple())
	buf := s.Buffer()
	buf.Title = "Green Apple"
	require.True(t, s.SetBuffer(buf))
	req, _ := s.BeginSubmit()

	out := svc.Submit(context.Background(), req)
	assert.Equal(t, UpdateSaved, out.Notice.Kind)
	assert.True(t, s.Finish(out))
	assert.Equal(t, Closed, s.Phase())

	got, ok := store.Find("1")
	require.True(t, ok)
	assert.Equal(t, "Green Apple", got.Title)
	assert.Equal(t, 2, store.Len())
	assert.False(t, store.Snapshot().IsUnsynced("1"))
}

func TestService_UpdateServerRejectedAppliesLocally(t *testing.T) {
	fake := &fakeStore{update: catalog.Result{Failure: rejected(500)}}
	store := seeded(t, apple())
	svc := NewService(fake, store, nil)

	var s Session
	s.OpenEdit(apple())
	require.True(t, s.SetBuffer(EditBuffer{Title: "Local Apple", Price: "12.5", Description: "edited", CategoryID: "2", Images: "x.png, y.png"}))
	req, _ := s.BeginSubmit()
	out := svc.Submit(context.Background(), req)

	assert.Equal(t, UpdateServerRejected, out.Notice.Kind)
	assert.NotEqual(t, UpdateSaved, out.Notice.Kind)
	assert.Equal(t, 500, out.Notice.Status)
	assert.Contains(t, out.Notice.Message(), "500")
	assert.True(t, out.CloseModal)
	assert.True(t, s.Finish(out))
	assert.False(t, s.IsOpen())

	got, ok := store.Find("1")
	require.True(t, ok)
	assert.Equal(t, "Local Apple", got.Title)
	assert.Equal(t, 12.5, got.Price.Amount())
	assert.Equal(t, "edited", got.Description)
	assert.Equal(t, catalog.Images{"x.png", "y.png"}, got.Images)
	assert.Equal(t, "Fruit", got.Category.Label(), "unchanged category keeps its embedded name")
	assert.True(t, store.Snapshot().IsUnsynced("1"))
}

func TestService_UpdateOfflineIsDistinctNotice(t *testing.T) {
	fake := &fakeStore{update: catalog.Result{Failure: offline()}}
	store := seeded(t, apple())
	svc := NewService(fake, store, nil)

	out := svc.Update(context.Background(), "1", catalog.Payload{Title: "Offline", Images: []string{}})
	assert.Equal(t, UpdateOffline, out.Notice.Kind)
	assert.Equal(t, LevelWarning, out.Notice.Kind.Level())
	assert.True(t, out.CloseModal)

	got, _ := store.Find("1")
	assert.Equal(t, "Offline", got.Title)
}

func TestService_UpdateSuccessWithoutIDKeepsRequestedID(t *testing.T) {
	fake := &fakeStore{update: catalog.Result{Product: catalog.Product{Title: "No id"}}}
	store := seeded(t, apple())
	svc := NewService(fake, store, nil)

	out := svc.Update(context.Background(), "1", catalog.Payload{Title: "No id"})
	assert.Equal(t, catalog.ID("1"), out.Product.ID)
	assert.Equal(t, 1, store.Len())
}

func TestService_DuplicateDeclinedMakesNoCall(t *testing.T) {
	fake := &fakeStore{}
	store := seeded(t, apple())
	svc := NewService(fake, store, nil)
	before := store.Snapshot().Products

	var s Session
	s.OpenCreate()
	require.True(t, s.SetBuffer(EditBuffer{Title: "  aPPLE "}))
	dup, found := svc.CheckDuplicate(s.Buffer().Title)
	require.True(t, found)
	require.True(t, s.AskDuplicate(dup))
	assert.Equal(t, Confirming, s.Phase())

	require.True(t, s.DeclineDuplicate())
	assert.Equal(t, Creating, s.Phase())
	assert.Equal(t, "  aPPLE ", s.Buffer().Title)
	assert.Empty(t, fake.Calls())
	assert.Equal(t, before, store.Snapshot().Products)
}

func TestService_DuplicateConfirmedUpdatesExisting(t *testing.T) {
	server := apple()
	server.Price = catalog.NewPrice(99)
	fake := &fakeStore{update: catalog.Result{Product: server}}
	store := seeded(t, apple())
	svc := NewService(fake, store, nil)

	var s Session
	s.OpenCreate()
	require.True(t, s.SetBuffer(EditBuffer{Title: "apple", Price: "99"}))
	dup, _ := svc.CheckDuplicate("apple")
	require.True(t, s.AskDuplicate(dup))
	req, ok := s.ConfirmDuplicate()
	require.True(t, ok)
	assert.Equal(t, RequestUpdateExisting, req.Kind)
	assert.Equal(t, catalog.ID("1"), req.ID)

	out := svc.Submit(context.Background(), req)
	assert.Equal(t, ExistingUpdated, out.Notice.Kind)
	assert.True(t, s.Finish(out))
	assert.False(t, s.IsOpen())

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Update", calls[0].Method)
	got, _ := store.Find("1")
	assert.Equal(t, 99.0, got.Price.Amount())
	assert.Equal(t, 1, store.Len())
}

func TestService_DuplicateUpdateFailureKeepsForm(t *testing.T) {
	fake := &fakeStore{update: catalog.Result{Failure: rejected(404)}}
	store := seeded(t, apple())
	svc := NewService(fake, store, nil)

	var s Session
	s.OpenCreate()
	require.True(t, s.SetBuffer(EditBuffer{Title: "Apple", Price: "1"}))
	require.True(t, s.AskDuplicate(apple()))
	req, _ := s.ConfirmDuplicate()

	out := svc.Submit(context.Background(), req)
	assert.Equal(t, ExistingUpdateFailed, out.Notice.Kind)
	require.True(t, s.Finish(out))
	assert.Equal(t, Creating, s.Phase())

	got, _ := store.Find("1")
	assert.Equal(t, 10.0, got.Price.Amount(), "failed write leaves the catalog alone")
}

func TestService_CreateInsertsAtFront(t *testing.T) {
	created := catalog.Product{ID: "77", Title: "Kiwi", Price: catalog.NewPrice(3)}
	fake := &fakeStore{create: catalog.Result{Product: created}}
	store := seeded(t, apple())
	svc := NewService(fake, store, nil)

	var s Session
	s.OpenCreate()
	require.True(t, s.SetBuffer(EditBuffer{Title: "Kiwi", Price: "3"}))
	req, _ := s.BeginSubmit()
	out := svc.Submit(context.Background(), req)

	assert.Equal(t, CreateSaved, out.Notice.Kind)
	require.True(t, s.Finish(out))
	assert.False(t, s.IsOpen())

	snap := store.Snapshot()
	require.Len(t, snap.Products, 2)
	assert.Equal(t, catalog.ID("77"), snap.Products[0].ID)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	require.NotNil(t, calls[0].Payload.CategoryID)
	assert.Equal(t, 1, *calls[0].Payload.CategoryID)
}

func TestService_CreateWithExistingIDReplaces(t *testing.T) {
	fake := &fakeStore{create: catalog.Result{Product: catalog.Product{ID: "1", Title: "Apple v2"}}}
	store := seeded(t, apple(), catalog.Product{ID: "2"})
	svc := NewService(fake, store, nil)

	svc.Create(context.Background(), catalog.Payload{Title: "Apple v2"})
	snap := store.Snapshot()
	require.Len(t, snap.Products, 2)
	assert.Equal(t, "Apple v2", snap.Products[0].Title)
}

func TestService_CreateWithoutIDGetsProvisionalID(t *testing.T) {
	fake := &fakeStore{create: catalog.Result{Product: catalog.Product{Title: "Nameless"}}}
	store := seeded(t)
	svc := NewService(fake, store, nil)
	svc.newID = func() string { return "fixed" }

	out := svc.Create(context.Background(), catalog.Payload{Title: "Nameless"})
	assert.Equal(t, catalog.ID("local-fixed"), out.Product.ID)
	_, ok := store.Find("local-fixed")
	assert.True(t, ok)
}

func TestService_CreateFailuresLeaveStateUnchanged(t *testing.T) {
	cases := []struct {
		name    string
		failure *catalog.Failure
		want    NoticeKind
	}{
		{"rejected", rejected(400), CreateServerRejected},
		{"offline", offline(), CreateOffline},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeStore{create: catalog.Result{Failure: tc.failure}}
			store := seeded(t, apple())
			svc := NewService(fake, store, nil)

			var s Session
			s.OpenCreate()
			require.True(t, s.SetBuffer(EditBuffer{Title: "Kiwi"}))
			req, _ := s.BeginSubmit()
			out := svc.Submit(context.Background(), req)

			assert.Equal(t, tc.want, out.Notice.Kind)
			assert.Equal(t, LevelError, out.Notice.Kind.Level())
			assert.False(t, out.CloseModal)
			require.True(t, s.Finish(out))
			assert.Equal(t, Creating, s.Phase())
			assert.Equal(t, 1, store.Len())
		})
	}
}

func TestService_ReloadFailureEmptiesCatalog(t *testing.T) {
	fake := &fakeStore{listFailure: offline()}
	store := seeded(t, apple())
	svc := NewService(fake, store, nil)

	out := svc.Reload(context.Background())
	assert.Equal(t, ReloadFailed, out.Notice.Kind)
	assert.Equal(t, 0, store.Len())
	assert.Error(t, store.Snapshot().LastError)

	fake.listFailure = nil
	fake.listProducts = []catalog.Product{apple()}
	out = svc.Reload(context.Background())
	assert.Equal(t, Reloaded, out.Notice.Kind)
	assert.Equal(t, "Loaded 1 products", out.Notice.Message())
	assert.Equal(t, 1, store.Len())
}

// A slow update that completes after the modal moved on still lands in the
// catalog.
func TestService_LateOutcomeStillUpdatesCatalog(t *testing.T) {
	fake := &fakeStore{update: catalog.Result{Failure: offline()}}
	store := seeded(t, apple())
	svc := NewService(fake, store, nil)

	var s Session
	s.OpenEdit(apple())
	require.True(t, s.SetBuffer(EditBuffer{Title: "Late"}))
	req, _ := s.BeginSubmit()
	s.Close()

	var wg sync.WaitGroup
	var out Outcome
	wg.Add(1)
	go func() {
		defer wg.Done()
		out = svc.Submit(context.Background(), req)
	}()
	wg.Wait()

	assert.False(t, s.Finish(out))
	got, _ := store.Find("1")
	assert.Equal(t, "Late", got.Title)
}

func TestNoticeMessagesAreDistinct(t *testing.T) {
	seen := map[string]NoticeKind{}
	for kind := UpdateSaved; kind <= Copied; kind++ {
		msg := Notice{Kind: kind, Status: 500, Count: 2, Detail: "x"}.Message()
		require.NotEmpty(t, msg, kind.String())
		if prev, ok := seen[msg]; ok {
			t.Fatalf("%s and %s share message %q", prev, kind, msg)
		}
		seen[msg] = kind
		assert.False(t, strings.Contains(kind.String(), "notice("), "kind %d has no name", kind)
	}
	assert.Empty(t, Notice{}.Message())
}
