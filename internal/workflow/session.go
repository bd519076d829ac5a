package workflow

import (
	"strings"

	"github.com/five82/shopkeep/internal/catalog"
)

// Phase is the state of the product modal.
type Phase int

const (
	Closed Phase = iota
	Viewing
	Editing
	Creating
	Confirming
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Closed:
		return "closed"
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Creating:
		return "creating"
	case Confirming:
		return "confirming"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// RequestKind selects the remote call a submission makes.
type RequestKind int

const (
	RequestUpdate RequestKind = iota + 1
	RequestCreate
	RequestUpdateExisting
)

func (k RequestKind) String() string {
	switch k {
	case RequestUpdate:
		return "update"
	case RequestCreate:
		return "create"
	case RequestUpdateExisting:
		return "update_existing"
	default:
		return "unknown"
	}
}

// EditBuffer holds the raw text of the form fields.
type EditBuffer struct {
	ID          catalog.ID
	Title       string
	Price       string
	Description string
	CategoryID  string
	Images      string
}

// BufferFrom populates a buffer from p.
func BufferFrom(p catalog.Product) EditBuffer {
	return EditBuffer{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price.String(),
		Description: p.Description,
		CategoryID:  p.Category.Identifier(),
		Images:      catalog.JoinImages(p.Images),
	}
}

// UpdatePayload coerces the buffer for an update: a missing or invalid
// category id is left out of the request.
func (b EditBuffer) UpdatePayload() catalog.Payload {
	return catalog.Payload{
		Title:       b.Title,
		Price:       catalog.ParsePrice(b.Price),
		Description: b.Description,
		CategoryID:  catalog.ParseCategoryID(b.CategoryID),
		Images:      catalog.ParseImages(b.Images),
	}
}

// DefaultCategoryID is sent when a new product has no valid category.
const DefaultCategoryID = 1

// CreatePayload coerces the buffer for a create.
func (b EditBuffer) CreatePayload() catalog.Payload {
	pl := b.UpdatePayload()
	if pl.CategoryID == nil {
		id := DefaultCategoryID
		pl.CategoryID = &id
	}
	return pl
}

// Request is a submission ready to be sent. Gen ties the eventual outcome
// back to the session that started it.
type Request struct {
	Gen     uint64
	Kind    RequestKind
	ID      catalog.ID
	Payload catalog.Payload
}

// Labels are the captions and enablement of the modal controls.
type Labels struct {
	Toggle        string
	Submit        string
	ToggleEnabled bool
	SubmitEnabled bool
}

// Session is the state machine behind the product modal. It is owned by the
// UI goroutine.
type Session struct {
	gen       uint64
	phase     Phase
	resume    Phase
	buffer    EditBuffer
	duplicate catalog.Product
}

// Gen returns the current generation. It changes every time the modal is
// opened or closed.
func (s *Session) Gen() uint64 { return s.gen }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// IsOpen reports whether the modal is shown.
func (s *Session) IsOpen() bool { return s.phase != Closed }

// IsCreate reports whether the session creates a new product.
func (s *Session) IsCreate() bool {
	switch s.phase {
	case Creating, Confirming:
		return true
	case Submitting:
		return s.resume == Creating
	default:
		return false
	}
}

// Buffer returns the form contents.
func (s *Session) Buffer() EditBuffer { return s.buffer }

// Duplicate returns the product the create form collided with while the
// session is Confirming.
func (s *Session) Duplicate() (catalog.Product, bool) {
	if s.phase != Confirming {
		return catalog.Product{}, false
	}
	return s.duplicate.Clone(), true
}

// Editable reports whether the fields accept input.
func (s *Session) Editable() bool {
	return s.phase == Editing || s.phase == Creating
}

// OpenView shows p read-only.
func (s *Session) OpenView(p catalog.Product) {
	s.open(Viewing, BufferFrom(p))
}

// OpenEdit shows p with the fields editable.
func (s *Session) OpenEdit(p catalog.Product) {
	s.open(Editing, BufferFrom(p))
}

// OpenCreate shows an empty create form.
func (s *Session) OpenCreate() {
	s.open(Creating, EditBuffer{})
}

func (s *Session) open(phase Phase, buf EditBuffer) {
	s.gen++
	s.phase = phase
	s.resume = Closed
	s.buffer = buf
	s.duplicate = catalog.Product{}
}

// Close hides the modal. Outcomes of submissions still in flight will no
// longer touch the session.
func (s *Session) Close() {
	if s.phase == Closed {
		return
	}
	s.gen++
	s.phase = Closed
	s.resume = Closed
	s.buffer = EditBuffer{}
	s.duplicate = catalog.Product{}
}

// ToggleEdit switches between read-only and editable. Field values are left
// untouched. It reports whether the phase changed.
func (s *Session) ToggleEdit() bool {
	switch s.phase {
	case Viewing:
		s.phase = Editing
	case Editing:
		s.phase = Viewing
	default:
		return false
	}
	return true
}

// SetBuffer replaces the form contents while they are editable. The id is
// never changed by the form.
func (s *Session) SetBuffer(b EditBuffer) bool {
	if !s.Editable() {
		return false
	}
	b.ID = s.buffer.ID
	s.buffer = b
	return true
}

// Labels returns the control captions for the current phase.
func (s *Session) Labels() Labels {
	switch s.phase {
	case Viewing:
		return Labels{Toggle: "Edit", Submit: "Save", ToggleEnabled: true}
	case Editing:
		return Labels{Toggle: "Cancel", Submit: "Update", ToggleEnabled: true, SubmitEnabled: true}
	case Creating:
		return Labels{Toggle: "Cancel", Submit: "Create", ToggleEnabled: true, SubmitEnabled: true}
	case Confirming:
		return Labels{Toggle: "No", Submit: "Yes", ToggleEnabled: true, SubmitEnabled: true}
	case Submitting:
		return Labels{Toggle: "Cancel", Submit: "Saving..."}
	default:
		return Labels{}
	}
}

// BeginSubmit moves an editable session to Submitting and returns the
// request to send. It reports false, changing nothing, when the session is
// not in a submittable phase.
func (s *Session) BeginSubmit() (Request, bool) {
	var req Request
	switch s.phase {
	case Editing:
		req = Request{Kind: RequestUpdate, ID: s.buffer.ID, Payload: s.buffer.UpdatePayload()}
	case Creating:
		req = Request{Kind: RequestCreate, Payload: s.buffer.CreatePayload()}
	default:
		return Request{}, false
	}
	req.Gen = s.gen
	s.resume = s.phase
	s.phase = Submitting
	return req, true
}

// AskDuplicate pauses a create session to ask whether existing should be
// updated instead.
func (s *Session) AskDuplicate(existing catalog.Product) bool {
	if s.phase != Creating {
		return false
	}
	s.duplicate = existing.Clone()
	s.phase = Confirming
	return true
}

// ConfirmDuplicate accepts the prompt and returns an update of the existing
// product carrying the create form's payload.
func (s *Session) ConfirmDuplicate() (Request, bool) {
	if s.phase != Confirming {
		return Request{}, false
	}
	req := Request{
		Gen:     s.gen,
		Kind:    RequestUpdateExisting,
		ID:      s.duplicate.ID,
		Payload: s.buffer.CreatePayload(),
	}
	s.resume = Creating
	s.phase = Submitting
	return req, true
}

// DeclineDuplicate dismisses the prompt and returns to the create form.
func (s *Session) DeclineDuplicate() bool {
	if s.phase != Confirming {
		return false
	}
	s.duplicate = catalog.Product{}
	s.phase = Creating
	return true
}

// Finish applies an outcome to the session. Outcomes from another
// generation, or arriving when nothing is being submitted, are ignored and
// Finish reports false.
func (s *Session) Finish(out Outcome) bool {
	if out.Gen != s.gen || s.phase != Submitting {
		return false
	}
	if out.CloseModal {
		s.Close()
		return true
	}
	s.phase = s.resume
	s.resume = Closed
	s.duplicate = catalog.Product{}
	return true
}

// NormalizeTitle is the key used for duplicate detection.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
