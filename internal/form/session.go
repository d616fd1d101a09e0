package form

import (
	"time"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
)

// Mode tells whether submission creates or updates a product.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Session is one product editing session. It is owned by the user who opened
// it and exclusively holds its State until submitted or discarded.
type Session struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId,omitempty"`
	ProductName string    `json:"productName,omitempty"`
	OwnerID     string    `json:"ownerId"`
	Mode        Mode      `json:"mode"`
	ActiveTab   Tab       `json:"activeTab"`
	State       State     `json:"state"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewSession starts a session for ownerID. A nil product opens a create
// session with default values.
func NewSession(id, ownerID string, p *domain.Product, now time.Time) *Session {
	s := &Session{
		ID:        id,
		OwnerID:   ownerID,
		Mode:      ModeCreate,
		ActiveTab: TabBasic,
		State:     NewState(p),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p != nil {
		s.Mode = ModeEdit
		s.ProductID = p.ID
		s.ProductName = p.Name
	}
	return s
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	c := *s
	c.State = s.State.Clone()
	return &c
}

// IsOwnedBy reports whether userID opened the session.
func (s *Session) IsOwnedBy(userID string) bool {
	return s.OwnerID == userID
}

// Payload assembles the current state into a request body.
func (s *Session) Payload() Payload {
	return Assemble(s.State)
}

// SetTab switches the active view and touches nothing else.
func (s *Session) SetTab(t Tab) {
	s.ActiveTab = t
}

// AddSize appends a size seeded with the current base price.
func (s *Session) AddSize(newID IDFunc) {
	s.State.Sizes = AddSize(s.State.Sizes, s.State.Basic.BasePrice, newID)
}

// HasModel reports whether a model exists to attach a high-poly asset to.
func (s *Session) HasModel() bool {
	return s.State.Model != nil
}
