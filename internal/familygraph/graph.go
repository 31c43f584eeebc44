// Package familygraph keeps the member spouse/parent links consistent.
//
// Members are held in an Arena keyed by id; links are integer handles with no
// ownership. Every mutation is a pure function over the arena that reports
// which nodes changed, so callers can persist exactly those rows.
package familygraph

import (
	"errors"
	"sort"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
)

var (
	ErrSelfSpouse          = errors.New("a member cannot be their own spouse")
	ErrSelfParent          = errors.New("a member cannot be their own parent")
	ErrUnknownMember       = errors.New("member not loaded")
	ErrSpouseOtherFamily   = errors.New("spouse must belong to the same family")
	ErrSpouseAlreadyLinked = errors.New("spouse is already linked to another member")
	ErrParentOtherFamily   = errors.New("parent must belong to the same family")
)

type Node struct {
	ID       uint
	FamilyID *uint
	SpouseID *uint
	ParentID *uint
	Gender   string
}

type Arena map[uint]*Node

// FromMembers builds an arena snapshot of the given rows.
func FromMembers(members []models.Member) Arena {
	a := make(Arena, len(members))
	for i := range members {
		a.Add(&members[i])
	}
	return a
}

func (a Arena) Add(m *models.Member) {
	a[m.ID] = &Node{
		ID:       m.ID,
		FamilyID: copyID(m.FamilyID),
		SpouseID: copyID(m.SpouseID),
		ParentID: copyID(m.ParentID),
		Gender:   m.Gender,
	}
}

// LinkSpouse links memberID and spouseID in both directions. Any previous
// spouse of memberID is unlinked on both sides first. The spouse must not be
// linked to anyone else. Returned ids are sorted and unique.
func (a Arena) LinkSpouse(memberID, spouseID uint) ([]uint, error) {
	if memberID == spouseID {
		return nil, ErrSelfSpouse
	}
	m, ok := a[memberID]
	if !ok {
		return nil, ErrUnknownMember
	}
	s, ok := a[spouseID]
	if !ok {
		return nil, ErrUnknownMember
	}
	if !sameFamily(m, s) {
		return nil, ErrSpouseOtherFamily
	}
	if s.SpouseID != nil && *s.SpouseID != memberID {
		return nil, ErrSpouseAlreadyLinked
	}
	if isID(m.SpouseID, spouseID) && isID(s.SpouseID, memberID) {
		return nil, nil
	}

	changed := newIDSet()
	if m.SpouseID != nil && *m.SpouseID != spouseID {
		changed.merge(a.UnlinkSpouse(memberID))
	}
	m.SpouseID = idPtr(spouseID)
	s.SpouseID = idPtr(memberID)
	changed.add(memberID, spouseID)
	return changed.sorted(), nil
}

// UnlinkSpouse clears memberID's spouse link on both sides.
func (a Arena) UnlinkSpouse(memberID uint) []uint {
	m, ok := a[memberID]
	if !ok || m.SpouseID == nil {
		return nil
	}
	changed := newIDSet()
	if prev, ok := a[*m.SpouseID]; ok && isID(prev.SpouseID, memberID) {
		prev.SpouseID = nil
		changed.add(prev.ID)
	}
	m.SpouseID = nil
	changed.add(memberID)
	return changed.sorted()
}

// SetParent points memberID at parentID (nil clears the link). The parent
// must be loaded and share the member's family.
func (a Arena) SetParent(memberID uint, parentID *uint) error {
	m, ok := a[memberID]
	if !ok {
		return ErrUnknownMember
	}
	if parentID == nil {
		m.ParentID = nil
		return nil
	}
	if *parentID == memberID {
		return ErrSelfParent
	}
	p, ok := a[*parentID]
	if !ok {
		return ErrUnknownMember
	}
	if !sameFamily(m, p) {
		return ErrParentOtherFamily
	}
	m.ParentID = copyID(parentID)
	return nil
}

// CheckSymmetry returns the first node whose spouse does not point back.
func (a Arena) CheckSymmetry() (uint, bool) {
	ids := make([]uint, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		n := a[id]
		if n.SpouseID == nil {
			continue
		}
		s, ok := a[*n.SpouseID]
		if !ok || !isID(s.SpouseID, id) {
			return id, false
		}
	}
	return 0, true
}

func sameFamily(x, y *Node) bool {
	if x.FamilyID == nil || y.FamilyID == nil {
		return false
	}
	return *x.FamilyID == *y.FamilyID
}

func isID(p *uint, id uint) bool {
	return p != nil && *p == id
}

func idPtr(id uint) *uint {
	return &id
}

func copyID(p *uint) *uint {
	if p == nil {
		return nil
	}
	return idPtr(*p)
}

type idSet map[uint]struct{}

func newIDSet() idSet { return idSet{} }

func (s idSet) add(ids ...uint) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s idSet) merge(ids []uint) { s.add(ids...) }

func (s idSet) sorted() []uint {
	out := make([]uint, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
