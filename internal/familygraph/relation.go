package familygraph

import "github.com/ahmetcoskunkizilkaya/community-backend/internal/models"

const (
	LabelFather   = "father"
	LabelMother   = "mother"
	LabelSpouse   = "spouse"
	LabelRelative = "relative"
)

// Relation computes a coarse kin label of target as seen by viewer. It is a
// display heuristic; anything it cannot place is a "relative".
func (a Arena) Relation(viewerID, targetID uint) string {
	viewer, ok := a[viewerID]
	if !ok {
		return LabelRelative
	}
	target, ok := a[targetID]
	if !ok {
		return LabelRelative
	}

	if isID(viewer.ParentID, target.ID) {
		if target.Gender == models.GenderMale {
			return LabelFather
		}
		return LabelMother
	}

	if viewer.ParentID != nil {
		if parent, ok := a[*viewer.ParentID]; ok && isID(parent.SpouseID, target.ID) {
			if target.Gender == models.GenderFemale {
				return LabelMother
			}
			return LabelFather
		}
	}

	if isID(viewer.SpouseID, target.ID) {
		return LabelSpouse
	}
	if viewer.ParentID == nil && target.ParentID == nil && a.shareChild(viewer.ID, target.ID) {
		return LabelSpouse
	}

	return LabelRelative
}

func (a Arena) shareChild(x, y uint) bool {
	xChildren := map[uint]bool{}
	for _, n := range a {
		if isID(n.ParentID, x) {
			xChildren[n.ID] = true
		}
	}
	for _, n := range a {
		if isID(n.ParentID, y) && xChildren[n.ID] {
			return true
		}
	}
	return false
}
