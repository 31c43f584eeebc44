package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/familygraph"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/reconcile"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/scope"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/validate"
)

type MemberService struct {
	db       *gorm.DB
	cfg      *config.Config
	notifier notify.Notifier
}

func NewMemberService(db *gorm.DB, cfg *config.Config, notifier notify.Notifier) *MemberService {
	return &MemberService{db: db, cfg: cfg, notifier: notifier}
}

// memberInput is a validated MemberRequest.
type memberInput struct {
	req      *dto.MemberRequest
	dob      *time.Time
	mobile   *string
	cc       *string
	relation *string
	gender   *string
}

func (s *MemberService) parseInput(req *dto.MemberRequest, full bool) (*memberInput, error) {
	in := &memberInput{req: req}

	if full {
		for field, v := range map[string]*string{
			"name": req.Name, "role": req.Role, "relation": req.Relation,
			"gender": req.Gender, "date_of_birth": req.DateOfBirth,
		} {
			if v == nil || strings.TrimSpace(*v) == "" {
				return nil, apperr.Field(field, "is required")
			}
		}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperr.Field("name", "must not be blank")
	}
	if req.Relation != nil {
		r := strings.TrimSpace(*req.Relation)
		if err := validate.Relation("relation", r); err != nil {
			return nil, err
		}
		in.relation = &r
	}
	if req.Role != nil {
		r := strings.TrimSpace(*req.Role)
		if r != models.MemberRoleMember && r != models.MemberRoleFamilyHead {
			return nil, apperr.Field("role", "must be member or familyHead")
		}
	}
	if req.Gender != nil {
		g := validate.Gender(*req.Gender)
		in.gender = &g
	}
	if req.DateOfBirth != nil {
		dob, err := validate.Date("date_of_birth", *req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		in.dob = dob
	}
	if req.Mobile != nil {
		m := strings.TrimSpace(*req.Mobile)
		if m != "" {
			if err := validate.Phone("mobile", m); err != nil {
				return nil, err
			}
		}
		in.mobile = &m
	}
	if req.CountryCode != nil {
		cc := strings.TrimSpace(*req.CountryCode)
		if cc != "" {
			if err := validate.CountryCode("country_code", cc); err != nil {
				return nil, err
			}
			in.cc = &cc
		}
	}
	return in, nil
}

// AddMember creates a dependent in the caller's family. The caller must be
// a family head; the family itself is created on first use.
func (s *MemberService) AddMember(ctx context.Context, callerID uuid.UUID, req *dto.MemberRequest) (resp *dto.MemberResponse, err error) {
	in, err := s.parseInput(req, false)
	if err != nil {
		return nil, err
	}
	if req.Name == nil {
		return nil, apperr.Field("name", "is required")
	}
	if in.relation == nil {
		return nil, apperr.Field("relation", "is required")
	}
	if in.dob == nil {
		return nil, apperr.Field("date_of_birth", "is required")
	}
	if req.Role != nil && strings.TrimSpace(*req.Role) == models.MemberRoleFamilyHead {
		return nil, ErrHeadExists
	}
	if (in.mobile == nil || *in.mobile == "") && !models.IsDependentRelation(*in.relation) {
		return nil, apperr.Field("mobile", "is required unless relation is son or daughter")
	}

	ctx, span := reconcile.StartSpan(ctx, "members.add", attribute.String("caller_id", callerID.String()))
	defer func() { reconcile.EndSpan(span, err) }()

	var created models.Member
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		head, family, err := s.headOf(tx, callerID)
		if err != nil {
			return err
		}

		created = models.Member{
			FamilyID:  &family.ID,
			Name:      strings.TrimSpace(*req.Name),
			Role:      models.MemberRoleMember,
			Status:    models.StatusActive,
			Community: head.Community,
		}
		applyInput(&created, in)

		if in.mobile == nil || *in.mobile == "" {
			created.CountryCode = head.CountryCode
			created.Mobile = head.Mobile
			created.MobileInherited = true
		} else {
			created.CountryCode = head.CountryCode
			if in.cc != nil {
				created.CountryCode = *in.cc
			}
			if created.CountryCode == "" {
				created.CountryCode = s.cfg.DefaultCountryCode
			}
			created.Mobile = *in.mobile
			if err := checkMobileFree(tx, family.ID, created.CountryCode, created.Mobile, 0); err != nil {
				return err
			}
		}

		if req.ParentID != nil {
			if err := assignParent(tx, &created, *req.ParentID); err != nil {
				return err
			}
		}

		if err := tx.Create(&created).Error; err != nil {
			return translateWriteError(err)
		}

		if req.SpouseID != nil && *req.SpouseID != 0 {
			if err := s.linkSpouse(tx, &created, *req.SpouseID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := toMemberResponse(&created, nil)
	return &out, nil
}

// UpdateMember edits a member of the caller's own family. Role changes are
// refused; they go through the head transfer. full requires the minimal
// identity fields (PUT semantics).
func (s *MemberService) UpdateMember(ctx context.Context, callerID uuid.UUID, memberID uint, req *dto.MemberRequest, full bool) (resp *dto.MemberResponse, err error) {
	in, err := s.parseInput(req, full)
	if err != nil {
		return nil, err
	}
	if req.SpouseID != nil && *req.SpouseID == memberID {
		return nil, ErrSpouseSelf
	}

	ctx, span := reconcile.StartSpan(ctx, "members.update",
		attribute.String("caller_id", callerID.String()), attribute.Int64("member_id", int64(memberID)))
	defer func() { reconcile.EndSpan(span, err) }()

	var (
		m     models.Member
		after reconcile.AfterCommit
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		after.Reset()

		head, family, err := s.headOf(tx, callerID)
		if err != nil {
			return err
		}
		if err := tx.Scopes(scope.ForFamily(family.ID)).First(&m, memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}
		if req.Role != nil && strings.TrimSpace(*req.Role) != m.Role {
			return ErrRoleChange
		}

		before := m
		if req.Name != nil {
			m.Name = strings.TrimSpace(*req.Name)
		}
		applyInput(&m, in)

		if err := s.applyMobile(tx, &m, head, family.ID, in); err != nil {
			return err
		}

		if req.ParentID != nil {
			if err := assignParent(tx, &m, *req.ParentID); err != nil {
				return err
			}
		}

		if err := tx.Omit("Identity", "Family", "SpouseID").Save(&m).Error; err != nil {
			return translateWriteError(err)
		}
		if m.IsFamilyHead() && (m.Mobile != before.Mobile || m.CountryCode != before.CountryCode) {
			if err := repointInherited(tx, family.ID, &m); err != nil {
				return err
			}
		}

		if req.SpouseID != nil {
			if *req.SpouseID == 0 {
				if err := s.unlinkSpouse(tx, &m); err != nil {
					return err
				}
			} else if err := s.linkSpouse(tx, &m, *req.SpouseID); err != nil {
				return err
			}
		}

		if m.IdentityID != nil && (m.Status != before.Status || m.Mobile != before.Mobile || m.CountryCode != before.CountryCode) {
			snapshot := m
			after.Add("push_member_to_profile", func(ctx context.Context) error {
				_, err := reconcile.PushMemberToProfile(ctx, s.db, &snapshot, reconcile.OriginDirect)
				return err
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	after.Run(ctx)

	out := toMemberResponse(&m, nil)
	return &out, nil
}

func (s *MemberService) applyMobile(tx *gorm.DB, m *models.Member, head *models.Member, familyID uint, in *memberInput) error {
	if in.mobile != nil && *in.mobile != "" {
		cc := m.CountryCode
		if in.cc != nil {
			cc = *in.cc
		}
		if m.MobileInherited || cc != m.CountryCode || *in.mobile != m.Mobile {
			if err := checkMobileFree(tx, familyID, cc, *in.mobile, m.ID); err != nil {
				return err
			}
		}
		m.CountryCode, m.Mobile, m.MobileInherited = cc, *in.mobile, false
		return nil
	}

	clearing := in.mobile != nil && *in.mobile == ""
	if (clearing || m.MobileInherited) && !models.IsDependentRelation(m.Relation) {
		return apperr.Field("mobile", "is required unless relation is son or daughter")
	}
	if clearing && m.ID != head.ID {
		m.CountryCode, m.Mobile, m.MobileInherited = head.CountryCode, head.Mobile, true
	}
	return nil
}

func applyInput(m *models.Member, in *memberInput) {
	req := in.req
	if in.relation != nil {
		m.Relation = *in.relation
	}
	if in.gender != nil {
		m.Gender = *in.gender
	}
	if in.dob != nil {
		m.DateOfBirth = in.dob
	}
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setStr(&m.Email, req.Email)
	setStr(&m.Address, req.Address)
	setStr(&m.City, req.City)
	setStr(&m.Gotra, req.Gotra)
	setStr(&m.NativePlace, req.NativePlace)
	setStr(&m.ProfileImage, req.ProfileImage)
	setStr(&m.BloodGroup, req.BloodGroup)
	setStr(&m.Occupation, req.Occupation)
	setStr(&m.HighestQualification, req.HighestQualification)
}

// headOf returns the caller's familyHead row and its family, creating the
// family and attaching the head to it if needed. A row already inside a
// family wins over a family-less one.
func (s *MemberService) headOf(tx *gorm.DB, callerID uuid.UUID) (*models.Member, *models.Family, error) {
	var head models.Member
	err := tx.Scopes(scope.ForIdentity(callerID)).
		Where("role = ?", models.MemberRoleFamilyHead).
		Order("family_id IS NULL").Order("id ASC").First(&head).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFamilyHead
	}
	if err != nil {
		return nil, nil, err
	}

	var family models.Family
	if head.FamilyID != nil {
		if err := tx.First(&family, *head.FamilyID).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to load family: %w", err)
		}
		return &head, &family, nil
	}

	if err := tx.Where(models.Family{HeadID: &callerID}).FirstOrCreate(&family).Error; err != nil {
		return nil, nil, translateWriteError(err)
	}
	var heads int64
	if err := tx.Model(&models.Member{}).Scopes(scope.ForFamily(family.ID)).
		Where("role = ?", models.MemberRoleFamilyHead).Count(&heads).Error; err != nil {
		return nil, nil, err
	}
	if heads > 0 {
		return nil, nil, ErrFamilyHeadTaken
	}
	if err := tx.Model(&head).Update("family_id", family.ID).Error; err != nil {
		return nil, nil, translateWriteError(err)
	}
	head.FamilyID = &family.ID
	return &head, &family, nil
}

// checkMobileFree rejects a number already used by another own-number
// member, naming whether the clash is in this family or another one.
func checkMobileFree(tx *gorm.DB, familyID uint, cc, mobile string, exceptID uint) error {
	var others []models.Member
	q := tx.Scopes(scope.ForPhone(cc, mobile), scope.OwnNumber()).Where("family_id IS NOT NULL")
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Find(&others).Error; err != nil {
		return err
	}
	for _, o := range others {
		if *o.FamilyID == familyID {
			return ErrMobileInFamily
		}
	}
	if len(others) > 0 {
		return ErrMobileOtherFamily
	}
	return nil
}

// repointInherited moves dependents without a number of their own onto the
// head's current number.
func repointInherited(tx *gorm.DB, familyID uint, head *models.Member) error {
	if head.MobileInherited {
		return nil
	}
	return tx.Model(&models.Member{}).Scopes(scope.ForFamily(familyID)).
		Where("mobile_inherited = ? AND id <> ?", true, head.ID).
		Updates(map[string]interface{}{"country_code": head.CountryCode, "mobile": head.Mobile}).Error
}

// assignParent sets m's parent through the family graph; 0 clears it.
func assignParent(tx *gorm.DB, m *models.Member, parentID uint) error {
	rows := []models.Member{*m}
	var target *uint
	if parentID != 0 {
		var parent models.Member
		err := tx.First(&parent, parentID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && parent.ID != m.ID {
			rows = append(rows, parent)
		}
		target = &parentID
	}

	arena := familygraph.FromMembers(rows)
	if err := arena.SetParent(m.ID, target); err != nil {
		if errors.Is(err, familygraph.ErrUnknownMember) || errors.Is(err, familygraph.ErrParentOtherFamily) {
			return ErrParentNotInFamily
		}
		return translateGraphError(err)
	}
	m.ParentID = arena[m.ID].ParentID
	return nil
}

// linkSpouse links m and spouseID symmetrically. The target row is locked
// and written with a guard so that two requests racing for the same
// spouse cannot both win.
func (s *MemberService) linkSpouse(tx *gorm.DB, m *models.Member, spouseID uint) error {
	if spouseID == m.ID {
		return ErrSpouseSelf
	}

	var target models.Member
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&target, spouseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Field("spouse_id", "spouse not found")
		}
		return err
	}

	rows := []models.Member{*m, target}
	if m.SpouseID != nil && *m.SpouseID != spouseID {
		var prev models.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&prev, *m.SpouseID).Error; err == nil {
			rows = append(rows, prev)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	arena := familygraph.FromMembers(rows)
	changed, err := arena.LinkSpouse(m.ID, target.ID)
	if err != nil {
		return translateGraphError(err)
	}

	for _, id := range changed {
		next := arena[id].SpouseID
		if id == target.ID {
			res := tx.Model(&models.Member{}).
				Where("id = ? AND (spouse_id IS NULL OR spouse_id = ?)", id, m.ID).
				Update("spouse_id", next)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrSpouseLinked
			}
			continue
		}
		if err := tx.Model(&models.Member{}).Where("id = ?", id).Update("spouse_id", next).Error; err != nil {
			return err
		}
	}
	m.SpouseID = arena[m.ID].SpouseID
	return nil
}

func (s *MemberService) unlinkSpouse(tx *gorm.DB, m *models.Member) error {
	if m.SpouseID == nil {
		return nil
	}
	rows := []models.Member{*m}
	var prev models.Member
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&prev, *m.SpouseID).Error; err == nil {
		rows = append(rows, prev)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	arena := familygraph.FromMembers(rows)
	for _, id := range arena.UnlinkSpouse(m.ID) {
		if err := tx.Model(&models.Member{}).Where("id = ?", id).Update("spouse_id", nil).Error; err != nil {
			return err
		}
	}
	m.SpouseID = nil
	return nil
}

func translateGraphError(err error) error {
	switch {
	case errors.Is(err, familygraph.ErrSelfSpouse):
		return ErrSpouseSelf
	case errors.Is(err, familygraph.ErrSpouseOtherFamily):
		return ErrSpouseOtherFamily
	case errors.Is(err, familygraph.ErrSpouseAlreadyLinked):
		return ErrSpouseLinked
	case errors.Is(err, familygraph.ErrSelfParent):
		return ErrParentSelf
	case errors.Is(err, familygraph.ErrUnknownMember):
		return ErrMemberNotFound
	}
	return err
}

// translateWriteError turns a unique violation into a conflict.
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("This record conflicts with an existing one.")
	}
	return err
}

// TransferHead lets the current head hand the role to another member of
// the same family.
func (s *MemberService) TransferHead(ctx context.Context, callerID uuid.UUID, memberID uint) (*dto.MemberResponse, error) {
	db := s.db.WithContext(ctx)

	var head models.Member
	err := db.Scopes(scope.ForIdentity(callerID)).
		Where("role = ? AND family_id IS NOT NULL", models.MemberRoleFamilyHead).
		First(&head).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFamilyHead
	}
	if err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Member{}).Scopes(scope.ForFamily(*head.FamilyID)).
		Where("id = ?", memberID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrMemberNotFound
	}
	return s.MakeFamilyHead(ctx, memberID)
}

// MakeFamilyHead promotes the member to head of its family, demoting any
// previous head. The family row is locked for the duration so concurrent
// transfers serialize.
func (s *MemberService) MakeFamilyHead(ctx context.Context, memberID uint) (resp *dto.MemberResponse, err error) {
	ctx, span := reconcile.StartSpan(ctx, "members.make_family_head", attribute.Int64("member_id", int64(memberID)))
	defer func() { reconcile.EndSpan(span, err) }()

	var (
		m     models.Member
		after reconcile.AfterCommit
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		after.Reset()

		if err := tx.First(&m, memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}
		if m.FamilyID == nil {
			return ErrMemberWithoutFamily
		}
		if m.IdentityID == nil {
			return ErrMemberWithoutIdentity
		}

		var family models.Family
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&family, *m.FamilyID).Error; err != nil {
			return fmt.Errorf("failed to lock family: %w", err)
		}

		var elsewhere int64
		if err := tx.Model(&models.Family{}).
			Where("head_id = ? AND id <> ?", *m.IdentityID, family.ID).
			Count(&elsewhere).Error; err != nil {
			return err
		}
		if elsewhere > 0 {
			return ErrHeadElsewhere
		}

		var demoted []models.Member
		if err := tx.Scopes(scope.ForFamily(family.ID)).
			Where("role = ? AND id <> ?", models.MemberRoleFamilyHead, m.ID).
			Find(&demoted).Error; err != nil {
			return err
		}
		if len(demoted) > 0 {
			ids := make([]uint, len(demoted))
			for i := range demoted {
				ids[i] = demoted[i].ID
				demoted[i].Role = models.MemberRoleMember
			}
			if err := tx.Model(&models.Member{}).Where("id IN ?", ids).
				Update("role", models.MemberRoleMember).Error; err != nil {
				return err
			}
		}

		// Family-less head rows of the same identity would otherwise be
		// attached as a second head on the next headOf.
		if err := tx.Model(&models.Member{}).Scopes(scope.ForIdentity(*m.IdentityID)).
			Where("role = ? AND family_id IS NULL AND id <> ?", models.MemberRoleFamilyHead, m.ID).
			Update("role", models.MemberRoleMember).Error; err != nil {
			return err
		}

		m.Role = models.MemberRoleFamilyHead
		if err := tx.Model(&models.Member{}).Where("id = ?", m.ID).
			Update("role", models.MemberRoleFamilyHead).Error; err != nil {
			return err
		}
		if err := repointInherited(tx, family.ID, &m); err != nil {
			return err
		}
		if err := tx.Model(&family).Update("head_id", *m.IdentityID).Error; err != nil {
			return translateWriteError(err)
		}

		for _, row := range append(demoted, m) {
			after.Add("push_member_to_profile", func(ctx context.Context) error {
				_, err := reconcile.PushMemberToProfile(ctx, s.db, &row, reconcile.OriginDirect)
				return err
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.HeadTransfers.Inc()
	after.Run(ctx)

	out := toMemberResponse(&m, nil)
	return &out, nil
}

// MyFamily lists the caller's family with each member's relation to the
// caller.
func (s *MemberService) MyFamily(ctx context.Context, callerID uuid.UUID) (*dto.FamilyResponse, error) {
	db := s.db.WithContext(ctx)

	var me models.Member
	err := db.Scopes(scope.ForIdentity(callerID)).Where("family_id IS NOT NULL").
		Order("id ASC").First(&me).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoFamily
	}
	if err != nil {
		return nil, err
	}

	var family models.Family
	if err := db.First(&family, *me.FamilyID).Error; err != nil {
		return nil, ErrNoFamily
	}

	var members []models.Member
	if err := db.Scopes(scope.ForFamily(family.ID)).Order("id ASC").Find(&members).Error; err != nil {
		return nil, err
	}

	arena := familygraph.FromMembers(members)
	out := &dto.FamilyResponse{
		FamilyID:        family.ID,
		FamilyDisplayID: family.DisplayID(),
		Members:         make([]dto.MemberResponse, 0, len(members)),
	}
	for i := range members {
		r := toMemberResponse(&members[i], &family)
		if members[i].ID == me.ID {
			r.RelationToViewer = models.RelationSelf
		} else {
			r.RelationToViewer = arena.Relation(me.ID, members[i].ID)
		}
		out.Members = append(out.Members, r)
	}
	return out, nil
}

// Get returns one member. Non-admins only see their own rows and members
// of families they belong to.
func (s *MemberService) Get(ctx context.Context, callerID uuid.UUID, isAdmin bool, memberID uint) (*dto.MemberResponse, error) {
	db := s.db.WithContext(ctx)

	var m models.Member
	if err := db.Preload("Family").First(&m, memberID).Error; err != nil {
		return nil, ErrMemberNotFound
	}
	if !isAdmin && (m.IdentityID == nil || *m.IdentityID != callerID) {
		if m.FamilyID == nil {
			return nil, ErrMemberNotFound
		}
		var count int64
		if err := db.Model(&models.Member{}).Scopes(scope.ForIdentity(callerID), scope.ForFamily(*m.FamilyID)).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrMemberNotFound
		}
	}
	out := toMemberResponse(&m, m.Family)
	return &out, nil
}

type MemberFilter struct {
	Status   string
	FamilyID *uint
	Search   string
	Limit    int
	Offset   int
}

func (s *MemberService) AdminList(ctx context.Context, f MemberFilter) ([]dto.MemberResponse, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Member{})
	if f.Status != "" {
		if !models.IsValidStatus(f.Status) {
			return nil, 0, apperr.Field("status", "must be pending, active or rejected")
		}
		q = q.Where("status = ?", f.Status)
	}
	if f.FamilyID != nil {
		q = q.Scopes(scope.ForFamily(*f.FamilyID))
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR mobile LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	var rows []models.Member
	if err := q.Preload("Family").Order("id ASC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]dto.MemberResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toMemberResponse(&rows[i], rows[i].Family))
	}
	return out, total, nil
}

// SetStatus approves or rejects a member, mirrors the status onto the
// linked profile and notifies the member.
func (s *MemberService) SetStatus(ctx context.Context, memberID uint, status string) (*dto.MemberResponse, error) {
	if status != models.StatusActive && status != models.StatusRejected {
		return nil, apperr.Field("status", "must be active or rejected")
	}

	var m models.Member
	if err := s.db.WithContext(ctx).First(&m, memberID).Error; err != nil {
		return nil, ErrMemberNotFound
	}
	if err := s.db.WithContext(ctx).Model(&m).Update("status", status).Error; err != nil {
		return nil, err
	}
	m.Status = status

	var after reconcile.AfterCommit
	after.Add("push_member_to_profile", func(ctx context.Context) error {
		_, err := reconcile.PushMemberToProfile(ctx, s.db, &m, reconcile.OriginDirect)
		return err
	})
	if m.IdentityID != nil {
		identityID := *m.IdentityID
		title, msg := "Membership approved", "Your community membership has been approved."
		if status == models.StatusRejected {
			title, msg = "Membership rejected", "Your community membership request was rejected."
		}
		after.Add("notify_status", func(ctx context.Context) error {
			return s.notifier.Notify(ctx, identityID, notify.Draft{
				Title:         title,
				Message:       msg,
				Type:          models.NotificationTypeApproval,
				ReferenceID:   fmt.Sprint(m.ID),
				ReferenceType: "member",
			})
		})
	}
	after.Run(ctx)

	out := toMemberResponse(&m, nil)
	return &out, nil
}

// Import creates registry rows in bulk. Rows whose number matches an
// existing identity are bound to it; invalid or clashing rows are skipped.
func (s *MemberService) Import(ctx context.Context, rows []dto.ImportMember) (*dto.ImportResponse, error) {
	out := &dto.ImportResponse{}
	var after reconcile.AfterCommit

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		after.Reset()
		*out = dto.ImportResponse{}

		for _, row := range rows {
			m, err := s.importRow(tx, row)
			if err != nil {
				out.Skipped++
				continue
			}
			out.Created++
			if m.IdentityID != nil {
				out.Bound++
				bound := *m
				after.Add("push_member_to_profile", func(ctx context.Context) error {
					_, err := reconcile.PushMemberToProfile(ctx, s.db, &bound, reconcile.OriginDirect)
					return err
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	after.Run(ctx)
	return out, nil
}

func (s *MemberService) importRow(tx *gorm.DB, row dto.ImportMember) (*models.Member, error) {
	cc := strings.TrimSpace(row.CountryCode)
	if cc == "" {
		cc = s.cfg.DefaultCountryCode
	}
	mobile := strings.TrimSpace(row.Mobile)
	if strings.TrimSpace(row.Name) == "" {
		return nil, apperr.Field("name", "is required")
	}
	if err := validate.Phone("mobile", mobile); err != nil {
		return nil, err
	}
	if err := validate.CountryCode("country_code", cc); err != nil {
		return nil, err
	}
	relation := strings.TrimSpace(row.Relation)
	if relation == "" {
		relation = models.RelationSelf
	}
	if err := validate.Relation("relation", relation); err != nil {
		return nil, err
	}
	dob, err := validate.Date("date_of_birth", row.DateOfBirth)
	if err != nil {
		return nil, err
	}
	role := models.MemberRoleMember
	if row.Role == models.MemberRoleFamilyHead && row.FamilyID == nil {
		role = models.MemberRoleFamilyHead
	}

	m := models.Member{
		FamilyID:             row.FamilyID,
		CountryCode:          cc,
		Mobile:               mobile,
		Name:                 strings.TrimSpace(row.Name),
		Role:                 role,
		Status:               models.StatusPending,
		Relation:             relation,
		DateOfBirth:          dob,
		City:                 row.City,
		NativePlace:          row.NativePlace,
		Gotra:                row.Gotra,
		Occupation:           row.Occupation,
		HighestQualification: row.Qualification,
		Community:            row.Community,
	}
	if strings.TrimSpace(row.Gender) != "" {
		m.Gender = validate.Gender(row.Gender)
	}
	if row.FamilyID != nil {
		var count int64
		if err := tx.Model(&models.Family{}).Where("id = ?", *row.FamilyID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, apperr.Field("family_id", "family not found")
		}
	}

	var identity models.Identity
	err = tx.Where("country_code = ? AND phone = ?", cc, mobile).First(&identity).Error
	if err == nil {
		m.IdentityID = &identity.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = tx.Transaction(func(sp *gorm.DB) error {
		return sp.Create(&m).Error
	})
	if err != nil {
		return nil, translateWriteError(err)
	}
	return &m, nil
}

func toMemberResponse(m *models.Member, family *models.Family) dto.MemberResponse {
	r := dto.MemberResponse{
		ID:                   m.ID,
		FamilyID:             m.FamilyID,
		FamilyDisplayID:      "Unassigned",
		Name:                 m.Name,
		CountryCode:          m.CountryCode,
		Mobile:               m.Mobile,
		Role:                 m.Role,
		Status:               m.Status,
		Relation:             m.Relation,
		Gender:               m.Gender,
		DateOfBirth:          validate.FormatDate(m.DateOfBirth),
		Email:                m.Email,
		Address:              m.Address,
		City:                 m.City,
		Gotra:                m.Gotra,
		NativePlace:          m.NativePlace,
		ProfileImage:         m.ProfileImage,
		BloodGroup:           m.BloodGroup,
		Occupation:           m.Occupation,
		HighestQualification: m.HighestQualification,
		SpouseID:             m.SpouseID,
		ParentID:             m.ParentID,
		Community:            m.Community,
		ProfileCompleted:     m.ProfileCompleted,
	}
	if m.IdentityID != nil {
		id := m.IdentityID.String()
		r.IdentityID = &id
	}
	if family != nil {
		r.FamilyDisplayID = family.DisplayID()
	}
	return r
}
