package services

import "github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"

var (
	ErrPhoneClaimed       = apperr.Conflict("This phone number is already linked to another account.")
	ErrInvalidCredentials = apperr.New(apperr.ErrAuth, "invalid email or password")
	ErrInvalidToken       = apperr.New(apperr.ErrAuth, "invalid or expired refresh token")
	ErrIdentityNotFound   = apperr.NotFound("identity not found")

	ErrNotFamilyHead         = apperr.Forbidden("Only the family head can manage members.")
	ErrMemberNotFound        = apperr.NotFound("member not found")
	ErrNoFamily              = apperr.NotFound("You are not part of a family yet.")
	ErrMobileOtherFamily     = apperr.Conflict("This mobile is already registered under another family.")
	ErrMobileInFamily        = apperr.Conflict("This mobile is already used in your family.")
	ErrSpouseLinked          = apperr.Conflict("Spouse is already linked to another member.")
	ErrSpouseSelf            = apperr.Field("spouse_id", "a member cannot be their own spouse")
	ErrSpouseOtherFamily     = apperr.Field("spouse_id", "spouse must belong to the same family")
	ErrParentSelf            = apperr.Field("parent_id", "a member cannot be their own parent")
	ErrParentNotInFamily     = apperr.Field("parent_id", "must reference a member of your family")
	ErrRoleChange            = apperr.Field("role", "role cannot be changed here; use make family head")
	ErrHeadExists            = apperr.Field("role", "this family already has a head")
	ErrFamilyHeadTaken       = apperr.Invariant("your family already has a different head member")
	ErrHeadElsewhere         = apperr.Conflict("This account already heads another family.")
	ErrMemberWithoutFamily   = apperr.Invariant("member has no family")
	ErrMemberWithoutIdentity = apperr.Invariant("member has no linked identity")

	ErrNotificationNotFound = apperr.NotFound("notification not found")
	errIsReadRequired       = apperr.Field("is_read", "is_read field is required")
	ErrProfileForbidden     = apperr.Forbidden("you can only view your own profile")
)
