package model

import (
	"errors"

	"xdao.co/warden/account"
	"xdao.co/warden/identity"
	"xdao.co/warden/storage"
)

// FromState projects an account record into its wire view.
func FromState(st *account.State) AccountView {
	v := AccountView{
		Account:       st.ID.String(),
		Owner:         st.Owner.String(),
		GuardianCount: st.Count,
		Threshold:     st.Threshold,
		Version:       st.Version,
		CreatedAt:     st.CreatedAt,
		UpdatedAt:     st.UpdatedAt,
	}
	if !st.PendingOwner.IsZero() {
		v.PendingOwner = st.PendingOwner.String()
	}
	return v
}

// ToIdentity parses a wire identity string.
func ToIdentity(s string) (identity.Identity, error) {
	id, err := identity.Parse(s)
	if err != nil {
		return identity.Identity{}, NewError(ErrInvalidIdentity, err.Error())
	}
	return id, nil
}

// ToIdentities parses a wire identity list, preserving order.
func ToIdentities(ss []string) ([]identity.Identity, error) {
	out := make([]identity.Identity, 0, len(ss))
	for _, s := range ss {
		id, err := ToIdentity(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// ToGuardianID parses a wire guardian registry key.
func ToGuardianID(s string) (identity.GuardianID, error) {
	gid, err := identity.ParseGuardianID(s)
	if err != nil {
		return identity.GuardianID{}, NewError(ErrInvalidIdentity, err.Error())
	}
	return gid, nil
}

// ToGuardianIDs parses a wire guardian registry key list, preserving order.
func ToGuardianIDs(ss []string) ([]identity.GuardianID, error) {
	out := make([]identity.GuardianID, 0, len(ss))
	for _, s := range ss {
		gid, err := ToGuardianID(s)
		if err != nil {
			return nil, err
		}
		out = append(out, gid)
	}
	return out, nil
}

// WireError maps a domain error onto a stable wire code. CodedErrors pass
// through unchanged; account taxonomy errors keep their Reason.
func WireError(err error) *CodedError {
	if err == nil {
		return nil
	}
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce
	}
	var ae *account.Error
	if errors.As(err, &ae) {
		code := ErrInternal
		switch ae.Kind {
		case account.KindValidation:
			code = ErrValidationFailed
		case account.KindAuthorization:
			code = ErrNotAuthorized
		case account.KindRecovery:
			code = ErrRecoveryFailed
		case account.KindOwnership:
			code = ErrInvalidOwner
		}
		return &CodedError{Code: code, Reason: string(ae.Reason), Message: ae.Message}
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return NewError(ErrNotFound, err.Error())
	case errors.Is(err, storage.ErrExists):
		return NewError(ErrAlreadyExists, err.Error())
	case errors.Is(err, storage.ErrVersionConflict):
		return NewError(ErrVersionConflict, err.Error())
	}
	return NewError(ErrInternal, err.Error())
}
