package models

// OwnerKind distinguishes user-owned records from built-in system records.
type OwnerKind string

const (
	OwnerKindUser   OwnerKind = "user"
	OwnerKindSystem OwnerKind = "system"
)

// Owner is embedded by records that are either owned by a user or by the system.
// A system owner never matches any caller.
type Owner struct {
	OwnerKind OwnerKind `gorm:"size:16;not null;default:user;index" json:"owner_kind"`
	OwnerID   *uint     `gorm:"index" json:"owner_id,omitempty"`
}

// UserOwner returns the owner value for a user id.
func UserOwner(userID uint) Owner {
	id := userID
	return Owner{OwnerKind: OwnerKindUser, OwnerID: &id}
}

// SystemOwner returns the owner value for built-in records.
func SystemOwner() Owner {
	return Owner{OwnerKind: OwnerKindSystem}
}

// IsSystem reports whether the record belongs to the system.
func (o Owner) IsSystem() bool {
	return o.OwnerKind == OwnerKindSystem
}

// OwnedBy reports whether userID owns the record.
func (o Owner) OwnedBy(userID uint) bool {
	return o.OwnerKind == OwnerKindUser && o.OwnerID != nil && *o.OwnerID == userID
}
