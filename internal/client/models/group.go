package models

// Group is a sharing scope; membership implies recipient status for every
// document in the group.
type Group struct {
	ID   string
	Name string
}

// Member roles. Authorization rules beyond "member implies recipient" are
// the directory's business, not the client's.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// GroupMember links a user to a group.
type GroupMember struct {
	UserID string
	Role   string
}

// ShareReport is the outcome of one DEK fan-out: the successfully wrapped
// entries ready for bulk insertion, and the ids of devices whose public
// key could not be used (reported for diagnostics, never fatal).
type ShareReport struct {
	Wrapped []WrappedKeyEntry
	Failed  []string
}

// ReshareReport accounts for re-sharing existing documents with a newly
// added member: keys shared, documents skipped because the inviter holds
// no entry for them, and devices skipped for bad public keys.
type ReshareReport struct {
	Shared               int
	SkippedMissingOwnKey int
	SkippedBadDeviceKey  int
}
