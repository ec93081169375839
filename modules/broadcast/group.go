package broadcast

// GroupKind distinguishes the three kinds of broadcast target.
type GroupKind uint8

const (
	GroupRoom GroupKind = iota + 1
	GroupUser
	GroupAdmins
)

// GroupKey identifies a broadcast target. Keys of different kinds never
// compare equal, even when their ids do.
type GroupKey struct {
	kind GroupKind
	id   string
}

// RoomGroup is the group of connections that joined a room.
func RoomGroup(roomID string) GroupKey { return GroupKey{kind: GroupRoom, id: roomID} }

// UserGroup is the group of all connections of one user.
func UserGroup(userID string) GroupKey { return GroupKey{kind: GroupUser, id: userID} }

// AdminsGroup is the group of all connections of admin users.
func AdminsGroup() GroupKey { return GroupKey{kind: GroupAdmins} }

func (k GroupKey) Kind() GroupKind { return k.kind }
func (k GroupKey) ID() string      { return k.id }

func (k GroupKey) String() string {
	switch k.kind {
	case GroupRoom:
		return "room:" + k.id
	case GroupUser:
		return "user:" + k.id
	case GroupAdmins:
		return "admins"
	default:
		return "invalid"
	}
}
