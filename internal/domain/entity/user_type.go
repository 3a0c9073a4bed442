package entity

import "time"

// SuperUserType is the user type that unlocks the administration views.
const SuperUserType = "SuperUser"

// UserType is a named group used for authorization decisions
// Many-to-many with User via user_type_members
// Names are not unique; two types may share a name.
type UserType struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
