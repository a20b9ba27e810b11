package domain

// Role is the role aggregate root. Accounts reference roles by name.
type Role struct {
	Entity `bson:",inline"`

	Name           string  `json:"name" bson:"name"`
	NormalizedName string  `json:"normalized_name" bson:"normalized_name"`
	Claims         []Claim `json:"claims" bson:"claims"`
}

func NewRole(name string) *Role {
	return &Role{Name: name, Claims: []Claim{}}
}

// RoleRef exposes the embedded Role of a caller-defined role type.
func (r *Role) RoleRef() *Role { return r }

// RoleType constrains a type parameter to a pointer to a role type.
type RoleType[T any] interface {
	*T
	Document
	RoleRef() *Role
}
