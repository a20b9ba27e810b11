package domain

import "time"

// Document field paths shared by the stores' scan predicates and the
// storage adapters' indexes. They must match the bson tags below.
const (
	FieldNormalizedUserName = "normalized_user_name"
	FieldNormalizedEmail    = "normalized_email"
	FieldNormalizedName     = "normalized_name"
	FieldRoles              = "roles"
	FieldClaims             = "claims"
	FieldLogins             = "logins"

	FieldClaimType        = "type"
	FieldClaimValue       = "value"
	FieldLoginProvider    = "provider"
	FieldLoginProviderKey = "provider_key"
)

// Claim is a (type, value) pair embedded in an account or role.
type Claim struct {
	Type  string `json:"type" bson:"type"`
	Value string `json:"value" bson:"value"`
}

// Matches reports (type, value) equality.
func (c Claim) Matches(other Claim) bool {
	return c.Type == other.Type && c.Value == other.Value
}

// Login links an account to an external identity provider.
// (Provider, ProviderKey) identifies the external identity; uniqueness
// across accounts is not enforced here.
type Login struct {
	Provider    string `json:"provider" bson:"provider"`
	ProviderKey string `json:"provider_key" bson:"provider_key"`
	DisplayName string `json:"display_name,omitempty" bson:"display_name,omitempty"`
}

// Token is an opaque value stored under a (provider, name) key.
type Token struct {
	Provider string `json:"provider" bson:"provider"`
	Name     string `json:"name" bson:"name"`
	Value    string `json:"value" bson:"value"`
}

// Account is the user aggregate root. Everything the identity layer knows
// about a user lives in this one document.
type Account struct {
	Entity `bson:",inline"`

	UserName           string `json:"user_name,omitempty" bson:"user_name,omitempty"`
	NormalizedUserName string `json:"normalized_user_name,omitempty" bson:"normalized_user_name,omitempty"`
	Email              string `json:"email,omitempty" bson:"email,omitempty"`
	NormalizedEmail    string `json:"normalized_email,omitempty" bson:"normalized_email,omitempty"`
	EmailConfirmed     bool   `json:"email_confirmed" bson:"email_confirmed"`

	PasswordHash  string `json:"-" bson:"password_hash,omitempty"`
	SecurityStamp string `json:"-" bson:"security_stamp,omitempty"`

	PhoneNumber          string `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	PhoneNumberConfirmed bool   `json:"phone_number_confirmed" bson:"phone_number_confirmed"`

	TwoFactorEnabled bool `json:"two_factor_enabled" bson:"two_factor_enabled"`

	LockoutEnd        *time.Time `json:"lockout_end,omitempty" bson:"lockout_end,omitempty"`
	LockoutEnabled    bool       `json:"lockout_enabled" bson:"lockout_enabled"`
	AccessFailedCount int        `json:"access_failed_count" bson:"access_failed_count"`

	Roles  RoleSet `json:"roles" bson:"roles"`
	Claims []Claim `json:"claims" bson:"claims"`
	Logins []Login `json:"logins" bson:"logins"`
	Tokens []Token `json:"-" bson:"tokens"`
}

// NewAccount returns an account with empty embedded collections.
func NewAccount(userName string) *Account {
	return &Account{
		UserName: userName,
		Roles:    RoleSet{},
		Claims:   []Claim{},
		Logins:   []Login{},
		Tokens:   []Token{},
	}
}

// AccountRef exposes the embedded Account of a caller-defined account type.
func (a *Account) AccountRef() *Account { return a }

// AccountType constrains a type parameter to a pointer to an account type,
// either Account itself or a struct embedding it.
type AccountType[T any] interface {
	*T
	Document
	AccountRef() *Account
}
