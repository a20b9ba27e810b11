package domain

import (
	"encoding/json"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// RoleSet holds role names an account belongs to. Membership is by name.
// It is persisted as a plain string array so the storage engine can match
// a single element with an equality filter.
type RoleSet map[string]struct{}

// NewRoleSet returns a set containing names, duplicates collapsed.
func NewRoleSet(names ...string) RoleSet {
	s := make(RoleSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts name. Adding an existing member is a no-op.
func (s *RoleSet) Add(name string) {
	if *s == nil {
		*s = make(RoleSet)
	}
	(*s)[name] = struct{}{}
}

// Remove deletes name. Removing a non-member is a no-op.
func (s RoleSet) Remove(name string) {
	delete(s, name)
}

func (s RoleSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members sorted. Callers must not rely on any order.
func (s RoleSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (s RoleSet) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(s.Names())
}

func (s *RoleSet) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var names []string
	if t != bsontype.Null && t != bsontype.Undefined {
		if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&names); err != nil {
			return err
		}
	}
	*s = NewRoleSet(names...)
	return nil
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewRoleSet(names...)
	return nil
}
