// Package models holds the records persisted by the account store.
package models

import "slices"

// User is one account. WantToGoList keeps insertion order and never holds
// the same destination twice.
type User struct {
	Username     string   `bson:"username" json:"username"`
	Password     string   `bson:"password" json:"password"`
	WantToGoList []string `bson:"wantToGoList" json:"wantToGoList"`
}

// Clone returns a deep copy of u, so that callers holding the copy never
// observe later writes to u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	c := *u
	c.WantToGoList = slices.Clone(u.WantToGoList)
	if c.WantToGoList == nil {
		c.WantToGoList = []string{}
	}

	return &c
}

// Has reports whether destination is already on the list.
func (u *User) Has(destination string) bool {
	return slices.Contains(u.WantToGoList, destination)
}
