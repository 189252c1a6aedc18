package domain

import "time"

// Role is the authorization role claimed by a token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Address is a saved shipping address embedded in a User.
type Address struct {
	ID         string `json:"id"`
	Label      string `json:"label,omitempty"`
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"isDefault"`
}

// User is a registered customer or administrator.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	Addresses    []Address `json:"addresses"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FindAddress returns the index of the address with the given id, or -1.
func (u *User) FindAddress(id string) int {
	for i := range u.Addresses {
		if u.Addresses[i].ID == id {
			return i
		}
	}
	return -1
}

// SetDefaultAddress marks the address with the given id as default and clears
// the flag on all others. Returns false if the id is unknown.
func (u *User) SetDefaultAddress(id string) bool {
	idx := u.FindAddress(id)
	if idx < 0 {
		return false
	}
	for i := range u.Addresses {
		u.Addresses[i].IsDefault = i == idx
	}
	return true
}

// EnsureDefaultAddress promotes the first address when none is default.
func (u *User) EnsureDefaultAddress() {
	if len(u.Addresses) == 0 {
		return
	}
	for _, a := range u.Addresses {
		if a.IsDefault {
			return
		}
	}
	u.Addresses[0].IsDefault = true
}
