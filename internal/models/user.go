package models

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Weekdays lists the keys every Shifts table carries, in display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type Shift struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type Shifts map[string][]Shift

// DefaultShifts gives each weekday a single empty shift.
func DefaultShifts() Shifts {
	s := make(Shifts, len(Weekdays))
	for _, d := range Weekdays {
		s[d] = []Shift{{}}
	}
	return s
}

func (s Shifts) Validate() error {
	for _, d := range Weekdays {
		if _, ok := s[d]; !ok {
			return fmt.Errorf("shifts.%s is required", d)
		}
	}
	for k := range s {
		if !isWeekday(k) {
			return fmt.Errorf("shifts.%s is not a weekday", k)
		}
	}
	return nil
}

func isWeekday(k string) bool {
	for _, d := range Weekdays {
		if d == k {
			return true
		}
	}
	return false
}

// User is stored twice: as a row in the users table and as an embedded copy
// inside its client. The hash only lives on the row.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"_id"`
	FirstName string    `gorm:"not null" json:"firstname"`
	LastName  string    `gorm:"not null" json:"lastname"`
	Email     string    `gorm:"index;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"not null" json:"role"`
	Shifts    Shifts    `gorm:"serializer:json;type:jsonb;not null" json:"shifts"`
	ClientID  string    `gorm:"type:uuid;index" json:"clientid"`
	Jobs      []string  `gorm:"serializer:json;type:jsonb" json:"jobs"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasJob reports whether id is already in the user's job list.
func (u *User) HasJob(id string) bool {
	for _, j := range u.Jobs {
		if j == id {
			return true
		}
	}
	return false
}
