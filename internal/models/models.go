package models

import "time"

// Client is the tenant document. Everything under it is embedded by value and
// addressed by identifier; the users slice mirrors the standalone users table.
type Client struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"_id"`
	Name      string     `gorm:"not null" json:"name"`
	Users     []User     `gorm:"serializer:json;type:jsonb" json:"users"`
	Locations []Location `gorm:"serializer:json;type:jsonb" json:"locations"`
	Jobs      []Job      `gorm:"serializer:json;type:jsonb" json:"jobs"`
	Items     []Item     `gorm:"serializer:json;type:jsonb" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Location struct {
	ID            string       `json:"_id"`
	Name          string       `json:"name"`
	QRCodeURL     string       `json:"qrCodeUrl"`
	QRCodeEnabled bool         `json:"qrCodeEnabled"`
	Zones         []Zone       `json:"zones"`
	Records       []ZoneRecord `json:"records"`
}

type Zone struct {
	ID        string       `json:"_id"`
	Name      string       `json:"name"`
	QRCodeURL string       `json:"qrCodeUrl"`
	Records   []ZoneRecord `json:"records"`
}

// ZoneRecord is one check-in/check-out session. Timestamps are opaque strings
// supplied by the caller.
type ZoneRecord struct {
	ID           string      `json:"_id"`
	CheckInTime  string      `json:"checkInTime"`
	CheckOutTime string      `json:"checkOutTime"`
	TimeSpent    string      `json:"timeSpent"`
	Completed    []string    `json:"completed"`
	Incomplete   []string    `json:"incomplete"`
	Jobs         []JobRecord `json:"jobs"`
}

type JobRecord struct {
	JobID          string   `json:"jobId"`
	StartTime      string   `json:"startTime"`
	FinishTime     string   `json:"finishTime"`
	CompletedSteps []string `json:"completedSteps"`
}

type Job struct {
	ID            string   `json:"_id"`
	Title         string   `json:"title"`
	Steps         []Step   `json:"steps"`
	Location      Location `json:"location"`
	Zone          Zone     `json:"zone"`
	EducationLink string   `json:"educationlink"`
	AssignedUser  string   `json:"assigneduser"`
}

type Step struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Step        string   `json:"step"`
	ScopeOfWork string   `json:"scopeofwork"`
	Image       string   `json:"image"`
	Video       string   `json:"video"`
	ItemsToUse  []string `json:"itemstouse"`
	Completed   *bool    `json:"completed,omitempty"`
}

// Item.Image holds the caller's base64 payload verbatim.
type Item struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	UseCase     string `json:"usecase"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *string   `gorm:"type:uuid" json:"user_id,omitempty"`
	ClientID  *string   `gorm:"type:uuid;index" json:"client_id,omitempty"`
	Action    string    `gorm:"not null" json:"action"`
	Metadata  JSONB     `gorm:"type:jsonb" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	JTI       string     `gorm:"primaryKey;size:64" json:"jti"`
	UserID    string     `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// PendingWrite is a secondary write that failed after its primary committed.
// Payload is the op's JSON body; replaying it is idempotent.
type PendingWrite struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind       string     `gorm:"not null;index" json:"kind"`
	ClientID   string     `gorm:"index" json:"client_id,omitempty"`
	UserID     string     `gorm:"index" json:"user_id,omitempty"`
	Payload    JSONB      `gorm:"type:jsonb" json:"payload"`
	Attempts   int        `gorm:"not null;default:0" json:"attempts"`
	LastError  string     `json:"last_error,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
