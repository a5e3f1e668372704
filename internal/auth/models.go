package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
)

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Claims is the JWT payload for a dashboard viewer session. AllowedFCs lists
// the Free Company IDs the viewer may see; admins see everything regardless.
type Claims struct {
	UserID     int      `json:"user_id"`
	Username   string   `json:"username"`
	Role       string   `json:"role"`
	AllowedFCs []string `json:"allowed_fcs,omitempty"`
	jwt.RegisteredClaims
}

// User is a dashboard login account.
type User struct {
	ID           int            `json:"id"`
	Username     string         `json:"username"`
	PasswordHash string         `json:"-"`
	Role         string         `json:"role"`
	AllowedFCs   pq.StringArray `json:"allowed_fcs"`
	CreatedAt    time.Time      `json:"created_at"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// APIKey authenticates a telemetry producer on the plugin websocket.
type APIKey struct {
	ID         int        `json:"id"`
	Key        string     `json:"key,omitempty"`
	Label      string     `json:"label"`
	Revoked    bool       `json:"revoked"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}
