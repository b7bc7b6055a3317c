package models

import "github.com/golang-jwt/jwt/v5"

// SupabaseClaims represents the JWT claims structure from Supabase Auth.
// See: https://supabase.com/docs/guides/auth/jwts
type SupabaseClaims struct {
	jwt.RegisteredClaims
	Email        string                 `json:"email"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	Role         string                 `json:"role"` // "authenticated" or "anon"
	SessionID    string                 `json:"session_id"`
	IsAnonymous  bool                   `json:"is_anonymous"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *SupabaseClaims) GetUserID() string {
	return c.Subject
}

// SessionUser identifies the signed-in user.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is what the auth collaborator supplies for a request.
// A nil *Session means the request is anonymous.
type Session struct {
	User SessionUser `json:"user"`
}

// NewSession builds a session from verified claims.
func NewSession(claims *SupabaseClaims) *Session {
	return &Session{User: SessionUser{ID: claims.GetUserID(), Email: claims.Email}}
}

// Authenticated reports whether s identifies a user.
func (s *Session) Authenticated() bool {
	return s != nil && s.User.ID != ""
}
