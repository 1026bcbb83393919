package usersdk

import "time"

// ============================================================================
// User Types
// ============================================================================

// User is the public representation of a user. It never carries the
// password or its hashes.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`

	FailedLoginAttempts int        `json:"failed_login_attempts"`
	LastFailedAttemptAt *time.Time `json:"last_failed_attempt_at,omitempty"`

	// PasswordChangedAt is when the current password was set.
	PasswordChangedAt *time.Time `json:"password_changed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile
}

// Profile holds the billing and onboarding attributes stored with a user.
type Profile struct {
	Quantity          *int           `json:"quantity,omitempty"`
	TeamSize          string         `json:"team_size,omitempty"`
	YourRole          string         `json:"your_role,omitempty"`
	DateFormat        string         `json:"date_format,omitempty"`
	PDFIcon           *string        `json:"pdf_icon"`
	StripeCustomerID  *string        `json:"stripe_customer_id"`
	Onboarding        bool           `json:"onboarding"`
	OnboardingWeb     bool           `json:"onboarding_web"`
	IntroVideoClose   *bool          `json:"intro_video_close,omitempty"`
	IsDeactivated     bool           `json:"is_deactivated"`
	IsMarketPlaceUser *bool          `json:"is_market_place_user,omitempty"`
	HasAgreedToTerms  bool           `json:"has_agreed_to_terms"`
	Temp              *bool          `json:"temp,omitempty"`
	Subscription      map[string]any `json:"subscription"`
	SitesID           []string       `json:"sites_id"`
	Addons            []string       `json:"addons"`
	AdminID           string         `json:"admin_id,omitempty"`
}

// ProfileUpdate sets profile attributes on create or update. Nil fields
// are left unchanged.
type ProfileUpdate struct {
	Quantity          *int            `json:"quantity,omitempty"`
	TeamSize          *string         `json:"team_size,omitempty"`
	YourRole          *string         `json:"your_role,omitempty"`
	DateFormat        *string         `json:"date_format,omitempty"`
	PDFIcon           *string         `json:"pdf_icon,omitempty"`
	StripeCustomerID  *string         `json:"stripe_customer_id,omitempty"`
	Onboarding        *bool           `json:"onboarding,omitempty"`
	OnboardingWeb     *bool           `json:"onboarding_web,omitempty"`
	IntroVideoClose   *bool           `json:"intro_video_close,omitempty"`
	IsDeactivated     *bool           `json:"is_deactivated,omitempty"`
	IsMarketPlaceUser *bool           `json:"is_market_place_user,omitempty"`
	HasAgreedToTerms  *bool           `json:"has_agreed_to_terms,omitempty"`
	Temp              *bool           `json:"temp,omitempty"`
	Subscription      *map[string]any `json:"subscription,omitempty"`
	SitesID           *[]string       `json:"sites_id,omitempty"`
	Addons            *[]string       `json:"addons,omitempty"`
	AdminID           *string         `json:"admin_id,omitempty"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// Role is "admin" or "user"; empty means admin.
	Role string `json:"role,omitempty"`

	ProfileUpdate
}

// UpdateUserRequest is the body of PUT /users/{id}. Only non-nil fields
// are changed. A new Password must not match any of the last three.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`

	ProfileUpdate
}

// ============================================================================
// Login Types
// ============================================================================

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of critical dependencies on /readyz.
type HealthChecks struct {
	Database string `json:"database"`
}

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Error            string       `json:"error"`
	ErrorDescription string       `json:"error_description,omitempty"`
	Fields           []FieldError `json:"fields,omitempty"`
	// UnlockAt is set on account_locked responses.
	UnlockAt *time.Time `json:"unlock_at,omitempty"`
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
