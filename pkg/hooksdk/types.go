package hooksdk

// ============================================================================
// Hook Types
// ============================================================================

// AccessTokenHookRequest is the payload of the custom access-token hook.
type AccessTokenHookRequest struct {
	UserID               string         `json:"user_id"`
	Claims               map[string]any `json:"claims"`
	AuthenticationMethod string         `json:"authentication_method,omitempty"`
}

// AccessTokenHookResponse carries the claims the provider will sign.
type AccessTokenHookResponse struct {
	Claims map[string]any `json:"claims"`
}

// HookUser is the subset of the provider's user record sent on creation.
type HookUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

type HookMetadata struct {
	Name string `json:"name,omitempty"`
	UUID string `json:"uuid,omitempty"`
}

// UserCreatedHookRequest is the payload of the user-created hook.
type UserCreatedHookRequest struct {
	Metadata HookMetadata `json:"metadata"`
	User     HookUser     `json:"user"`
}

// ============================================================================
// User Types
// ============================================================================

// UserInfoResponse is returned from GET /v1/me for a verified access token.
type UserInfoResponse struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	UserName string `json:"user_name"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is used by both /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
}
