package domain

// UserInfo is the identity a downstream handler sees for a verified access
// token.
type UserInfo struct {
	UserID   string
	FullName string
	Email    string
	UserName string
}
