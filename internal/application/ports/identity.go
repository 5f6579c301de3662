package ports

// IdentityResolver turns an Authorization header value into a user id.
// An empty id with a nil error means the request carries no identity.
type IdentityResolver interface {
	ResolveUserID(authorization string) (userID string, err error)
}
