package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "employee-admin context key " + string(c)
}

// UserIDKey is the key for the authenticated admin's ID in context.Context
const UserIDKey = contextKey("userID")

// AdminKey is the key for the resolved *model.Admin in context.Context
const AdminKey = contextKey("admin")

// TokenIDKey is the key for the session token's jti in context.Context
const TokenIDKey = contextKey("tokenID")

// RequestIDKey is the key for the request ID in context.Context
const RequestIDKey = contextKey("requestID")

// ComponentKey is the key for the logging component in context.Context
const ComponentKey = contextKey("component")

// OperationKey is the key for the logging operation in context.Context
const OperationKey = contextKey("operation")
