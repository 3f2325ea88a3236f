package utils

import (
	"context"
	"errors"

	"employee-admin/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrUserIDNotFound     = errors.New("userID not found in context")
	ErrUserIDNotString    = errors.New("userID in context is not a string")
	ErrTokenIDNotFound    = errors.New("tokenID not found in context")
	ErrTokenIDNotString   = errors.New("tokenID in context is not a string")
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
)

func stringFromContext(ctx context.Context, key interface{}, missing, notString error) (string, error) {
	val := ctx.Value(key)
	if val == nil {
		return "", missing
	}
	s, ok := val.(string)
	if !ok {
		return "", notString
	}
	return s, nil
}

// GetUserIDFromContext retrieves the authenticated admin ID from the context.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	return stringFromContext(ctx, contextkeys.UserIDKey, ErrUserIDNotFound, ErrUserIDNotString)
}

// GetTokenIDFromContext retrieves the session token ID (jti) from the context.
func GetTokenIDFromContext(ctx context.Context) (string, error) {
	return stringFromContext(ctx, contextkeys.TokenIDKey, ErrTokenIDNotFound, ErrTokenIDNotString)
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	return stringFromContext(ctx, contextkeys.RequestIDKey, ErrRequestIDNotFound, ErrRequestIDNotString)
}

// Context builder functions

// WithUserID returns a copy of ctx carrying the admin ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

// WithTokenID returns a copy of ctx carrying the session token ID.
func WithTokenID(ctx context.Context, tokenID string) context.Context {
	return context.WithValue(ctx, contextkeys.TokenIDKey, tokenID)
}

// WithRequestID returns a copy of ctx carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithComponent returns a copy of ctx carrying the logging component name.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// WithOperation returns a copy of ctx carrying the logging operation name.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// GetUserIDOrDefault returns the admin ID from ctx, or def when absent.
func GetUserIDOrDefault(ctx context.Context, def string) string {
	if id, err := GetUserIDFromContext(ctx); err == nil {
		return id
	}
	return def
}

// HasUserID reports whether ctx carries an authenticated admin ID.
func HasUserID(ctx context.Context) bool {
	_, err := GetUserIDFromContext(ctx)
	return err == nil
}
