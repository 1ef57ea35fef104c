package requestdata

import "context"

type key struct{}

var requestDataKey key

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// RequestData is the authenticated identity attached to the request context
// by the auth middleware. Tokens are issued by the external Laravel API; this
// service only validates them.
type RequestData struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}
