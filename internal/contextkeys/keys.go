package contextkeys

type contextKey string

const (
	ActorKey     contextKey = "actor"
	RequestIDKey contextKey = "request_id"
	RouteKey     contextKey = "route"
)
