package routes

const (
	Register = "/api/auth/register"
	Login    = "/api/auth/login"
	Refresh  = "/api/auth/refresh"

	Profile = "/api/profile"
	MyPosts = "/api/my-posts"

	Posts      = "/api/posts"
	Post       = "/api/posts/{id}"
	Categories = "/api/categories"
	Category   = "/api/categories/{id}"
	Tags       = "/api/tags"
	Tag        = "/api/tags/{id}"
	Users      = "/api/users"
	User       = "/api/users/{id}"

	Health  = "/health"
	Metrics = "/metrics"
	Swagger = "/swagger/"
)
