package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyUserID    = "user_id"
	KeyUserName  = "user_name"
	KeyUserEmail = "user_email"
	KeyIsAdmin   = "is_admin"
	KeyLoggedIn  = "logged_in"
	KeyUserPlan  = "user_plan"
)
