package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	MyInfoCtx       ContextKey = "myInfo"
	UserInfoCtx     ContextKey = "userInfo"
	OrganizationCtx ContextKey = "organization"
	EventCtx        ContextKey = "event"
	ExcuseCtx       ContextKey = "excuse"
)
