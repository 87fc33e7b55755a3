package errors

import "fmt"

var (
	ErrGroupAlreadyExists = fmt.Errorf("group already exists")
	ErrGroupNotFound      = fmt.Errorf("group not found")
	ErrNotGroupMember     = fmt.Errorf("not a group member")
	ErrEmptyGroupName     = fmt.Errorf("group name is empty")
	ErrEmptyMessage       = fmt.Errorf("message is empty")
	ErrRecipientNotFound  = fmt.Errorf("recipient not found")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrAlreadyLoggedIn    = fmt.Errorf("user already logged in")
	ErrUnknownCommand     = fmt.Errorf("unknown command")
	ErrServerFull         = fmt.Errorf("server full")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
)
