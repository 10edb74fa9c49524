package domain

import "time"

// Token describes an issued worker access token.
type Token struct {
	Value     string
	WorkerID  int64
	Role      Role
	ExpiresAt time.Time
}
