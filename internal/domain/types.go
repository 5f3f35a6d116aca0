package domain

import "time"

type UserID string
type ChatSessionID string
type ResumeRecordID string

type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

type Timestamp = time.Time
