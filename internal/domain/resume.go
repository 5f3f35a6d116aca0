package domain

// ResumeMeta describes how a tailored resume was produced
type ResumeMeta struct {
	ModelUsed        string
	ProcessingTimeMs int64
}

// ResumeTailorRecord is the persisted result of one tailoring request
type ResumeTailorRecord struct {
	ID             ResumeRecordID
	UserID         UserID
	OriginalResume string
	JobDescription string
	TailoredResume string
	CreatedAt      Timestamp

	Meta ResumeMeta
}
