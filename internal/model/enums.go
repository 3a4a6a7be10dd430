package model

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// NotificationKind identifies which email template a notification renders.
type NotificationKind string

const (
	NotificationContact     NotificationKind = "contact"
	NotificationApplication NotificationKind = "application"
	NotificationProposal    NotificationKind = "proposal"
)
