package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants shared by queue producers and consumers.
const (
	TypeResumeExport = "resume:export"
	TypeEmailVerify  = "email:verify"
)

// ResumeExportPayload carries the minimum needed to render one resume
// to PDF and thumbnail.
type ResumeExportPayload struct {
	ResumeID      uint   `json:"resume_id"`
	UserID        uint   `json:"user_id"`
	TemplateID    string `json:"template_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewResumeExportTask builds an export task for one resume.
func NewResumeExportTask(resumeID, userID uint, templateID, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ResumeExportPayload{
		ResumeID:      resumeID,
		UserID:        userID,
		TemplateID:    templateID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeResumeExport, payload), nil
}

// EmailVerifyPayload carries a verification email send.
type EmailVerifyPayload struct {
	Email         string `json:"email"`
	Token         string `json:"token"`
	CorrelationID string `json:"correlation_id"`
}

// NewEmailVerifyTask builds a verification email task.
func NewEmailVerifyTask(email, token, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailVerifyPayload{
		Email:         email,
		Token:         token,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailVerify, payload), nil
}
