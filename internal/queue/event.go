// Package queue defines message payloads exchanged over the message broker.
package queue

// ApplicationReceivedEvent is published when a job application has been
// persisted.  It carries enough for downstream consumers to notify the
// posting's employer or feed analytics without querying the primary
// database.  Publishing is strictly best-effort: the submission that
// produced the event has already succeeded by the time this is sent.
type ApplicationReceivedEvent struct {
    ApplicationID  uint64 `json:"application_id"`
    JobID          uint64 `json:"job_id"`
    JobTitle       string `json:"job_title"`
    ApplicantName  string `json:"applicant_name"`
    ApplicantEmail string `json:"applicant_email"`
    SubmittedAt    string `json:"submitted_at"`
}
