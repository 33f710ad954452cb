package model

import "time"

// Profile holds persona-specific attributes for an account.  One row
// exists per user (profiles.user_id is unique) and is created together
// with the role assignment during signup.  Employer accounts fill
// CompanyName; job seekers fill Headline, Skills, Education and
// ResumeURL.  Unused columns stay NULL.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owning account (unique).
//  DisplayName – name shown on dashboards and applications.
//  Phone       – contact phone number.
//  CompanyName – employer company name (nullable).
//  Headline    – job seeker headline (nullable).
//  Skills      – free-form skills summary (nullable).
//  Education   – free-form education summary (nullable).
//  ResumeURL   – reference URL of an externally stored resume (nullable).
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Profile struct {
    ID          uint64    // profiles.id
    UserID      uint64    // profiles.user_id
    DisplayName string    // profiles.display_name
    Phone       string    // profiles.phone
    CompanyName *string   // profiles.company_name (nullable)
    Headline    *string   // profiles.headline (nullable)
    Skills      *string   // profiles.skills (nullable)
    Education   *string   // profiles.education (nullable)
    ResumeURL   *string   // profiles.resume_url (nullable)
    CreatedAt   time.Time // profiles.created_at
    UpdatedAt   time.Time // profiles.updated_at
}
