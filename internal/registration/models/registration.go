package models

import (
	"strings"
	"time"

	dErrors "pccreg/pkg/domain-errors"
)

// Track is the training specialization an applicant selects.
type Track string

const (
	TrackSoftware   Track = "SOFTWARE"
	TrackNetwork    Track = "NETWORK"
	TrackMultimedia Track = "MULTIMEDIA"
)

// Tracks lists every specialization in display order.
var Tracks = []Track{TrackSoftware, TrackNetwork, TrackMultimedia}

func (t Track) IsValid() bool {
	switch t {
	case TrackSoftware, TrackNetwork, TrackMultimedia:
		return true
	}
	return false
}

// ParseTrack validates a track value from the wire. An empty string is
// allowed: applicants may submit without choosing a track yet.
func ParseTrack(s string) (Track, error) {
	if s == "" {
		return "", nil
	}
	t := Track(s)
	if !t.IsValid() {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unknown track %q", s)
	}
	return t, nil
}

// Status is the review state of an application.
//
// Created as StatusPending; mutated only by administrator action. Transitions
// are unrestricted (any status to any status, including itself) so admins can
// correct mistakes; the audit log preserves the history a hard lock would.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusVerify  Status = "VERIFY"
	StatusReject  Status = "REJECT"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusVerify, StatusReject:
		return true
	}
	return false
}

// CountsTowardQuota reports whether an application in this status occupies a
// slot in its track. Rejected applications free their slot immediately.
func (s Status) CountsTowardQuota() bool {
	return s == StatusPending || s == StatusVerify
}

// Registration is one applicant's submission.
//
// Invariants:
//   - NIM is globally unique (at most one Registration per student id)
//   - Status is one of PENDING, VERIFY, REJECT
//   - CreatedAt is immutable after construction
type Registration struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	NIM          string    `json:"nim"`
	StudyProgram string    `json:"study_program"`
	Major        string    `json:"major"`
	Track        Track     `json:"track,omitempty"`
	WhatsApp     string    `json:"whatsapp"`
	ProofURL     string    `json:"proof_url,omitempty"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewRegistration builds a PENDING registration after validating required
// fields. Field checks run before any store lookup so the caller gets the
// user-correctable error first.
func NewRegistration(id, fullName, nim, studyProgram, major string, track Track, whatsApp, proofURL string, now time.Time) (*Registration, error) {
	fullName = strings.TrimSpace(fullName)
	nim = strings.TrimSpace(nim)
	studyProgram = strings.TrimSpace(studyProgram)
	major = strings.TrimSpace(major)
	whatsApp = strings.TrimSpace(whatsApp)

	switch {
	case fullName == "":
		return nil, dErrors.New(dErrors.CodeBadRequest, "full name is required")
	case nim == "":
		return nil, dErrors.New(dErrors.CodeBadRequest, "student id (NIM) is required")
	case studyProgram == "":
		return nil, dErrors.New(dErrors.CodeBadRequest, "study program is required")
	case major == "":
		return nil, dErrors.New(dErrors.CodeBadRequest, "major is required")
	case whatsApp == "":
		return nil, dErrors.New(dErrors.CodeBadRequest, "whatsapp number is required")
	}

	return &Registration{
		ID:           id,
		FullName:     fullName,
		NIM:          nim,
		StudyProgram: studyProgram,
		Major:        major,
		Track:        track,
		WhatsApp:     whatsApp,
		ProofURL:     proofURL,
		Status:       StatusPending,
		CreatedAt:    now,
	}, nil
}

// TrackQuota reports occupancy for one track. Current is a live count of
// {PENDING, VERIFY} registrations, never a stored counter.
type TrackQuota struct {
	Current int  `json:"current"`
	Max     int  `json:"max"`
	Full    bool `json:"full"`
}

// QuotaInfo is the per-track occupancy snapshot rendered by the public quota
// endpoint and consulted by the registration form.
type QuotaInfo struct {
	Software   TrackQuota `json:"software"`
	Network    TrackQuota `json:"network"`
	Multimedia TrackQuota `json:"multimedia"`
}
