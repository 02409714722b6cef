// Package models defines the landing-page content entities: team members,
// sponsors, and Q&A items.
package models

import (
	"strings"

	dErrors "pccreg/pkg/domain-errors"
)

// TeamMember is a committee member shown on the landing page.
type TeamMember struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PhotoURL     string `json:"photo_url,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// Validate checks the required fields.
func (m *TeamMember) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if strings.TrimSpace(m.Role) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "role is required")
	}
	return nil
}

// Sponsor is a partner organization shown on the landing page.
type Sponsor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LogoURL      string `json:"logo_url,omitempty"`
	WebsiteURL   string `json:"website_url,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

func (s *Sponsor) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	return nil
}

// QnaItem is a frequently-asked question. Mode scopes the item to one display
// mode; an empty Mode shows the item in every mode.
type QnaItem struct {
	ID           string `json:"id"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Mode         string `json:"mode,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

func (q *QnaItem) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "question is required")
	}
	if strings.TrimSpace(q.Answer) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "answer is required")
	}
	return nil
}

// VisibleIn reports whether the item should be rendered under the given
// display mode.
func (q *QnaItem) VisibleIn(mode string) bool {
	return q.Mode == "" || q.Mode == mode
}
