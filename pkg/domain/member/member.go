package member

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDisplayName = errors.New("member display name cannot be empty")
	ErrInvalidID          = errors.New("member id cannot be nil")
)

// Member is the read model of a forum account consulted during
// moderation decisions. Unrestricted members skip the content checks;
// throttle-exempt members skip flood control.
type Member struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	DisplayName    string    `json:"display_name"`
	Email          string    `json:"email" gorm:"index"`
	URL            string    `json:"url"`
	Unrestricted   bool      `json:"unrestricted"`
	ThrottleExempt bool      `json:"throttle_exempt"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewMember(id uuid.UUID, displayName, email, url string) (*Member, error) {
	entity := &Member{
		ID:          id,
		DisplayName: displayName,
		Email:       email,
		URL:         url,
	}

	if err := entity.Validate(); err != nil {
		return nil, err
	}

	return entity, nil
}

func (m Member) Validate() error {
	if m.ID == uuid.Nil {
		return ErrInvalidID
	}

	if m.DisplayName == "" {
		return ErrInvalidDisplayName
	}

	return nil
}

func (m Member) TableName() string {
	return "public.members"
}
