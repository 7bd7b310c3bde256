package users

import (
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const UserKey ContextKey = "user"

type User struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Email      string    `db:"email" json:"email"`
	Username   string    `db:"username" json:"username"`
	PhantomID  *string   `db:"phantom_id" json:"phantomId"`
	Country    *string   `db:"country" json:"country"`
	Rating     *int      `db:"rating" json:"rating"`
	AvatarURL  *string   `db:"avatar_url" json:"avatarUrl"`
	Provider   *string   `db:"provider" json:"provider"`
	ProviderID *string   `db:"provider_id" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
