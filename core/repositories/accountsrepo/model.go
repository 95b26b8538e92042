package accountsrepo

import "fmt"

// Account links a user to an external identity provider.
type Account struct {
	ID                string  `db:"id" json:"id"`
	UserID            string  `db:"user_id" json:"userId"`
	Type              string  `db:"type" json:"type"`
	Provider          string  `db:"provider" json:"provider"`
	ProviderAccountID string  `db:"provider_account_id" json:"providerAccountId"`
	RefreshToken      *string `db:"refresh_token" json:"-"`
	AccessToken       *string `db:"access_token" json:"-"`
	ExpiresAt         *int64  `db:"expires_at" json:"expiresAt,omitempty"`
	TokenType         *string `db:"token_type" json:"tokenType,omitempty"`
	Scope             *string `db:"scope" json:"scope,omitempty"`
	IDToken           *string `db:"id_token" json:"-"`
	SessionState      *string `db:"session_state" json:"sessionState,omitempty"`
}

type CreateAccount struct {
	ID                string  `json:"id,omitempty"`
	UserID            string  `json:"userId"`
	Type              string  `json:"type"`
	Provider          string  `json:"provider"`
	ProviderAccountID string  `json:"providerAccountId"`
	RefreshToken      *string `json:"refreshToken,omitempty"`
	AccessToken       *string `json:"accessToken,omitempty"`
	ExpiresAt         *int64  `json:"expiresAt,omitempty"`
	TokenType         *string `json:"tokenType,omitempty"`
	Scope             *string `json:"scope,omitempty"`
	IDToken           *string `json:"idToken,omitempty"`
	SessionState      *string `json:"sessionState,omitempty"`
}

func (c CreateAccount) Validate() error {
	switch {
	case c.UserID == "":
		return fmt.Errorf("userId is required")
	case c.Type == "":
		return fmt.Errorf("type is required")
	case c.Provider == "":
		return fmt.Errorf("provider is required")
	case c.ProviderAccountID == "":
		return fmt.Errorf("providerAccountId is required")
	}
	return nil
}

// UpdateAccount carries refreshed provider tokens.
type UpdateAccount struct {
	RefreshToken *string `json:"refreshToken,omitempty"`
	AccessToken  *string `json:"accessToken,omitempty"`
	ExpiresAt    *int64  `json:"expiresAt,omitempty"`
	TokenType    *string `json:"tokenType,omitempty"`
	Scope        *string `json:"scope,omitempty"`
	IDToken      *string `json:"idToken,omitempty"`
	SessionState *string `json:"sessionState,omitempty"`
}
