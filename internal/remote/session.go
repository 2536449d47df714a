package remote

import "context"

// LoginSession couples the Authenticator with the DriveStore so that a
// successful login or a logout drops the cached Drive client, forcing the
// next API call onto the new token.
type LoginSession struct {
	auth  *Authenticator
	drive *DriveStore
}

// NewLoginSession wires the session pair.
func NewLoginSession(auth *Authenticator, drive *DriveStore) *LoginSession {
	return &LoginSession{auth: auth, drive: drive}
}

// LoginURL returns the Google consent URL.
func (s *LoginSession) LoginURL(state string) string {
	return s.auth.LoginURL(state)
}

// Exchange completes the authorization-code flow and resets the Drive client.
func (s *LoginSession) Exchange(ctx context.Context, code string) error {
	if err := s.auth.Exchange(ctx, code); err != nil {
		return err
	}
	s.drive.Reset()
	return nil
}

// Logout discards the session and resets the Drive client.
func (s *LoginSession) Logout() error {
	if err := s.auth.Logout(); err != nil {
		return err
	}
	s.drive.Reset()
	return nil
}

// IsAuthenticated reports whether a stored token exists.
func (s *LoginSession) IsAuthenticated(ctx context.Context) bool {
	return s.auth.IsAuthenticated(ctx)
}
