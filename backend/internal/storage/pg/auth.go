package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	internal_errors "github.com/feedbackhub/feedbackhub/shared/errors"
)

func (s *Storage) User(ctx context.Context, email domain.Email) (domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, role FROM users WHERE email = $1",
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&user.Id, &user.Email, &user.PassHash, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}
