package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

// UpsertProfile создаёт или обновляет анкету пользователя
// и возвращает её актуальное состояние.
func (s *Storage) UpsertProfile(ctx context.Context, profile models.ElderlyProfile) (*models.ElderlyProfile, error) {
	const op = "repository.UpsertProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO elderly_profiles (user_uid, age, gender, address,
			      emergency_contact, emergency_phone)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (user_uid) DO UPDATE SET
			      age = EXCLUDED.age,
			      gender = EXCLUDED.gender,
			      address = EXCLUDED.address,
			      emergency_contact = EXCLUDED.emergency_contact,
			      emergency_phone = EXCLUDED.emergency_phone,
			      updated_at = now()
			  RETURNING id, user_uid, age, gender, address, emergency_contact,
			      emergency_phone, created_at, updated_at`
	p, err := scanProfileFields(s.DB.QueryRowContext(ctx, query,
		profile.UserUID, profile.Age, profile.Gender, profile.Address,
		profile.EmergencyContact, profile.EmergencyPhone))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetProfileByUserUID возвращает анкету по UID пользователя.
func (s *Storage) GetProfileByUserUID(ctx context.Context, userUID string) (*models.ElderlyProfile, error) {
	const op = "repository.GetProfileByUserUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, age, gender, address, emergency_contact,
			      emergency_phone, created_at, updated_at
			  FROM elderly_profiles
			  WHERE user_uid = $1`
	p, err := scanProfileFields(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanProfileFields(row rowScanner) (*models.ElderlyProfile, error) {
	p := &models.ElderlyProfile{}
	var age, gender sql.NullInt64
	var address, contact, phone sql.NullString
	if err := row.Scan(&p.ID, &p.UserUID, &age, &gender, &address,
		&contact, &phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	if gender.Valid {
		v := int(gender.Int64)
		p.Gender = &v
	}
	if address.Valid {
		p.Address = &address.String
	}
	if contact.Valid {
		p.EmergencyContact = &contact.String
	}
	if phone.Valid {
		p.EmergencyPhone = &phone.String
	}
	return p, nil
}
