package profileinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Abraxas-365/confidant/pkg/errx"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/profile"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

// PostgresProfileRepository implementación de PostgreSQL para Repository.
// El perfil vive como un documento jsonb en una sola columna; cada mutación
// de campo es un UPDATE atómico sobre ese documento.
type PostgresProfileRepository struct {
	db *sqlx.DB
}

// NewPostgresProfileRepository crea una nueva instancia del repositorio de perfiles
func NewPostgresProfileRepository(db *sqlx.DB) profile.Repository {
	return &PostgresProfileRepository{
		db: db,
	}
}

// Get obtiene el perfil del dueño; sin fila devuelve un perfil vacío
func (r *PostgresProfileRepository) Get(ctx context.Context, ownerID kernel.UserID) (*profile.Profile, error) {
	query := `SELECT data FROM profiles WHERE owner_id = $1`

	var data types.JSONText
	err := r.db.GetContext(ctx, &data, query, ownerID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return &profile.Profile{}, nil
		}
		return nil, errx.Wrap(err, "failed to get profile", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String())
	}

	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errx.Wrap(err, "failed to decode profile document", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String())
	}

	return &p, nil
}

// SetField escribe un campo escalar del documento. Crea el documento si el
// dueño todavía no tiene uno.
func (r *PostgresProfileRepository) SetField(ctx context.Context, ownerID kernel.UserID, field string, value json.RawMessage) error {
	if !profile.IsWhitelistedField(field) {
		return errx.Wrap(fmt.Errorf("unknown field %q", field), "field is not whitelisted", errx.TypeValidation).
			WithDetail("field", field)
	}

	query := `
		INSERT INTO profiles (owner_id, data, updated_at)
		VALUES ($1, jsonb_build_object($2::text, $3::jsonb), NOW())
		ON CONFLICT (owner_id) DO UPDATE
		SET data = jsonb_set(profiles.data, ARRAY[$2::text], $3::jsonb, true),
		    updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, ownerID.String(), field, types.JSONText(value))
	if err != nil {
		return errx.Wrap(err, "failed to set profile field", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String()).
			WithDetail("field", field)
	}

	return nil
}

// AppendToList agrega un elemento a un campo lista del documento con
// semántica de unión: si el elemento ya está presente el UPDATE no toca
// nada. Todo ocurre en una sola sentencia atómica.
func (r *PostgresProfileRepository) AppendToList(ctx context.Context, ownerID kernel.UserID, field string, value json.RawMessage) error {
	if !profile.IsWhitelistedField(field) {
		return errx.Wrap(fmt.Errorf("unknown field %q", field), "field is not whitelisted", errx.TypeValidation).
			WithDetail("field", field)
	}

	query := `
		INSERT INTO profiles (owner_id, data, updated_at)
		VALUES ($1, jsonb_build_object($2::text, jsonb_build_array($3::jsonb)), NOW())
		ON CONFLICT (owner_id) DO UPDATE
		SET data = jsonb_set(
		        profiles.data,
		        ARRAY[$2::text],
		        COALESCE(profiles.data->$2::text, '[]'::jsonb) || jsonb_build_array($3::jsonb),
		        true),
		    updated_at = NOW()
		WHERE NOT COALESCE(profiles.data->$2::text, '[]'::jsonb) @> jsonb_build_array($3::jsonb)`

	_, err := r.db.ExecContext(ctx, query, ownerID.String(), field, types.JSONText(value))
	if err != nil {
		return errx.Wrap(err, "failed to append to profile list", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String()).
			WithDetail("field", field)
	}

	return nil
}

// Delete elimina el documento de perfil del dueño
func (r *PostgresProfileRepository) Delete(ctx context.Context, ownerID kernel.UserID) error {
	query := `DELETE FROM profiles WHERE owner_id = $1`

	if _, err := r.db.ExecContext(ctx, query, ownerID.String()); err != nil {
		return errx.Wrap(err, "failed to delete profile", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String())
	}

	return nil
}

// ============================================================================
// Settings Repository
// ============================================================================

// PostgresSettingsRepository implementación de PostgreSQL para SettingsRepository
type PostgresSettingsRepository struct {
	db *sqlx.DB
}

// NewPostgresSettingsRepository crea una nueva instancia del repositorio de preferencias
func NewPostgresSettingsRepository(db *sqlx.DB) profile.SettingsRepository {
	return &PostgresSettingsRepository{
		db: db,
	}
}

// Get obtiene las preferencias del dueño; sin fila devuelve los defaults
func (r *PostgresSettingsRepository) Get(ctx context.Context, ownerID kernel.UserID) (profile.Settings, error) {
	query := `SELECT linguistic_gender, response_length FROM user_settings WHERE owner_id = $1`

	var s profile.Settings
	err := r.db.GetContext(ctx, &s, query, ownerID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return profile.DefaultSettings(), nil
		}
		return profile.Settings{}, errx.Wrap(err, "failed to get user settings", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String())
	}

	return s, nil
}

// Delete elimina las preferencias del dueño
func (r *PostgresSettingsRepository) Delete(ctx context.Context, ownerID kernel.UserID) error {
	query := `DELETE FROM user_settings WHERE owner_id = $1`

	if _, err := r.db.ExecContext(ctx, query, ownerID.String()); err != nil {
		return errx.Wrap(err, "failed to delete user settings", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String())
	}

	return nil
}
