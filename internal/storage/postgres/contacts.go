package postgres

import (
	"context"
	"fmt"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const contactColumns = `id, profile_id, type, title, url, icon_name, order_index`

func scanContacts(rows pgx.Rows) ([]models.Contact, error) {
	defer rows.Close()

	out := make([]models.Contact, 0, models.MaxContacts)
	for rows.Next() {
		var c models.Contact
		var typ string
		if err := rows.Scan(&c.ID, &c.ProfileID, &typ, &c.Title, &c.URL, &c.IconName, &c.OrderIndex); err != nil {
			return nil, err
		}
		c.Type = models.ContactType(typ)
		out = append(out, c)
	}

	return out, rows.Err()
}

// ContactsByProfile возвращает контакты профиля по возрастанию order_index.
func (s *Storage) ContactsByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Contact, error) {
	const op = "storage/postgres/contacts/ContactsByProfile"

	q := `SELECT ` + contactColumns + ` FROM profile_contacts WHERE profile_id = $1 ORDER BY order_index, type`

	rows, err := s.db.Query(ctx, q, profileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := scanContacts(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// ReplaceContacts заменяет контакты профиля: DELETE + INSERT в одной транзакции.
// Ошибки: storage.ErrNotFound — профиля нет; storage.ErrAlreadyExists — повтор типа.
func (s *Storage) ReplaceContacts(ctx context.Context, profileID uuid.UUID, contacts []models.Contact) ([]models.Contact, error) {
	const op = "storage/postgres/contacts/ReplaceContacts"

	var out []models.Contact

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM profile_contacts WHERE profile_id = $1`, profileID); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, c := range contacts {
			id := c.ID
			if id == uuid.Nil {
				id = uuid.New()
			}

			batch.Queue(`
			INSERT INTO profile_contacts (`+contactColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				id, profileID, string(c.Type), c.Title, c.URL, c.IconName, c.OrderIndex,
			)
		}

		if batch.Len() > 0 {
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return err
			}
		}

		rows, err := tx.Query(ctx,
			`SELECT `+contactColumns+` FROM profile_contacts WHERE profile_id = $1 ORDER BY order_index, type`,
			profileID)
		if err != nil {
			return err
		}

		out, err = scanContacts(rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return out, nil
}
