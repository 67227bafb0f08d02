package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/slides"
)

// DeckSummary is a deck listing without slide content.
type DeckSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	SlideCount int       `json:"slide_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DeckRepository provides CRUD operations for decks and their slides.
type DeckRepository struct {
	db *sql.DB
}

// Decks returns the deck repository for this store.
func (s *Store) Decks() *DeckRepository {
	return &DeckRepository{db: s.db}
}

// Create inserts a deck and its slides. Missing IDs are generated and slide
// positions follow the order of d.Slides.
func (r *DeckRepository) Create(d *slides.Deck) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO decks (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		d.ID, d.Title, d.CreatedAt, d.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert deck: %w", err)
	}

	if err := insertSlides(tx, d); err != nil {
		return err
	}

	return tx.Commit()
}

// Update replaces a deck's title and slides.
func (r *DeckRepository) Update(d *slides.Deck) error {
	d.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE decks SET title = ?, updated_at = ? WHERE id = ?`,
		d.Title, d.UpdatedAt, d.ID,
	)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM slides WHERE deck_id = ?`, d.ID); err != nil {
		return err
	}
	if err := insertSlides(tx, d); err != nil {
		return err
	}

	return tx.Commit()
}

func insertSlides(tx *sql.Tx, d *slides.Deck) error {
	for i := range d.Slides {
		s := &d.Slides[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		s.DeckID = d.ID
		s.Position = i

		if _, err := tx.Exec(
			`INSERT INTO slides (id, deck_id, position, title, body) VALUES (?, ?, ?, ?, ?)`,
			s.ID, s.DeckID, s.Position, s.Title, s.Body,
		); err != nil {
			return fmt.Errorf("insert slide %d: %w", i, err)
		}
	}
	return nil
}

// GetByID retrieves a deck with its slides in order.
func (r *DeckRepository) GetByID(id string) (*slides.Deck, error) {
	d := &slides.Deck{}

	err := r.db.QueryRow(
		`SELECT id, title, created_at, updated_at FROM decks WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.Title, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT id, deck_id, position, title, body FROM slides
		 WHERE deck_id = ? ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s slides.Slide
		if err := rows.Scan(&s.ID, &s.DeckID, &s.Position, &s.Title, &s.Body); err != nil {
			return nil, err
		}
		d.Slides = append(d.Slides, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return d, nil
}

// List returns every deck, newest first.
func (r *DeckRepository) List() ([]DeckSummary, error) {
	rows, err := r.db.Query(
		`SELECT d.id, d.title, COUNT(s.id), d.created_at, d.updated_at
		 FROM decks d LEFT JOIN slides s ON s.deck_id = d.id
		 GROUP BY d.id
		 ORDER BY d.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []DeckSummary
	for rows.Next() {
		var d DeckSummary
		if err := rows.Scan(&d.ID, &d.Title, &d.SlideCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return decks, nil
}

// Delete removes a deck and its slides.
func (r *DeckRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}
