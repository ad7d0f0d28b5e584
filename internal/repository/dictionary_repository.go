package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"skill-match/internal/database"
	"skill-match/internal/domain/dictionary"
)

var ErrDictionaryVersionNotFound = errors.New("dictionary version not found")

type DictionaryRepository interface {
	LoadLatest(ctx context.Context) (dictionary.Document, bool, error)
	LoadByVersion(ctx context.Context, version string) (dictionary.Document, error)
	Save(ctx context.Context, doc dictionary.Document) error
}

type PostgresDictionaryRepository struct {
	db database.DB
}

func NewPostgresDictionaryRepository(db database.DB) *PostgresDictionaryRepository {
	return &PostgresDictionaryRepository{db: db}
}

func (r *PostgresDictionaryRepository) LoadLatest(ctx context.Context) (dictionary.Document, bool, error) {
	row := r.db.QueryRow(ctx,
		`SELECT document FROM dictionary_versions ORDER BY version DESC LIMIT 1`,
	)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if database.IsNoRows(err) {
			return dictionary.Document{}, false, nil
		}
		return dictionary.Document{}, false, err
	}

	var doc dictionary.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return dictionary.Document{}, false, err
	}
	return doc, true, nil
}

func (r *PostgresDictionaryRepository) LoadByVersion(ctx context.Context, version string) (dictionary.Document, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(version), 10, 64)
	if err != nil {
		return dictionary.Document{}, ErrDictionaryVersionNotFound
	}

	row := r.db.QueryRow(ctx,
		`SELECT document FROM dictionary_versions WHERE version = $1`,
		v,
	)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if database.IsNoRows(err) {
			return dictionary.Document{}, ErrDictionaryVersionNotFound
		}
		return dictionary.Document{}, err
	}

	var doc dictionary.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return dictionary.Document{}, err
	}
	return doc, nil
}

func (r *PostgresDictionaryRepository) Save(ctx context.Context, doc dictionary.Document) error {
	v, err := strconv.ParseInt(strings.TrimSpace(doc.Version), 10, 64)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO dictionary_versions (version, document, created_at) VALUES ($1, $2, $3)`,
		v, raw, doc.UpdatedAt,
	)
	return err
}
