package store

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/model"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/types"
)

// ErrNotFound is returned when a document id does not exist.
var ErrNotFound = errors.New("document not found")

// The vector column width must match the embedder output.
var dimLiteral = strconv.Itoa(model.EmbeddingDim)

type DBStorer interface {
	SaveDocument(context.Context, *types.Document) error
	GetDocumentByID(context.Context, uuid.UUID) (*types.Document, error)
	ListDocuments(context.Context) ([]types.Document, error)
	DeleteDocument(context.Context, uuid.UUID) error
	ReplaceChunks(ctx context.Context, docID string, chunks []types.Chunk) error
	AllChunks(context.Context) ([]types.Chunk, error)
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool: pool,
	}, nil
}

func (p *PostgresStore) SaveDocument(ctx context.Context, doc *types.Document) error {
	query := `INSERT INTO documents (id, name, mime_type, size_bytes, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			mime_type = EXCLUDED.mime_type,
			size_bytes = EXCLUDED.size_bytes,
			text = EXCLUDED.text,
			updated_at = EXCLUDED.updated_at
			`
	_, err := p.pool.Exec(
		ctx,
		query,
		doc.ID,
		doc.Name,
		doc.MimeType,
		doc.SizeBytes,
		doc.Text,
		doc.CreatedAt,
		doc.UpdatedAt,
	)

	return err
}

func (p *PostgresStore) GetDocumentByID(ctx context.Context, docID uuid.UUID) (*types.Document, error) {
	doc := &types.Document{}
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, mime_type, size_bytes, text, created_at, updated_at
		 FROM documents WHERE id = $1`, docID).Scan(
		&doc.ID,
		&doc.Name,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.Text,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (p *PostgresStore) ListDocuments(ctx context.Context) ([]types.Document, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, mime_type, size_bytes, created_at, updated_at
		 FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		var doc types.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.Name,
			&doc.MimeType,
			&doc.SizeBytes,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document together with its chunks in one
// transaction.
func (p *PostgresStore) DeleteDocument(ctx context.Context, docID uuid.UUID) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM chunks WHERE doc_id = $1`, docID.String()); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM documents WHERE id = $1`, docID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// ReplaceChunks swaps the whole chunk set of a document. Delete and insert
// run in one transaction so a concurrent reader never observes a
// half-cleared document, and a rejected batch rolls the delete back too.
func (p *PostgresStore) ReplaceChunks(ctx context.Context, docID string, chunks []types.Chunk) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM chunks WHERE doc_id = $1`, docID); err != nil {
		return err
	}

	if len(chunks) == 0 {
		return tx.Commit(ctx)
	}

	batch := &pgx.Batch{}
	for _, c := range chunks {
		batch.Queue(`
    INSERT INTO chunks (id, doc_id, doc_name, chunk_index, content, embedding, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    `,
			c.ID, c.DocID, c.DocName, c.Index, c.Text, pgvector.NewVector(c.Embedding), c.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range chunks {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// AllChunks returns every stored chunk with its embedding, in insertion
// order. Retrieval scans this in process; the result order is the tie-break
// for equal similarity scores.
func (p *PostgresStore) AllChunks(ctx context.Context) ([]types.Chunk, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, doc_id, doc_name, chunk_index, content, embedding, created_at
		 FROM chunks ORDER BY created_at, doc_id, chunk_index`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []types.Chunk
	for rows.Next() {
		var chunk types.Chunk
		var embedding pgvector.Vector
		if err := rows.Scan(
			&chunk.ID,
			&chunk.DocID,
			&chunk.DocName,
			&chunk.Index,
			&chunk.Text,
			&embedding,
			&chunk.CreatedAt,
		); err != nil {
			return nil, err
		}
		chunk.Embedding = embedding.Slice()
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (p *PostgresStore) createTables(ctx context.Context) error {
	query := `
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		mime_type TEXT,
		size_bytes BIGINT,
		text TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE,
		updated_at TIMESTAMP WITH TIME ZONE
	);

    CREATE TABLE IF NOT EXISTS chunks (
        id UUID PRIMARY KEY,
        doc_id TEXT NOT NULL,
        doc_name TEXT NOT NULL,
        chunk_index INT NOT NULL,
        content TEXT NOT NULL,
        embedding vector(` + dimLiteral + `),
        created_at TIMESTAMP WITH TIME ZONE
    );

	CREATE INDEX IF NOT EXISTS idx_chunks_doc_id ON chunks(doc_id);
    `
	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p *PostgresStore) Init(ctx context.Context) error {
	return p.createTables(ctx)
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}
