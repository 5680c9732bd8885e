package dataset

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	_ "modernc.org/sqlite"

	"github.com/atlasviz/papergraph/pkg/graph"
)

// Store wraps a SQLite database holding the paper set, precomputed
// projection coordinates, embeddings, and similarity edges.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates a store at the given path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	// SQLite does not support concurrent writers.
	db.SetMaxOpenConns(1)
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors_json TEXT NOT NULL,
			subject_areas_json TEXT NOT NULL,
			cluster INTEGER,
			x REAL,
			y REAL,
			embedding BLOB
		);
		CREATE TABLE IF NOT EXISTS edges (
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			similarity REAL NOT NULL,
			PRIMARY KEY (source, target)
		);
	`
	_, err := db.Exec(schema)
	return err
}

// PutPaper inserts or replaces one paper. A nil embedding stores NULL.
func (s *Store) PutPaper(n *graph.Node, embedding []float32) error {
	authors, err := json.Marshal(n.Authors)
	if err != nil {
		return fmt.Errorf("encoding authors: %w", err)
	}
	areas, err := json.Marshal(n.SubjectAreas)
	if err != nil {
		return fmt.Errorf("encoding subject areas: %w", err)
	}
	var cluster interface{}
	if n.Cluster != graph.NoCluster {
		cluster = n.Cluster
	}
	var x, y interface{}
	if n.HasProjection {
		x, y = n.PX, n.PY
	}
	var blob interface{}
	if embedding != nil {
		blob = encodeEmbedding(embedding)
	}
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO papers
			(id, title, authors_json, subject_areas_json, cluster, x, y, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, string(authors), string(areas), cluster, x, y, blob)
	if err != nil {
		return fmt.Errorf("storing paper %s: %w", n.ID, err)
	}
	return nil
}

// PutEdge inserts or replaces one similarity edge.
func (s *Store) PutEdge(e graph.Edge) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO edges (source, target, similarity)
		VALUES (?, ?, ?)`,
		e.Source, e.Target, e.Similarity)
	if err != nil {
		return fmt.Errorf("storing edge %s-%s: %w", e.Source, e.Target, err)
	}
	return nil
}

// Papers loads every paper, ordered by id for deterministic output.
func (s *Store) Papers() ([]*graph.Node, error) {
	rows, err := s.db.Query(`
		SELECT id, title, authors_json, subject_areas_json, cluster, x, y
		FROM papers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var nodes []*graph.Node
	for rows.Next() {
		var (
			n       graph.Node
			authors string
			areas   string
			cluster sql.NullInt64
			x, y    sql.NullFloat64
		)
		if err := rows.Scan(&n.ID, &n.Title, &authors, &areas, &cluster, &x, &y); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if err := json.Unmarshal([]byte(authors), &n.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors for %s: %w", n.ID, err)
		}
		if err := json.Unmarshal([]byte(areas), &n.SubjectAreas); err != nil {
			return nil, fmt.Errorf("decoding subject areas for %s: %w", n.ID, err)
		}
		n.Cluster = graph.NoCluster
		if cluster.Valid {
			n.Cluster = int(cluster.Int64)
		}
		if x.Valid && y.Valid {
			n.PX, n.PY = x.Float64, y.Float64
			n.HasProjection = true
		}
		nodes = append(nodes, &n)
	}
	return nodes, rows.Err()
}

// Edges loads every similarity edge, ordered for deterministic output.
func (s *Store) Edges() ([]graph.Edge, error) {
	rows, err := s.db.Query(`SELECT source, target, similarity FROM edges ORDER BY source, target`)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}
	defer rows.Close()

	var edges []graph.Edge
	for rows.Next() {
		var e graph.Edge
		if err := rows.Scan(&e.Source, &e.Target, &e.Similarity); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Embeddings loads the embedding vectors of all papers that have one.
func (s *Store) Embeddings() (map[string][]float32, error) {
	rows, err := s.db.Query(`SELECT id, embedding FROM papers WHERE embedding IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]float32)
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		out[id] = decodeEmbedding(blob)
	}
	return out, rows.Err()
}

// Embeddings are stored as little-endian float32 blobs.

func encodeEmbedding(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeEmbedding(blob []byte) []float32 {
	v := make([]float32, len(blob)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return v
}
