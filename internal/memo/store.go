// Package memo is the redis-backed sticky-note board shown next to the
// reports: small positioned notes the warehouse team leaves for each
// other.
package memo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const boardKey = "memo:board"

// Memo is one sticky note. X and Y are board coordinates.
type Memo struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
}

// Store keeps the board in a single redis hash keyed by memo id.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// List returns all memos, newest first.
func (s *Store) List(ctx context.Context) ([]Memo, error) {
	raw, err := s.client.HGetAll(ctx, boardKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read memo board: %w", err)
	}

	memos := make([]Memo, 0, len(raw))
	for id, payload := range raw {
		var m Memo
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			return nil, fmt.Errorf("decode memo %s: %w", id, err)
		}
		memos = append(memos, m)
	}
	sort.Slice(memos, func(i, j int) bool { return memos[i].Timestamp.After(memos[j].Timestamp) })
	return memos, nil
}

// Add creates a memo with a fresh id and returns it.
func (s *Store) Add(ctx context.Context, content string, x, y int) (Memo, error) {
	m := Memo{
		ID:        newID(),
		Content:   content,
		Timestamp: time.Now().UTC(),
		X:         x,
		Y:         y,
	}
	if err := s.write(ctx, m); err != nil {
		return Memo{}, err
	}
	return m, nil
}

// Update replaces an existing memo's content and position, refreshing
// its timestamp.
func (s *Store) Update(ctx context.Context, id, content string, x, y int) (Memo, error) {
	exists, err := s.client.HExists(ctx, boardKey, id).Result()
	if err != nil {
		return Memo{}, fmt.Errorf("failed to check memo %s: %w", id, err)
	}
	if !exists {
		return Memo{}, ErrNotFound
	}

	m := Memo{ID: id, Content: content, Timestamp: time.Now().UTC(), X: x, Y: y}
	if err := s.write(ctx, m); err != nil {
		return Memo{}, err
	}
	return m, nil
}

// Delete removes a memo. Deleting an absent memo is ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.client.HDel(ctx, boardKey, id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete memo %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) write(ctx context.Context, m Memo) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode memo: %w", err)
	}
	if err := s.client.HSet(ctx, boardKey, m.ID, payload).Err(); err != nil {
		return fmt.Errorf("failed to store memo %s: %w", m.ID, err)
	}
	return nil
}

func newID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}
