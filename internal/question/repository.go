package question

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/aid-linh-pnp/test-question/internal/logger"
	"github.com/aid-linh-pnp/test-question/internal/models"
)

// Repository indexes a flat question bank by (skill, seniority, level) and
// serves one matching record at random. Read-only after indexing; an empty
// pool is reported as found=false, not an error.
type Repository struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	pools map[string][]models.QuestionRecord
	log   *logger.Logger
}

// NewRepository indexes the given records. rnd drives question selection; pass
// a seeded source in tests for deterministic picks, or nil for a time-seeded
// one.
func NewRepository(records []models.QuestionRecord, rnd *rand.Rand) *Repository {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(rand.Int63()))
	}
	log := logger.Default().WithPrefix("questions")

	pools := make(map[string][]models.QuestionRecord)
	for _, q := range records {
		key := poolKey(q.Skill, q.Seniority, q.Level)
		pools[key] = append(pools[key], q)
	}
	log.Debug("indexed %d questions into %d pools", len(records), len(pools))

	return &Repository{rnd: rnd, pools: pools, log: log}
}

// Fetch returns one question chosen uniformly at random from the pool matching
// (skill, seniority, level). found is false when the pool is empty.
func (r *Repository) Fetch(skill string, seniority models.Seniority, level int) (q models.QuestionRecord, found bool) {
	pool := r.pools[poolKey(skill, seniority, level)]
	if len(pool) == 0 {
		r.log.Debug("empty pool: skill=%s seniority=%s level=%d", skill, seniority, level)
		return models.QuestionRecord{}, false
	}

	r.mu.Lock()
	i := r.rnd.Intn(len(pool))
	r.mu.Unlock()
	return pool[i], true
}

// PoolSize returns how many questions match (skill, seniority, level).
func (r *Repository) PoolSize(skill string, seniority models.Seniority, level int) int {
	return len(r.pools[poolKey(skill, seniority, level)])
}

// Skills returns the set of skills present in the bank.
func (r *Repository) Skills() map[string]bool {
	skills := make(map[string]bool)
	for _, pool := range r.pools {
		for _, q := range pool {
			skills[q.Skill] = true
		}
	}
	return skills
}

func poolKey(skill string, seniority models.Seniority, level int) string {
	return fmt.Sprintf("%s_%s_%d", skill, seniority, level)
}
