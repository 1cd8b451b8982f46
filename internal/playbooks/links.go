// internal/playbooks/links.go
package playbooks

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/solidwrite/pseo/internal/models"
)

// Split of related links between the page's own playbook and the others.
const (
	samePlaybookLinks  = 2
	otherPlaybookLinks = 3
)

// LinkBuilder samples related pages from a manifest. Sampling is uniform
// within each partition so link equity spreads across the catalog instead of
// pooling on a few hub pages.
//
// Partitions are indexed once at construction; each Build call costs
// O(count) regardless of manifest size.
type LinkBuilder struct {
	routes []models.Route
	same   map[models.Playbook][]int
	other  map[models.Playbook][]int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewLinkBuilder indexes routes. rng is the only source of randomness; pass
// a fixed-seed generator for reproducible link sets.
func NewLinkBuilder(routes []models.Route, rng *rand.Rand) *LinkBuilder {
	if rng == nil {
		rng = NewRand(0)
	}

	lb := &LinkBuilder{
		routes: routes,
		same:   make(map[models.Playbook][]int),
		other:  make(map[models.Playbook][]int),
		rng:    rng,
	}

	for i, r := range routes {
		lb.same[r.Playbook] = append(lb.same[r.Playbook], i)
	}
	for playbook := range lb.same {
		others := make([]int, 0, len(routes)-len(lb.same[playbook]))
		for i, r := range routes {
			if r.Playbook != playbook {
				others = append(others, i)
			}
		}
		lb.other[playbook] = others
	}

	return lb
}

// NewRand returns a generator for seed, or a clock-derived one when seed is 0.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// Build draws up to 2 routes of the same playbook and 3 of other playbooks,
// never the current slug, and truncates the result to count.
func (lb *LinkBuilder) Build(currentSlug string, playbook models.Playbook, count int) []models.InternalLink {
	if count <= 0 {
		return []models.InternalLink{}
	}

	other, ok := lb.other[playbook]
	if !ok {
		// playbook absent from the manifest: every route is "other"
		other = make([]int, len(lb.routes))
		for i := range other {
			other[i] = i
		}
	}

	lb.mu.Lock()
	picked := lb.sample(lb.same[playbook], samePlaybookLinks, currentSlug)
	picked = append(picked, lb.sample(other, otherPlaybookLinks, currentSlug)...)
	lb.mu.Unlock()

	if len(picked) > count {
		picked = picked[:count]
	}

	links := make([]models.InternalLink, 0, len(picked))
	for _, i := range picked {
		r := lb.routes[i]
		links = append(links, models.InternalLink{URL: r.URL(), Title: r.Title, Playbook: r.Playbook})
	}
	return links
}

// sample picks k distinct positions of pool whose route slug is not exclude.
// It draws k+1 with Floyd's algorithm so one exclusion still leaves k, then
// shuffles to keep the output order random as well.
func (lb *LinkBuilder) sample(pool []int, k int, exclude string) []int {
	n := len(pool)
	draw := k + 1
	if draw > n {
		draw = n
	}

	chosen := make(map[int]struct{}, draw)
	order := make([]int, 0, draw)
	for j := n - draw; j < n; j++ {
		t := lb.rng.IntN(j + 1)
		if _, dup := chosen[t]; dup {
			t = j
		}
		chosen[t] = struct{}{}
		order = append(order, t)
	}
	lb.rng.Shuffle(len(order), func(a, b int) { order[a], order[b] = order[b], order[a] })

	out := make([]int, 0, k)
	for _, pos := range order {
		idx := pool[pos]
		if lb.routes[idx].Slug == exclude {
			continue
		}
		out = append(out, idx)
		if len(out) == k {
			break
		}
	}
	return out
}
