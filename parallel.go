package anglify

import (
	"encoding/json"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BatchGetter is implemented by caches that can fetch many keys in one round
// trip. The returned map holds only the keys that were found.
type BatchGetter interface {
	GetMany(keys []string) map[string]string
}

// lookupConcurrency bounds the per-key lookups against caches without
// GetMany.
const lookupConcurrency = 16

// ParallelCacheLookup fetches cached results for nodes. It returns the hits
// keyed by node hash and the nodes that missed, deduplicated and in their
// original order.
//
// A cache implementing BatchGetter is asked once; any other cache is queried
// per unique hash with bounded concurrency. Entries that fail to decode count
// as misses.
func ParallelCacheLookup(cache TranslationCache, nodes []TextNode, dir Direction, revision string) (map[string]Result, []TextNode) {
	unique := uniqueNodes(nodes)
	found := make(map[string]Result, len(unique))
	if cache == nil || len(unique) == 0 {
		return found, unique
	}

	keys := make([]string, len(unique))
	for i, node := range unique {
		keys[i] = CacheKeyVersioned(node.Hash, dir, revision)
	}

	var raw map[string]string
	if bg, ok := cache.(BatchGetter); ok {
		raw = bg.GetMany(keys)
	} else {
		raw = getEach(cache, keys)
	}

	var misses []TextNode
	for i, node := range unique {
		var res Result
		if val, ok := raw[keys[i]]; ok && json.Unmarshal([]byte(val), &res) == nil {
			found[node.Hash] = res
			continue
		}
		misses = append(misses, node)
	}

	return found, misses
}

// getEach looks keys up one at a time, lookupConcurrency at once.
func getEach(cache TranslationCache, keys []string) map[string]string {
	var (
		mu  sync.Mutex
		out = make(map[string]string, len(keys))
		g   errgroup.Group
	)
	g.SetLimit(lookupConcurrency)

	for _, key := range keys {
		g.Go(func() error {
			if val, ok := cache.Get(key); ok {
				mu.Lock()
				out[key] = val
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // lookups never fail

	return out
}

func uniqueNodes(nodes []TextNode) []TextNode {
	var out []TextNode
	seen := make(map[string]bool)
	for _, node := range nodes {
		if !seen[node.Hash] {
			out = append(out, node)
			seen[node.Hash] = true
		}
	}
	return out
}
